package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fkcurrie/ledscroll-golang/internal/config"
	"github.com/urfave/cli"
	"github.com/warthog618/go-gpiocdev"
)

func main() {
	app := cli.NewApp()
	app.Name = "gpio-test"
	app.Usage = "toggle every configured output line once a second"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "path to a JSON config file",
		},
		cli.DurationFlag{
			Name:  "period",
			Usage: "toggle period",
			Value: time.Second,
		},
	}
	app.Action = toggle

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func outputLines(cfg *config.Config) []int {
	p := cfg.Panel
	lines := []int{cfg.ROM.CS, cfg.ROM.SCLK, cfg.ROM.SI, p.SDI, p.CLK, p.LE, p.OE, p.A, p.B, p.C, p.D}
	for _, opt := range []int{p.STB, p.INH} {
		if opt >= 0 {
			lines = append(lines, opt)
		}
	}
	return lines
}

func toggle(c *cli.Context) error {
	// Set up signal handler for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	cfg := config.DefaultConfig()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadConfig(path); err != nil {
			return err
		}
	}

	log.Printf("Starting GPIO test on %s...", cfg.Chip)

	offsets := outputLines(cfg)
	lines, err := gpiocdev.RequestLines(cfg.Chip, offsets,
		gpiocdev.AsOutput(make([]int, len(offsets))...),
		gpiocdev.WithConsumer("gpio-test"))
	if err != nil {
		return err
	}
	defer lines.Close()

	log.Printf("Successfully requested lines %v", offsets)

	values := make([]int, len(offsets))
	ticker := time.NewTicker(c.Duration("period"))
	defer ticker.Stop()
	for {
		select {
		case <-sigChan:
			log.Println("Shutting down...")
			return lines.SetValues(make([]int, len(offsets)))
		case <-ticker.C:
			for i := range values {
				values[i] ^= 1
			}
			if err := lines.SetValues(values); err != nil {
				log.Printf("Failed to set values: %v", err)
				continue
			}
			log.Printf("Set lines to %d", values[0])
		}
	}
}
