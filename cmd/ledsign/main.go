package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fkcurrie/ledscroll-golang/internal/board"
	"github.com/fkcurrie/ledscroll-golang/internal/config"
	"github.com/fkcurrie/ledscroll-golang/internal/display"
	"github.com/fkcurrie/ledscroll-golang/internal/message"
	"github.com/fkcurrie/ledscroll-golang/internal/preview"
	"github.com/fkcurrie/ledscroll-golang/pkg/font"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "ledsign"
	app.Usage = "drive a 16x80 scrolling LED sign"
	app.Version = "0.1.0"
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "scroll the greeting and any messages read from stdin",
			Flags: append(commonFlags(),
				cli.StringFlag{
					Name:  "backend",
					Usage: "line backend: cdev, sysfs, periph or sim (overrides the config file)",
				},
				cli.BoolFlag{
					Name:  "stdin",
					Usage: "read one message per line from standard input",
				},
				cli.BoolFlag{
					Name:  "preview",
					Usage: "show the simulated panel in the terminal (sim backend only)",
				},
				cli.BoolFlag{
					Name:  "lock-memory",
					Usage: "lock the process in RAM",
				},
			),
			Action: runSign,
		},
		{
			Name:  "snapshot",
			Usage: "run the simulated sign for a number of ticks and save the panel image",
			Flags: append(commonFlags(),
				cli.IntFlag{
					Name:  "ticks",
					Usage: "number of ticks to run",
					Value: 30 * 16 * 4,
				},
				cli.StringFlag{
					Name:  "out",
					Usage: "PNG output path",
					Value: "ledsign.png",
				},
				cli.StringFlag{
					Name:  "svg",
					Usage: "also write an SVG to this path",
				},
				cli.IntFlag{
					Name:  "pitch",
					Usage: "pixels per LED",
					Value: 8,
				},
			),
			Action: snapshot,
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running ledsign", "error", err)
		os.Exit(1)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "path to a JSON config file",
		},
		cli.StringFlag{
			Name:  "text, t",
			Usage: "greeting text (overrides the config file)",
		},
		cli.StringFlag{
			Name:  "bit-order",
			Usage: "row bit order: msb or lsb",
		},
		cli.StringFlag{
			Name:  "rom-image",
			Usage: "font ROM image for the sim backend",
		},
		cli.StringFlag{
			Name:  "font",
			Usage: "TTF/OTF font used to build the sim ROM image",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging",
		},
	}
}

func setupLogging(c *cli.Context, out io.Writer) {
	level := slog.LevelInfo
	if c.Bool("debug") {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if c.IsSet("text") {
		cfg.Greeting = c.String("text")
	}
	if c.IsSet("bit-order") {
		cfg.BitOrder = c.String("bit-order")
	}
	if c.IsSet("rom-image") {
		cfg.Sim.ROMImage = c.String("rom-image")
	}
	if c.IsSet("font") {
		cfg.Sim.FontFile = c.String("font")
	}
	if c.IsSet("backend") {
		cfg.Backend = c.String("backend")
	}
	if c.Bool("lock-memory") {
		cfg.LockMemory = true
	}
	return cfg, cfg.Validate()
}

func newTask(cfg *config.Config, b *board.Board, inbox display.Inbox) (*display.Task, error) {
	greeting, err := font.Encode(cfg.Greeting)
	if err != nil {
		return nil, fmt.Errorf("failed to encode greeting: %v", err)
	}
	if err := b.Init(); err != nil {
		return nil, err
	}
	task := display.New(display.Config{
		ROM:   b.ROM,
		Panel: b.Panel,
		Inbox: inbox,
		Timing: display.Timing{
			ScrollInterval: cfg.Timing.ScrollInterval,
			GlyphWidth:     cfg.Timing.GlyphWidth,
			BlankLimit:     cfg.Timing.BlankLimit,
		},
		Greeting: greeting,
		Logger:   slog.Default(),
	})
	if task.State() == display.StateError {
		return nil, task.Err()
	}
	return task, nil
}

func runSign(c *cli.Context) error {
	showPreview := c.Bool("preview")
	// The preview owns the terminal, so logs go to a file instead.
	logOut := io.Writer(os.Stderr)
	if showPreview {
		f, err := os.CreateTemp("", "ledsign-*.log")
		if err != nil {
			return fmt.Errorf("failed to create log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	setupLogging(c, logOut)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if showPreview && cfg.Backend != config.BackendSim {
		return errors.New("--preview needs the sim backend")
	}

	b, err := board.Open(cfg, slog.Default())
	if err != nil {
		return err
	}
	defer b.Close()

	inbox := message.NewMailbox(4)
	task, err := newTask(cfg, b, inbox)
	if err != nil {
		return err
	}
	defer func() {
		if err := task.Shutdown(); err != nil {
			slog.Warn("failed to blank panel", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.Bool("stdin") {
		go readMessages(ctx, os.Stdin, inbox)
	}

	runner := &display.Runner{
		Task:   task,
		Period: time.Duration(cfg.Timing.TickMillis) * time.Millisecond,
		Logger: slog.Default(),
	}
	slog.Info("sign running", "backend", cfg.Backend, "greeting", cfg.Greeting)

	if !showPreview {
		if err := runner.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- runner.Start(ctx) }()

	term, err := preview.NewTerminal(b.Sim.Panel)
	if err != nil {
		return err
	}
	err = term.Run(ctx)
	cancel()
	<-done
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// readMessages posts each input line as a display message.
func readMessages(ctx context.Context, in io.Reader, inbox *message.Mailbox) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		codes, err := font.Encode(scanner.Text())
		if err != nil {
			slog.Warn("message rejected", "error", err)
			continue
		}
		if len(codes) > message.Capacity {
			slog.Warn("message truncated", "characters", len(codes), "kept", message.Capacity)
		}
		if err := inbox.Post(ctx, message.Payload(message.CmdDisplayText, codes)); err != nil {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		slog.Error("failed to read messages", "error", err)
	}
}

func snapshot(c *cli.Context) error {
	setupLogging(c, os.Stderr)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	cfg.Backend = config.BackendSim

	b, err := board.Open(cfg, slog.Default())
	if err != nil {
		return err
	}
	defer b.Close()

	task, err := newTask(cfg, b, nil)
	if err != nil {
		return err
	}

	ticks := c.Int("ticks")
	for i := 0; i < ticks; i++ {
		if err := task.Tick(); err != nil {
			return fmt.Errorf("tick %d failed: %v", i, err)
		}
	}
	frame := b.Sim.Panel.Frame()
	pitch := c.Int("pitch")

	out, err := os.Create(c.String("out"))
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %v", err)
	}
	defer out.Close()
	if err := preview.PNG(out, frame, pitch); err != nil {
		return err
	}

	if path := c.String("svg"); path != "" {
		if err := os.WriteFile(path, []byte(preview.SVG(frame, pitch)), 0644); err != nil {
			return fmt.Errorf("failed to write svg: %v", err)
		}
	}
	slog.Info("snapshot saved", "ticks", ticks, "shifts", task.Shifts(), "out", c.String("out"))
	return nil
}
