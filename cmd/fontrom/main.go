package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fkcurrie/ledscroll-golang/internal/romgen"
	"github.com/fkcurrie/ledscroll-golang/pkg/font"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "fontrom"
	app.Usage = "build a GB2312 16x16 font ROM image for the simulated sign"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "font",
			Usage: "TTF/OTF font file (default: built-in ASCII face)",
		},
		cli.Float64Flag{
			Name:  "size",
			Usage: "font size in pixels",
			Value: 16,
		},
		cli.StringFlag{
			Name:  "out, o",
			Usage: "output image path",
			Value: "font.rom",
		},
	}
	app.Action = build

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error building ROM image", "error", err)
		os.Exit(1)
	}
}

func build(c *cli.Context) error {
	builder := romgen.Default()
	if path := c.String("font"); path != "" {
		var err error
		if builder, err = romgen.Load(path, c.Float64("size")); err != nil {
			return err
		}
	}

	image := builder.Build()
	out := c.String("out")
	if err := os.WriteFile(out, image, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %v", out, err)
	}
	slog.Info("ROM image written", "path", out, "bytes", len(image), "glyphs", len(image)/font.GlyphSize)
	return nil
}
