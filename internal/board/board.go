// Package board opens the lines named in the configuration and assembles the
// font ROM reader and the panel driver on top of them.
package board

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fkcurrie/ledscroll-golang/internal/config"
	"github.com/fkcurrie/ledscroll-golang/internal/romgen"
	"github.com/fkcurrie/ledscroll-golang/internal/sim"
	"github.com/fkcurrie/ledscroll-golang/pkg/bitbang"
	"github.com/fkcurrie/ledscroll-golang/pkg/font"
	"github.com/fkcurrie/ledscroll-golang/pkg/ledmatrix"
)

const consumer = "ledsign"

// Board is an opened sign: a ROM reader and a panel driver sharing one delay.
type Board struct {
	ROM   *font.ROM
	Panel *ledmatrix.Driver
	// Sim is set for the sim backend.
	Sim *Sim

	closers []io.Closer
}

// Sim holds the simulated devices behind a sim board.
type Sim struct {
	Bus   *sim.Bus
	ROM   *sim.ROM
	Panel *sim.Panel
}

// Open opens every configured line. On error the lines opened so far are
// released.
func Open(cfg *config.Config, log *slog.Logger) (*Board, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Backend == config.BackendSim {
		return openSim(cfg)
	}

	if cfg.LockMemory {
		if err := lockMemory(); err != nil {
			log.Warn("failed to lock memory", "error", err)
		} else {
			log.Debug("memory locked")
		}
	}

	var lines opener
	switch cfg.Backend {
	case config.BackendCdev:
		lines = cdevOpener{chip: cfg.Chip}
	case config.BackendSysfs:
		lines = sysfsOpener{}
	case config.BackendPeriph:
		if err := bitbang.InitPeriph(); err != nil {
			return nil, err
		}
		lines = periphOpener{}
	}

	b := &Board{}
	if err := b.openLines(cfg, lines); err != nil {
		b.Close()
		return nil, err
	}

	delay := hardwareDelay(cfg)
	log.Info("board opened", "backend", cfg.Backend, "loops_per_unit", delay.LoopsPerUnit)
	b.ROM.Delay = delay
	b.Panel.Delay = delay
	return b, nil
}

func hardwareDelay(cfg *config.Config) bitbang.BusyWait {
	if cfg.Timing.LoopsPerUnit > 0 {
		return bitbang.BusyWait{LoopsPerUnit: cfg.Timing.LoopsPerUnit}
	}
	unit := time.Duration(cfg.Timing.UnitNanos) * time.Nanosecond
	if unit <= 0 {
		unit = 100 * time.Nanosecond
	}
	return bitbang.Calibrate(unit)
}

func (b *Board) openLines(cfg *config.Config, lines opener) error {
	out := func(name string, n int) (bitbang.Output, error) {
		l, err := lines.output(n)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", name, err)
		}
		b.closers = append(b.closers, l)
		return l, nil
	}

	var err error
	rom := &font.ROM{Units: cfg.Timing.SettleUnits, Base: font.BaseAddress}
	if rom.CS, err = out("rom.cs", cfg.ROM.CS); err != nil {
		return err
	}
	if rom.SCLK, err = out("rom.sclk", cfg.ROM.SCLK); err != nil {
		return err
	}
	if rom.SI, err = out("rom.si", cfg.ROM.SI); err != nil {
		return err
	}
	so, err := lines.input(cfg.ROM.SO)
	if err != nil {
		return fmt.Errorf("failed to open rom.so: %w", err)
	}
	b.closers = append(b.closers, so)
	rom.SO = so

	p := cfg.Panel
	drv := &ledmatrix.Driver{Order: cfg.Order(), Units: cfg.Timing.SettleUnits}
	named := []struct {
		name string
		line int
		dst  *bitbang.Output
	}{
		{"panel.sdi", p.SDI, &drv.SDI},
		{"panel.clk", p.CLK, &drv.CLK},
		{"panel.le", p.LE, &drv.LE},
		{"panel.oe", p.OE, &drv.OE},
		{"panel.a", p.A, &drv.Addr[0]},
		{"panel.b", p.B, &drv.Addr[1]},
		{"panel.c", p.C, &drv.Addr[2]},
		{"panel.d", p.D, &drv.Addr[3]},
		{"panel.stb", p.STB, &drv.STB},
		{"panel.inh", p.INH, &drv.INH},
	}
	for _, l := range named {
		if l.line < 0 {
			continue
		}
		if *l.dst, err = out(l.name, l.line); err != nil {
			return err
		}
	}

	b.ROM, b.Panel = rom, drv
	return nil
}

func openSim(cfg *config.Config) (*Board, error) {
	image, err := simImage(cfg)
	if err != nil {
		return nil, err
	}

	bus := sim.NewBus()
	cs, sclk, si, so := bus.Pin("CS"), bus.Pin("SCLK"), bus.Pin("SI"), bus.Pin("SO")
	pins := sim.PanelPins{
		SDI: bus.Pin("SDI"), CLK: bus.Pin("CLK"), LE: bus.Pin("LE"), OE: bus.Pin("OE"),
		Addr: [4]*sim.Pin{bus.Pin("A"), bus.Pin("B"), bus.Pin("C"), bus.Pin("D")},
		STB:  bus.Pin("STB"), INH: bus.Pin("INH"),
	}

	nop := bitbang.Nop{}
	b := &Board{
		ROM: &font.ROM{CS: cs, SCLK: sclk, SI: si, SO: so, Delay: nop, Units: cfg.Timing.SettleUnits},
		Panel: &ledmatrix.Driver{
			SDI: pins.SDI, CLK: pins.CLK, LE: pins.LE, OE: pins.OE,
			Addr:  [4]bitbang.Output{pins.Addr[0], pins.Addr[1], pins.Addr[2], pins.Addr[3]},
			STB:   pins.STB,
			INH:   pins.INH,
			Order: cfg.Order(),
			Delay: nop,
			Units: cfg.Timing.SettleUnits,
		},
		Sim: &Sim{
			Bus:   bus,
			ROM:   sim.NewROM(image, cs, sclk, si, so),
			Panel: sim.NewPanel(pins, cfg.Order()),
		},
	}
	return b, nil
}

func simImage(cfg *config.Config) ([]byte, error) {
	if cfg.Sim.ROMImage != "" {
		data, err := os.ReadFile(cfg.Sim.ROMImage)
		if err != nil {
			return nil, fmt.Errorf("failed to read ROM image: %w", err)
		}
		return data, nil
	}

	builder := romgen.Default()
	if cfg.Sim.FontFile != "" {
		var err error
		if builder, err = romgen.Load(cfg.Sim.FontFile, cfg.Sim.FontSize); err != nil {
			return nil, err
		}
	}
	return builder.Build(), nil
}

// Init validates both devices and parks the ROM deselected.
func (b *Board) Init() error {
	if err := b.ROM.Validate(); err != nil {
		return err
	}
	if err := b.Panel.Validate(); err != nil {
		return err
	}
	return b.ROM.Idle()
}

// Close releases every line.
func (b *Board) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i].Close())
	}
	b.closers = nil
	return errors.Join(errs...)
}
