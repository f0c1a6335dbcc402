package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fkcurrie/ledscroll-golang/internal/types"
	"github.com/fkcurrie/ledscroll-golang/pkg/bitbang"
)

// Backend names accepted in Config.Backend.
const (
	BackendCdev   = "cdev"
	BackendSysfs  = "sysfs"
	BackendPeriph = "periph"
	BackendSim    = "sim"
)

// Config represents the application configuration
type Config struct {
	// Backend selects how the lines are driven: cdev, sysfs, periph or sim.
	Backend string `json:"backend"`
	// Chip is the GPIO character device used by the cdev backend.
	Chip     string             `json:"chip"`
	ROM      types.ROMPins      `json:"rom"`
	Panel    types.PanelPins    `json:"panel"`
	Timing   types.TimingConfig `json:"timing"`
	BitOrder string             `json:"bit_order"`
	// Greeting is shown until the first message arrives.
	Greeting string `json:"greeting"`
	// LockMemory pins the process in RAM so page faults cannot stall a refresh.
	LockMemory bool            `json:"lock_memory"`
	Sim        types.SimConfig `json:"sim"`
}

// LoadConfig loads the configuration from a file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	if err := json.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %v", path, err)
	}

	return config, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendCdev,
		Chip:    "gpiochip0",
		ROM: types.ROMPins{
			CS:   5,
			SCLK: 6,
			SI:   13,
			SO:   19,
		},
		Panel: types.PanelPins{
			SDI: 10,
			CLK: 11,
			LE:  8,
			OE:  25,
			A:   22,
			B:   23,
			C:   24,
			D:   27,
			STB: 17,
			INH: 4,
		},
		Timing: types.TimingConfig{
			TickMillis:     1,
			SettleUnits:    5,
			UnitNanos:      100,
			ScrollInterval: 30,
			GlyphWidth:     16,
			BlankLimit:     5,
		},
		BitOrder: "msb",
		Greeting: "南京工程学院欢迎您",
		Sim: types.SimConfig{
			FontSize: 16,
		},
	}
}

// Order returns the parsed bit order.
func (c *Config) Order() bitbang.BitOrder {
	o, _ := bitbang.ParseBitOrder(c.BitOrder)
	return o
}

// Validate checks the configuration for values the hardware cannot use.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendCdev, BackendSysfs, BackendPeriph, BackendSim:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if _, ok := bitbang.ParseBitOrder(c.BitOrder); !ok {
		return fmt.Errorf("unknown bit order %q", c.BitOrder)
	}

	t := c.Timing
	switch {
	case t.TickMillis <= 0:
		return fmt.Errorf("tick_ms must be positive, got %d", t.TickMillis)
	case t.SettleUnits < 0:
		return fmt.Errorf("settle_units must not be negative, got %d", t.SettleUnits)
	case t.ScrollInterval <= 0:
		return fmt.Errorf("scroll_interval must be positive, got %d", t.ScrollInterval)
	case t.GlyphWidth <= 0:
		return fmt.Errorf("glyph_width must be positive, got %d", t.GlyphWidth)
	case t.BlankLimit <= 0:
		return fmt.Errorf("blank_limit must be positive, got %d", t.BlankLimit)
	}

	if c.Backend == BackendSim {
		return nil
	}
	if c.Backend == BackendCdev && c.Chip == "" {
		return fmt.Errorf("cdev backend needs a chip")
	}

	used := make(map[int]string)
	claim := func(name string, line int, optional bool) error {
		if line < 0 {
			if optional {
				return nil
			}
			return fmt.Errorf("%s line must be set", name)
		}
		if other, ok := used[line]; ok {
			return fmt.Errorf("%s and %s share line %d", other, name, line)
		}
		used[line] = name
		return nil
	}

	lines := []struct {
		name     string
		line     int
		optional bool
	}{
		{"rom.cs", c.ROM.CS, false},
		{"rom.sclk", c.ROM.SCLK, false},
		{"rom.si", c.ROM.SI, false},
		{"rom.so", c.ROM.SO, false},
		{"panel.sdi", c.Panel.SDI, false},
		{"panel.clk", c.Panel.CLK, false},
		{"panel.le", c.Panel.LE, false},
		{"panel.oe", c.Panel.OE, false},
		{"panel.a", c.Panel.A, false},
		{"panel.b", c.Panel.B, false},
		{"panel.c", c.Panel.C, false},
		{"panel.d", c.Panel.D, false},
		{"panel.stb", c.Panel.STB, true},
		{"panel.inh", c.Panel.INH, true},
	}
	for _, l := range lines {
		if err := claim(l.name, l.line, l.optional); err != nil {
			return err
		}
	}
	return nil
}
