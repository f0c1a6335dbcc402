package bitbang

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// InitPeriph loads the periph.io host drivers. It must run before
// PeriphOutput or PeriphInput.
func InitPeriph() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph.io: %w", err)
	}
	return nil
}

// PeriphOutput looks up a named pin and drives it low.
func PeriphOutput(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("GPIO pin %s not found", name)
	}
	if err := p.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("failed to drive %s low: %w", name, err)
	}
	return p, nil
}

// PeriphInput looks up a named pin and configures it as a floating input.
func PeriphInput(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("GPIO pin %s not found", name)
	}
	if err := p.In(gpio.Float, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("failed to configure %s as input: %w", name, err)
	}
	return p, nil
}
