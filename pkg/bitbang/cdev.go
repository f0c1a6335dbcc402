package bitbang

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/conn/v3/gpio"
)

// CdevLine is a single line requested from a GPIO character device.
type CdevLine struct {
	line   *gpiocdev.Line
	chip   string
	offset int
}

// RequestOutput requests offset on chip as an output driven low.
func RequestOutput(chip string, offset int, consumer string) (*CdevLine, error) {
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(0),
		gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("failed to request output %s:%d: %w", chip, offset, err)
	}
	return &CdevLine{line: line, chip: chip, offset: offset}, nil
}

// RequestInput requests offset on chip as an input.
func RequestInput(chip string, offset int, consumer string) (*CdevLine, error) {
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("failed to request input %s:%d: %w", chip, offset, err)
	}
	return &CdevLine{line: line, chip: chip, offset: offset}, nil
}

// Out sets the line level.
func (c *CdevLine) Out(l gpio.Level) error {
	v := 0
	if l {
		v = 1
	}
	return c.line.SetValue(v)
}

// Read samples the line. A failed read reads as low, the same as an idle bus.
func (c *CdevLine) Read() gpio.Level {
	v, err := c.line.Value()
	if err != nil {
		return gpio.Low
	}
	return v == 1
}

// String returns chip:offset.
func (c *CdevLine) String() string {
	return fmt.Sprintf("%s:%d", c.chip, c.offset)
}

// Close releases the line.
func (c *CdevLine) Close() error {
	return c.line.Close()
}
