// Package bitbang drives clocked serial protocols by toggling individual
// signal lines from software.
//
// The same settle-delay primitive paces every edge, so a protocol written
// against Output, Input and Delayer runs unchanged on real GPIO lines (with a
// calibrated BusyWait) and on a simulated bus (with Nop).
package bitbang

import (
	"periph.io/x/conn/v3/gpio"
)

// Output is a line driven by the host.
type Output interface {
	Out(l gpio.Level) error
}

// Input is a line sampled by the host.
type Input interface {
	Read() gpio.Level
}

// Delayer waits for a number of settle units.
type Delayer interface {
	Delay(units int)
}

// BitOrder selects which end of a byte is shifted first.
type BitOrder int

const (
	// MSBFirst shifts bit 7 first.
	MSBFirst BitOrder = iota
	// LSBFirst shifts bit 0 first.
	LSBFirst
)

// String returns the configuration name of the order.
func (o BitOrder) String() string {
	if o == LSBFirst {
		return "lsb"
	}
	return "msb"
}

// ParseBitOrder maps "msb" or "lsb" to a BitOrder. The empty string is MSBFirst.
func ParseBitOrder(s string) (BitOrder, bool) {
	switch s {
	case "", "msb":
		return MSBFirst, true
	case "lsb":
		return LSBFirst, true
	}
	return MSBFirst, false
}

// Clocked is a clock/data pair paced by a Delayer.
type Clocked struct {
	Clock Output
	Data  Output
	Delay Delayer
	Units int
}

// WriteBit presents one bit: clock low, data, settle, clock high, settle, settle.
// Receivers sample on the rising edge.
func (c Clocked) WriteBit(bit bool) error {
	if err := c.Clock.Out(gpio.Low); err != nil {
		return err
	}
	if err := c.Data.Out(gpio.Level(bit)); err != nil {
		return err
	}
	c.Delay.Delay(c.Units)
	if err := c.Clock.Out(gpio.High); err != nil {
		return err
	}
	c.Delay.Delay(c.Units)
	c.Delay.Delay(c.Units)
	return nil
}

// ShiftByte shifts the eight bits of b in the given order.
func (c Clocked) ShiftByte(b byte, order BitOrder) error {
	for i := 0; i < 8; i++ {
		var bit bool
		if order == LSBFirst {
			bit = b&(1<<i) != 0
		} else {
			bit = b&(0x80>>i) != 0
		}
		if err := c.WriteBit(bit); err != nil {
			return err
		}
	}
	return nil
}

// Write shifts every byte of p, low index first.
func (c Clocked) Write(p []byte, order BitOrder) error {
	for _, b := range p {
		if err := c.ShiftByte(b, order); err != nil {
			return err
		}
	}
	return nil
}

// Pulse drives l high for one settle period and returns it low.
func Pulse(l Output, d Delayer, units int) error {
	if err := l.Out(gpio.High); err != nil {
		return err
	}
	d.Delay(units)
	if err := l.Out(gpio.Low); err != nil {
		return err
	}
	d.Delay(units)
	return nil
}
