package font

import (
	"errors"
	"fmt"

	"github.com/fkcurrie/ledscroll-golang/pkg/bitbang"
	"periph.io/x/conn/v3/gpio"
)

// ReadOpcode starts a read: opcode, 24-bit address, then data until CS rises.
const ReadOpcode = 0x03

// ROM reads glyphs from a serial font ROM over four bit-banged lines.
//
// CS is active low. Commands are shifted out on SI most significant bit
// first and sampled by the ROM on the rising SCLK edge; the ROM shifts data
// out on SO on the falling edge.
type ROM struct {
	CS   bitbang.Output
	SCLK bitbang.Output
	SI   bitbang.Output
	SO   bitbang.Input

	Delay bitbang.Delayer
	// Units is the settle delay around every clock edge.
	Units int
	// Base is the address of the glyph table.
	Base uint32
}

// Validate reports missing lines.
func (r *ROM) Validate() error {
	if r.CS == nil || r.SCLK == nil || r.SI == nil || r.SO == nil {
		return errors.New("font: ROM needs CS, SCLK, SI and SO lines")
	}
	if r.Delay == nil {
		return errors.New("font: ROM needs a delay")
	}
	return nil
}

// Idle deselects the ROM.
func (r *ROM) Idle() error {
	if err := r.SCLK.Out(gpio.High); err != nil {
		return err
	}
	return r.CS.Out(gpio.High)
}

// Glyph reads the bitmap stored for code. There is no error channel from the
// ROM itself: unmapped codes read the glyph at address 0 and a silent device
// reads as all zeros. Errors only come from the host lines.
func (r *ROM) Glyph(code Code) (Glyph, error) {
	var g Glyph
	err := r.Read(AddressAt(code, r.Base), g[:])
	return g, err
}

// Read fills buf with the bytes stored from addr onwards.
func (r *ROM) Read(addr uint32, buf []byte) error {
	if err := r.CS.Out(gpio.Low); err != nil {
		return fmt.Errorf("failed to select font ROM: %w", err)
	}

	err := r.exchange(addr, buf)

	if cerr := r.CS.Out(gpio.High); cerr != nil && err == nil {
		err = fmt.Errorf("failed to release font ROM: %w", cerr)
	}
	return err
}

func (r *ROM) exchange(addr uint32, buf []byte) error {
	tx := bitbang.Clocked{Clock: r.SCLK, Data: r.SI, Delay: r.Delay, Units: r.Units}
	cmd := [4]byte{ReadOpcode, byte(addr >> 16), byte(addr >> 8), byte(addr)}
	if err := tx.Write(cmd[:], bitbang.MSBFirst); err != nil {
		return fmt.Errorf("failed to send read command: %w", err)
	}

	for i := range buf {
		var b byte
		for bit := 0; bit < 8; bit++ {
			if err := r.SCLK.Out(gpio.Low); err != nil {
				return fmt.Errorf("failed to clock byte %d: %w", i, err)
			}
			r.Delay.Delay(r.Units)
			if err := r.SCLK.Out(gpio.High); err != nil {
				return fmt.Errorf("failed to clock byte %d: %w", i, err)
			}
			b <<= 1
			if r.SO.Read() {
				b |= 1
			}
			r.Delay.Delay(r.Units)
		}
		buf[i] = b
	}
	return nil
}
