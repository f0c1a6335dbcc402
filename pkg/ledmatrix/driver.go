// Package ledmatrix refreshes a 16-row single-colour LED matrix built from a
// constant-current shift-register driver chain (MBI5026 style: SDI, CLK, LE,
// /OE) and a 4-to-16 row decoder (CD4514 style: A..D, STB, INH).
//
// Rows are multiplexed: for each row the pixel bytes are shifted into the
// driver chain, the outputs are disabled, the chain is latched, the decoder is
// pointed at the row and the outputs are enabled again. Enabling before the
// latch and the row lines settle shows the new data on the old row.
package ledmatrix

import (
	"errors"
	"fmt"

	"github.com/fkcurrie/ledscroll-golang/pkg/bitbang"
	"periph.io/x/conn/v3/gpio"
)

// Rows is the number of multiplexed rows.
const Rows = 16

// Source supplies the bytes to shift out for a row.
type Source interface {
	Visible(row int) []byte
}

// Driver bit-bangs a framebuffer onto the matrix.
type Driver struct {
	SDI bitbang.Output
	CLK bitbang.Output
	LE  bitbang.Output
	// OE is active low: high disables every column output.
	OE bitbang.Output
	// Addr holds the row decoder lines A (least significant) to D.
	Addr [4]bitbang.Output
	// STB and INH are optional decoder strobe and inhibit lines.
	STB bitbang.Output
	INH bitbang.Output

	Order bitbang.BitOrder
	Delay bitbang.Delayer
	Units int
}

// Validate reports missing lines.
func (d *Driver) Validate() error {
	if d.SDI == nil || d.CLK == nil || d.LE == nil || d.OE == nil {
		return errors.New("ledmatrix: driver needs SDI, CLK, LE and OE lines")
	}
	for i, a := range d.Addr {
		if a == nil {
			return fmt.Errorf("ledmatrix: row address line %c missing", 'A'+i)
		}
	}
	if d.Delay == nil {
		return errors.New("ledmatrix: driver needs a delay")
	}
	return nil
}

// Refresh scans all rows of src once, top to bottom.
func (d *Driver) Refresh(src Source) error {
	for row := 0; row < Rows; row++ {
		if err := d.refreshRow(row, src.Visible(row)); err != nil {
			return fmt.Errorf("failed to refresh row %d: %w", row, err)
		}
	}
	return nil
}

func (d *Driver) refreshRow(row int, data []byte) error {
	if err := d.ShiftRow(data); err != nil {
		return err
	}
	if err := d.OE.Out(gpio.High); err != nil {
		return err
	}
	d.Delay.Delay(d.Units)
	if err := d.Latch(); err != nil {
		return err
	}
	if err := d.SelectRow(row); err != nil {
		return err
	}
	if err := d.OE.Out(gpio.Low); err != nil {
		return err
	}
	d.Delay.Delay(d.Units)
	return nil
}

// ShiftRow clocks data into the driver chain, low index first.
func (d *Driver) ShiftRow(data []byte) error {
	c := bitbang.Clocked{Clock: d.CLK, Data: d.SDI, Delay: d.Delay, Units: d.Units}
	return c.Write(data, d.Order)
}

// Latch copies the shift chain to the driver outputs.
func (d *Driver) Latch() error {
	return bitbang.Pulse(d.LE, d.Delay, d.Units)
}

// SelectRow points the decoder at row and releases inhibit.
func (d *Driver) SelectRow(row int) error {
	if d.STB != nil {
		if err := d.STB.Out(gpio.High); err != nil {
			return err
		}
	}
	if d.INH != nil {
		if err := d.INH.Out(gpio.Low); err != nil {
			return err
		}
	}
	levels := RowLevels(row)
	for i, l := range levels {
		if err := d.Addr[i].Out(l); err != nil {
			return err
		}
	}
	return nil
}

// Blank turns the whole matrix off until the next row select. Without an
// inhibit line the column outputs are disabled instead.
func (d *Driver) Blank() error {
	if d.INH != nil {
		return d.INH.Out(gpio.High)
	}
	return d.OE.Out(gpio.High)
}
