// Package framebuffer holds the pixel grid of a 16-row scrolling sign.
//
// Each row is twelve bytes. Columns 0 and 1 form the active slot where the
// next glyph is staged; columns 2..11 are the visible history. Pixels move
// towards higher bits and higher columns as the sign scrolls, so on screen
// column 11 bit 7 is the leftmost pixel and column 2 bit 0 the rightmost.
package framebuffer

import (
	"fmt"

	"github.com/fkcurrie/ledscroll-golang/pkg/font"
)

const (
	// Rows is the number of physical matrix rows.
	Rows = 16
	// Columns is the number of bytes per row.
	Columns = 12
	// VisibleFirst is the first column shown on the panel.
	VisibleFirst = 2
	// VisibleColumns is the number of bytes shown per row.
	VisibleColumns = Columns - VisibleFirst
	// Width is the visible width in pixels.
	Width = VisibleColumns * 8
	// Slots is the number of glyph-wide slots in a row.
	Slots = Columns / 2
	// ActiveSlot is the slot a freshly resolved glyph is written to.
	ActiveSlot = 1
)

// Framebuffer is the sign's pixel grid, indexed [row][column].
type Framebuffer [Rows][Columns]byte

// Clear blanks every slot.
func (fb *Framebuffer) Clear() {
	*fb = Framebuffer{}
}

// WriteSlot stores g in slot (1..Slots). The first byte of each glyph row
// goes to the higher column of the slot so it scrolls out first.
func (fb *Framebuffer) WriteSlot(slot int, g *font.Glyph) {
	if slot < 1 || slot > Slots {
		panic(fmt.Sprintf("framebuffer: slot %d out of range", slot))
	}
	hi, lo := 2*slot-1, 2*slot-2
	for r := 0; r < Rows; r++ {
		fb[r][hi] = g[2*r]
		fb[r][lo] = g[2*r+1]
	}
}

// WriteActive stores g in the active slot.
func (fb *Framebuffer) WriteActive(g *font.Glyph) {
	fb.WriteSlot(ActiveSlot, g)
}

// Slot returns the glyph currently held in slot.
func (fb *Framebuffer) Slot(slot int) font.Glyph {
	if slot < 1 || slot > Slots {
		panic(fmt.Sprintf("framebuffer: slot %d out of range", slot))
	}
	var g font.Glyph
	hi, lo := 2*slot-1, 2*slot-2
	for r := 0; r < Rows; r++ {
		g[2*r] = fb[r][hi]
		g[2*r+1] = fb[r][lo]
	}
	return g
}

// Visible returns the shown bytes of row, columns 2..11 in index order. The
// slice aliases the framebuffer.
func (fb *Framebuffer) Visible(row int) []byte {
	return fb[row][VisibleFirst:]
}

// Pixel reports whether the visible pixel at screen position (x, y) is lit,
// with x = 0 the leftmost column.
func (fb *Framebuffer) Pixel(x, y int) bool {
	col := Columns - 1 - x/8
	bit := 7 - uint(x%8)
	return fb[y][col]&(1<<bit) != 0
}
