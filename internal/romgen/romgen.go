// Package romgen builds font ROM images: every GB2312 cell the ROM stores is
// rasterised from a font face to a 16x16 bitmap and placed at its ROM address.
package romgen

import (
	"fmt"
	"image"
	"os"

	"github.com/fkcurrie/ledscroll-golang/pkg/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const cell = 16

// Builder renders ROM images from a face.
type Builder struct {
	Face xfont.Face
	// ASCIIOnly folds full-width forms to ASCII before drawing and leaves
	// every other cell blank, for faces without CJK coverage.
	ASCIIOnly bool
}

// Default renders the printable ASCII cells with the built-in 7x13 face.
func Default() Builder {
	return Builder{Face: basicfont.Face7x13, ASCIIOnly: true}
}

// Load parses a TrueType or OpenType file and returns a builder that draws
// it at size pixels.
func Load(path string, size float64) (Builder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Builder{}, fmt.Errorf("failed to read font: %w", err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return Builder{}, fmt.Errorf("failed to parse font %s: %w", path, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return Builder{}, fmt.Errorf("failed to create face: %w", err)
	}
	return Builder{Face: face}, nil
}

// Build returns a ROM image of font.TableSize bytes with the table at
// address 0. Cells the face cannot draw are blank.
func (b Builder) Build() []byte {
	rom := make([]byte, font.TableSize)
	for _, code := range Codes() {
		r, ok := font.Decode(code)
		if !ok {
			continue
		}
		g, ok := b.Glyph(r)
		if !ok {
			continue
		}
		copy(rom[font.Address(code):], g[:])
	}
	return rom
}

// Glyph renders r, reporting false for a cell left blank.
func (b Builder) Glyph(r rune) (font.Glyph, bool) {
	if b.ASCIIOnly {
		r = halfWidth(r)
		if r <= ' ' || r > '~' {
			return font.Blank, false
		}
	}
	return Render(b.Face, r), true
}

// Codes lists every code with its own ROM cell, in address order.
func Codes() []font.Code {
	var codes []font.Code
	for msb := 0xA1; msb <= 0xF7; msb++ {
		for lsb := 0xA1; lsb <= 0xFE; lsb++ {
			if c := font.Code(msb<<8 | lsb); font.Mapped(c) {
				codes = append(codes, c)
			}
		}
	}
	return codes
}

// Render draws r centred in a 16x16 cell on the face's baseline.
func Render(face xfont.Face, r rune) font.Glyph {
	dst := image.NewGray(image.Rect(0, 0, cell, cell))
	d := xfont.Drawer{Dst: dst, Src: image.White, Face: face}

	m := face.Metrics()
	asc, desc := m.Ascent.Ceil(), m.Descent.Ceil()
	x := (cell - d.MeasureString(string(r)).Ceil()) / 2
	if x < 0 {
		x = 0
	}
	y := (cell-(asc+desc))/2 + asc
	if y > cell {
		y = cell
	}
	d.Dot = fixed.P(x, y)
	d.DrawString(string(r))

	var g font.Glyph
	for row := 0; row < cell; row++ {
		for col := 0; col < cell; col++ {
			if dst.GrayAt(col, row).Y >= 0x80 {
				g[2*row+col/8] |= 0x80 >> uint(col%8)
			}
		}
	}
	return g
}

func halfWidth(r rune) rune {
	switch {
	case r == '　':
		return ' '
	case r >= '！' && r <= '～':
		return r - '！' + '!'
	}
	return r
}
