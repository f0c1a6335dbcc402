// Package font resolves GB2312 character codes to 16x16 glyph bitmaps stored
// in a serial font ROM.
//
// The ROM holds one 32-byte glyph per code, two bytes per pixel row with the
// leftmost pixel in the most significant bit. Glyphs are addressed by GB2312
// zone (high byte) and position (low byte):
//
//	A1..A9 rows (symbols)  ((msb-0xA1)*94 + (lsb-0xA1)) * 32
//	B0..F7 rows (hanzi)    ((msb-0xB0)*94 + (lsb-0xA1) + 846) * 32
//
// Rows A4..A8 (kana, greek, cyrillic, pinyin) are not stored and resolve to
// the base address. Codes outside every region resolve to address 0.
package font

// Code is a two-byte GB2312 character code, high byte first.
type Code uint16

// High returns the zone byte.
func (c Code) High() uint8 { return uint8(c >> 8) }

// Low returns the position byte.
func (c Code) Low() uint8 { return uint8(c) }

// GlyphSize is the number of bytes in one 16x16 glyph.
const GlyphSize = 32

// Glyph is a 16x16 bitmap, rows top to bottom, two bytes per row.
type Glyph [GlyphSize]byte

// Blank is the empty glyph.
var Blank Glyph

// BaseAddress is where the glyph table starts in the ROM.
const BaseAddress uint32 = 0

const (
	rowSize      = 94
	hanziOffset  = 846
	symbolFirst  = 0xA1
	symbolLast   = 0xA9
	unusedFirst  = 0xA4
	unusedLast   = 0xA8
	hanziFirst   = 0xB0
	hanziLast    = 0xF7
	positionBase = 0xA1
)

// Address returns the ROM address of code's glyph relative to BaseAddress.
func Address(code Code) uint32 {
	return AddressAt(code, BaseAddress)
}

// AddressAt returns the ROM address of code's glyph in a table starting at
// base. The first matching region wins; no match yields 0 regardless of base.
func AddressAt(code Code, base uint32) uint32 {
	msb, lsb := uint32(code.High()), uint32(code.Low())

	switch {
	case msb >= unusedFirst && msb <= unusedLast && lsb >= positionBase:
		// TODO: confirm these rows against the GT21L16S2W datasheet; they
		// currently share the base slot.
		return base
	case msb >= symbolFirst && msb <= symbolLast && lsb >= positionBase:
		return ((msb-symbolFirst)*rowSize+(lsb-positionBase))*GlyphSize + base
	case msb >= hanziFirst && msb <= hanziLast && lsb >= positionBase:
		return ((msb-hanziFirst)*rowSize+(lsb-positionBase)+hanziOffset)*GlyphSize + base
	}
	return 0
}

// Mapped reports whether code has a glyph slot of its own, that is neither
// the 0 fallback nor the shared base slot of rows A4..A8.
func Mapped(code Code) bool {
	msb, lsb := code.High(), code.Low()
	if lsb < positionBase || lsb > 0xFE {
		return false
	}
	if msb >= unusedFirst && msb <= unusedLast {
		return false
	}
	return (msb >= symbolFirst && msb <= symbolLast) || (msb >= hanziFirst && msb <= hanziLast)
}

// TableSize is the number of bytes spanned by the glyph table, up to and
// including the last hanzi slot (F7FE).
const TableSize = ((hanziLast-hanziFirst)*rowSize + (0xFE - positionBase) + hanziOffset + 1) * GlyphSize
