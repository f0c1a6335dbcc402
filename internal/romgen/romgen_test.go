package romgen

import (
	"math/bits"
	"os"
	"path/filepath"
	"testing"

	"github.com/fkcurrie/ledscroll-golang/internal/sim"
	"github.com/fkcurrie/ledscroll-golang/pkg/bitbang"
	"github.com/fkcurrie/ledscroll-golang/pkg/font"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

func litPixels(g font.Glyph) int {
	n := 0
	for _, b := range g {
		n += bits.OnesCount8(b)
	}
	return n
}

func TestRenderASCII(t *testing.T) {
	g := Render(basicfont.Face7x13, 'I')
	assert.Greater(t, litPixels(g), 4)

	// 'I' is symmetric about the centre of its 7-pixel cell, which sits in
	// columns 4..10.
	for row := 0; row < 16; row++ {
		assert.Zero(t, g[2*row]&0xF0, "row %d left margin", row)
		assert.Zero(t, g[2*row+1]&0x1F, "row %d right margin", row)
	}
}

func TestDefaultGlyph(t *testing.T) {
	b := Default()

	g, ok := b.Glyph('Ａ')
	require.True(t, ok)
	assert.Equal(t, Render(basicfont.Face7x13, 'A'), g, "full-width forms fold to ASCII")

	_, ok = b.Glyph('中')
	assert.False(t, ok)
	_, ok = b.Glyph('　')
	assert.False(t, ok)
}

func TestCodes(t *testing.T) {
	codes := Codes()
	assert.Equal(t, font.Code(0xA1A1), codes[0])
	assert.Equal(t, font.Code(0xF7FE), codes[len(codes)-1])
	for i := 1; i < len(codes); i++ {
		require.Less(t, font.Address(codes[i-1]), font.Address(codes[i]))
	}
	assert.Len(t, codes, 4*94+72*94)
}

func TestBuildReadsBackThroughROM(t *testing.T) {
	image := Default().Build()
	require.Len(t, image, font.TableSize)

	bus := sim.NewBus()
	cs, sclk, si, so := bus.Pin("CS"), bus.Pin("SCLK"), bus.Pin("SI"), bus.Pin("SO")
	sim.NewROM(image, cs, sclk, si, so)
	rom := &font.ROM{CS: cs, SCLK: sclk, SI: si, SO: so, Delay: bitbang.Nop{}, Units: 1}
	require.NoError(t, rom.Idle())

	codes, err := font.Encode("Hi")
	require.NoError(t, err)
	for i, want := range []rune{'H', 'i'} {
		g, err := rom.Glyph(codes[i])
		require.NoError(t, err)
		assert.Equal(t, Render(basicfont.Face7x13, want), g)
	}

	g, err := rom.Glyph(0xB0A1)
	require.NoError(t, err)
	assert.Equal(t, font.Blank, g)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goregular.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))

	b, err := Load(path, 14)
	require.NoError(t, err)
	assert.False(t, b.ASCIIOnly)

	g, ok := b.Glyph('W')
	require.True(t, ok)
	assert.Greater(t, litPixels(g), 10)

	_, err = Load(filepath.Join(t.TempDir(), "missing.ttf"), 14)
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.ttf")
	require.NoError(t, os.WriteFile(bad, []byte("not a font"), 0o644))
	_, err = Load(bad, 14)
	assert.ErrorContains(t, err, "failed to parse font")
}
