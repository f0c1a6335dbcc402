package font

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddress(t *testing.T) {
	tests := []struct {
		name string
		code Code
		want uint32
	}{
		{"first symbol", 0xA1A1, 0},
		{"symbol row offset", 0xA2A1, 94 * 32},
		{"full-width A", 0xA3C1, (2*94 + 0x20) * 32},
		{"last symbol", 0xA9FE, (8*94 + 93) * 32},
		{"first hanzi", 0xB0A1, 846 * 32},
		{"second hanzi", 0xB0A2, 847 * 32},
		{"nan", 0xC4CF, ((0xC4-0xB0)*94 + (0xCF - 0xA1) + 846) * 32},
		{"last hanzi", 0xF7FE, TableSize - 32},
		{"unstored row shares the base slot", 0xA5A1, 0},
		{"ascii", 0x0041, 0},
		{"low position byte", 0xB0A0, 0},
		{"gap between regions", 0xAAA1, 0},
		{"beyond last hanzi row", 0xF8A1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Address(tt.code))
		})
	}
}

func TestAddressAtBase(t *testing.T) {
	const base = 0x1000
	assert.Equal(t, uint32(base), AddressAt(0xA1A1, base))
	assert.Equal(t, uint32(846*32+base), AddressAt(0xB0A1, base))
	assert.Equal(t, uint32(base), AddressAt(0xA6A1, base), "unstored rows resolve to the base")
	assert.Equal(t, uint32(0), AddressAt(0x1234, base), "no match ignores the base")
}

func TestMapped(t *testing.T) {
	assert.True(t, Mapped(0xA1A1))
	assert.True(t, Mapped(0xB0A1))
	assert.True(t, Mapped(0xF7FE))
	assert.False(t, Mapped(0xA4A1))
	assert.False(t, Mapped(0xA8FE))
	assert.False(t, Mapped(0xB0FF))
	assert.False(t, Mapped(0xB0A0))
	assert.False(t, Mapped(0x0041))
}

func TestCodeBytes(t *testing.T) {
	c := Code(0xC4CF)
	assert.Equal(t, uint8(0xC4), c.High())
	assert.Equal(t, uint8(0xCF), c.Low())
}
