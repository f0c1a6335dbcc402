package font

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeGreeting(t *testing.T) {
	codes, err := Encode("南京工程学院欢迎您")
	require.NoError(t, err)
	assert.Equal(t, []Code{0xC4CF, 0xBEA9, 0xB9A4, 0xB3CC, 0xD1A7, 0xD4BA, 0xBBB6, 0xD3AD, 0xC4FA}, codes)
}

func TestEncodeASCII(t *testing.T) {
	codes, err := Encode("A 1!")
	require.NoError(t, err)
	assert.Equal(t, []Code{0xA3C1, 0xA1A1, 0xA3B1, 0xA3A1}, codes)
}

func TestEncodeRejects(t *testing.T) {
	_, err := Encode("ok€")
	assert.Error(t, err)

	_, err = Encode("\t")
	assert.Error(t, err, "control characters have no cell")
}

func TestDecode(t *testing.T) {
	r, ok := Decode(0xD6D0)
	require.True(t, ok)
	assert.Equal(t, '中', r)

	_, ok = Decode(0xA1A1 &^ 0x8080)
	assert.False(t, ok)
}
