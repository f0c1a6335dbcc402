package board

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fkcurrie/ledscroll-golang/internal/config"
	"github.com/fkcurrie/ledscroll-golang/internal/sim"
	"github.com/fkcurrie/ledscroll-golang/pkg/bitbang"
	"github.com/fkcurrie/ledscroll-golang/pkg/font"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func simConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Backend = config.BackendSim
	return cfg
}

func TestOpenSim(t *testing.T) {
	b, err := Open(simConfig(), quiet)
	require.NoError(t, err)
	defer b.Close()

	require.NotNil(t, b.Sim)
	require.NoError(t, b.Init())
	assert.Equal(t, bitbang.Nop{}, b.ROM.Delay)

	codes, err := font.Encode("A")
	require.NoError(t, err)
	g, err := b.ROM.Glyph(codes[0])
	require.NoError(t, err)
	assert.NotEqual(t, font.Blank, g, "built-in face draws ASCII")
	assert.Equal(t, 1, b.Sim.ROM.Reads())
}

func TestOpenSimImageFile(t *testing.T) {
	image := make([]byte, 64)
	image[32] = 0x5A
	path := filepath.Join(t.TempDir(), "rom.bin")
	require.NoError(t, os.WriteFile(path, image, 0o644))

	cfg := simConfig()
	cfg.Sim.ROMImage = path
	b, err := Open(cfg, quiet)
	require.NoError(t, err)
	require.NoError(t, b.Init())

	g, err := b.ROM.Glyph(0xA1A2)
	require.NoError(t, err)
	assert.Equal(t, byte(0x5A), g[0])
}

func TestOpenErrors(t *testing.T) {
	cfg := simConfig()
	cfg.Sim.ROMImage = filepath.Join(t.TempDir(), "missing.bin")
	_, err := Open(cfg, quiet)
	assert.ErrorContains(t, err, "failed to read ROM image")

	cfg = simConfig()
	cfg.Sim.FontFile = filepath.Join(t.TempDir(), "missing.ttf")
	_, err = Open(cfg, quiet)
	assert.Error(t, err)

	cfg = simConfig()
	cfg.Backend = "spi"
	_, err = Open(cfg, quiet)
	assert.ErrorContains(t, err, "invalid config")
}

// fakeOpener hands out simulated pins and remembers what it opened.
type fakeOpener struct {
	bus    *sim.Bus
	failAt int
	opened []int
	closed []int
}

type fakeLine struct {
	*sim.Pin
	n    int
	from *fakeOpener
}

func (l fakeLine) Close() error {
	l.from.closed = append(l.from.closed, l.n)
	return nil
}

func (f *fakeOpener) open(n int) (fakeLine, error) {
	if n == f.failAt {
		return fakeLine{}, errors.New("line busy")
	}
	f.opened = append(f.opened, n)
	return fakeLine{Pin: f.bus.Pin(string(rune('a' + n))), n: n, from: f}, nil
}

func (f *fakeOpener) output(n int) (outputLine, error) {
	l, err := f.open(n)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (f *fakeOpener) input(n int) (inputLine, error) {
	l, err := f.open(n)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func TestOpenLines(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Panel.STB = -1
	lines := &fakeOpener{bus: sim.NewBus(), failAt: -1}

	b := &Board{}
	require.NoError(t, b.openLines(cfg, lines))
	b.ROM.Delay, b.Panel.Delay = bitbang.Nop{}, bitbang.Nop{}
	require.NoError(t, b.Init())

	assert.Len(t, lines.opened, 13)
	assert.Nil(t, b.Panel.STB, "unset optional line stays nil")
	assert.NotNil(t, b.Panel.INH)

	require.NoError(t, b.Panel.Blank())
	assert.Equal(t, gpio.High, lines.bus.Pin(string(rune('a'+cfg.Panel.INH))).Level())

	require.NoError(t, b.Close())
	assert.Len(t, lines.closed, 13)
}

func TestOpenLinesReleasesOnError(t *testing.T) {
	cfg := config.DefaultConfig()
	lines := &fakeOpener{bus: sim.NewBus(), failAt: cfg.Panel.LE}

	b := &Board{}
	err := b.openLines(cfg, lines)
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to open panel.le")

	require.NoError(t, b.Close())
	assert.ElementsMatch(t, lines.opened, lines.closed)
}
