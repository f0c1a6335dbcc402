package display

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/fkcurrie/ledscroll-golang/internal/message"
	"github.com/fkcurrie/ledscroll-golang/pkg/font"
	"github.com/fkcurrie/ledscroll-golang/pkg/framebuffer"
	"github.com/fkcurrie/ledscroll-golang/pkg/ledmatrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeROM returns a glyph whose first byte is the low byte of the code.
type fakeROM struct {
	reads []font.Code
	err   error
}

func (f *fakeROM) Glyph(code font.Code) (font.Glyph, error) {
	f.reads = append(f.reads, code)
	var g font.Glyph
	for i := range g {
		g[i] = code.Low()
	}
	return g, f.err
}

type fakePanel struct {
	refreshes int
	blanks    int
	last      [ledmatrix.Rows][]byte
	err       error
	blankErr  error
}

func (f *fakePanel) Refresh(src ledmatrix.Source) error {
	f.refreshes++
	for r := range f.last {
		f.last[r] = append([]byte(nil), src.Visible(r)...)
	}
	return f.err
}

func (f *fakePanel) Blank() error {
	f.blanks++
	return f.blankErr
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTask(t *testing.T, greeting ...font.Code) (*Task, *fakeROM, *fakePanel, *message.Mailbox) {
	t.Helper()
	rom, panel, inbox := &fakeROM{}, &fakePanel{}, message.NewMailbox(4)
	task := New(Config{ROM: rom, Panel: panel, Inbox: inbox, Greeting: greeting, Logger: quiet})
	require.Equal(t, StateIdle, task.State())
	return task, rom, panel, inbox
}

func tick(t *testing.T, task *Task, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, task.Tick())
	}
}

func post(t *testing.T, inbox *message.Mailbox, codes ...font.Code) {
	t.Helper()
	require.NoError(t, inbox.Post(context.Background(), message.Payload(message.CmdDisplayText, codes)))
}

func TestScrollCadence(t *testing.T) {
	task, rom, panel, _ := newTask(t, 0xB0A1, 0xB0A2)

	tick(t, task, 29)
	assert.Equal(t, 0, task.Shifts())
	tick(t, task, 1)
	assert.Equal(t, 1, task.Shifts(), "one shift after 30 ticks")
	assert.Equal(t, 30, panel.refreshes, "refresh every tick")

	tick(t, task, 480-30-1)
	assert.Equal(t, 0, task.Scroll().Sequence)
	tick(t, task, 1)
	assert.Equal(t, 16, task.Shifts())
	assert.Equal(t, 1, task.Scroll().Sequence, "one glyph advance after 480 ticks")
	assert.Equal(t, []font.Code{0xB0A1}, rom.reads)

	fb := task.Framebuffer()
	g := fb.Slot(framebuffer.ActiveSlot)
	assert.Equal(t, byte(0xA1), g[0], "glyph written to the active slot")
}

func TestEmptyMessageLoops(t *testing.T) {
	task, rom, _, inbox := newTask(t, 0xB0A1)
	post(t, inbox)

	tick(t, task, 2399)
	assert.Equal(t, 4, task.Scroll().Blanks)
	assert.Equal(t, 0, task.Loops())

	tick(t, task, 1)
	assert.Equal(t, 1, task.Loops(), "fifth blank restarts the message")
	assert.Equal(t, ScrollState{}, task.Scroll())
	assert.Empty(t, rom.reads, "no glyph is loaded")
}

func TestMessageSequence(t *testing.T) {
	task, rom, _, inbox := newTask(t)
	post(t, inbox, 0xB0A1, 0xB0A2)

	const cell = 30 * 16
	tick(t, task, 2*cell)
	assert.Equal(t, []font.Code{0xB0A1, 0xB0A2}, rom.reads)
	assert.Equal(t, 2, task.Scroll().Sequence)

	// Five blank cells, then the message starts over.
	tick(t, task, 5*cell)
	assert.Equal(t, 1, task.Loops())
	assert.Equal(t, 0, task.Scroll().Sequence)

	tick(t, task, cell)
	assert.Equal(t, []font.Code{0xB0A1, 0xB0A2, 0xB0A1}, rom.reads)
}

func TestNewMessageResets(t *testing.T) {
	task, _, panel, inbox := newTask(t, 0xB0A1)
	tick(t, task, 480+45)
	require.NotEqual(t, ScrollState{}, task.Scroll())
	blanks := panel.blanks

	post(t, inbox, 0xC4CF, 0xBEA9, 0xB9A4)
	tick(t, task, 1)

	assert.Equal(t, ScrollState{Ticks: 1}, task.Scroll())
	assert.Equal(t, []font.Code{0xC4CF, 0xBEA9, 0xB9A4}, task.Queue())
	assert.Equal(t, framebuffer.Framebuffer{}, task.Framebuffer(), "slots cleared")
	assert.Equal(t, blanks+1, panel.blanks, "panel dark while the message changes")
}

func TestErrorState(t *testing.T) {
	panel := &fakePanel{blankErr: errors.New("no lines")}
	task := New(Config{ROM: &fakeROM{}, Panel: panel, Logger: quiet})

	assert.Equal(t, StateError, task.State())
	assert.ErrorContains(t, task.Err(), "failed to blank panel")

	tick(t, task, 1000)
	assert.Zero(t, panel.refreshes)
	assert.Equal(t, ScrollState{}, task.Scroll())

	task = New(Config{Panel: &fakePanel{}, Logger: quiet})
	assert.Equal(t, StateError, task.State())
	assert.Equal(t, "error", task.State().String())
}

func TestTickReportsErrorsAndContinues(t *testing.T) {
	task, rom, panel, _ := newTask(t, 0xB0A1)
	rom.err = errors.New("rom")
	panel.err = errors.New("panel")

	var last error
	for i := 0; i < 480; i++ {
		last = task.Tick()
		require.Error(t, last)
	}
	assert.ErrorIs(t, last, rom.err)
	assert.ErrorIs(t, last, panel.err)
	assert.Equal(t, 1, task.Scroll().Sequence, "glyph load still advances")
	assert.Equal(t, 480, panel.refreshes)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "State(7)", State(7).String())
}
