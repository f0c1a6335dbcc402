// Package display runs the sign: once per tick it takes in new messages,
// scrolls the framebuffer, loads the next glyph and refreshes the panel.
package display

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fkcurrie/ledscroll-golang/internal/message"
	"github.com/fkcurrie/ledscroll-golang/pkg/font"
	"github.com/fkcurrie/ledscroll-golang/pkg/framebuffer"
	"github.com/fkcurrie/ledscroll-golang/pkg/ledmatrix"
)

// State is the task's operating state.
type State int

const (
	// StateIdle is normal operation.
	StateIdle State = iota
	// StateError means initialization failed. The task does nothing until it
	// is rebuilt.
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ScrollState holds the counters that pace scrolling and glyph loading.
type ScrollState struct {
	// Ticks counts ticks since the last shift.
	Ticks int
	// Moves counts shifts since the last glyph load.
	Moves int
	// Sequence is the index of the next queued code to load.
	Sequence int
	// Blanks counts blank cells loaded after the end of the message.
	Blanks int
}

// Timing sets the scroll cadence in ticks.
type Timing struct {
	ScrollInterval int
	GlyphWidth     int
	BlankLimit     int
}

// DefaultTiming shifts every 30 ticks, loads a glyph every 16 shifts and
// repeats the message after 5 blank cells.
func DefaultTiming() Timing {
	return Timing{ScrollInterval: 30, GlyphWidth: 16, BlankLimit: 5}
}

// GlyphSource resolves character codes to bitmaps.
type GlyphSource interface {
	Glyph(code font.Code) (font.Glyph, error)
}

// Refresher draws a framebuffer on the panel.
type Refresher interface {
	Refresh(src ledmatrix.Source) error
	Blank() error
}

// Inbox delivers inbound payloads without blocking.
type Inbox interface {
	Poll() ([]byte, bool)
}

// Config wires a Task to its collaborators.
type Config struct {
	ROM   GlyphSource
	Panel Refresher
	// Inbox may be nil for a sign that only shows its greeting.
	Inbox  Inbox
	Timing Timing
	// Greeting is queued until the first message arrives.
	Greeting []font.Code
	Logger   *slog.Logger
}

// Task is the per-tick display state machine. It is not safe for concurrent
// use; Runner confines it to one goroutine.
type Task struct {
	rom    GlyphSource
	panel  Refresher
	inbox  Inbox
	timing Timing
	log    *slog.Logger

	state  State
	err    error
	scroll ScrollState
	fb     framebuffer.Framebuffer
	queue  message.Queue

	shifts int
	loops  int
}

// New builds a task. If the collaborators are missing or the panel cannot be
// blanked the task starts, and stays, in StateError.
func New(cfg Config) *Task {
	t := &Task{
		rom:    cfg.ROM,
		panel:  cfg.Panel,
		inbox:  cfg.Inbox,
		timing: cfg.Timing,
		log:    cfg.Logger,
	}
	if t.log == nil {
		t.log = slog.Default()
	}
	def := DefaultTiming()
	if t.timing.ScrollInterval <= 0 {
		t.timing.ScrollInterval = def.ScrollInterval
	}
	if t.timing.GlyphWidth <= 0 {
		t.timing.GlyphWidth = def.GlyphWidth
	}
	if t.timing.BlankLimit <= 0 {
		t.timing.BlankLimit = def.BlankLimit
	}

	if err := t.init(cfg.Greeting); err != nil {
		t.state = StateError
		t.err = err
		t.log.Error("display task failed to start", "error", err)
		return t
	}
	t.log.Debug("display task ready", "greeting", t.queue.Len(), "timing", t.timing)
	return t
}

func (t *Task) init(greeting []font.Code) error {
	if t.rom == nil {
		return errors.New("display: no glyph source")
	}
	if t.panel == nil {
		return errors.New("display: no panel")
	}
	if n := t.queue.Set(greeting); n < len(greeting) {
		t.log.Warn("greeting clamped", "requested", len(greeting), "loaded", n)
	}
	if err := t.panel.Blank(); err != nil {
		return fmt.Errorf("failed to blank panel: %w", err)
	}
	return nil
}

// Tick runs one scheduler tick. In StateIdle the whole pipeline always runs;
// errors from the lines are collected and returned afterwards.
func (t *Task) Tick() error {
	if t.state != StateIdle {
		return nil
	}

	var errs []error
	if t.inbox != nil {
		if payload, ok := t.inbox.Poll(); ok {
			errs = append(errs, t.accept(payload))
		}
	}

	t.scroll.Ticks++
	if t.scroll.Ticks >= t.timing.ScrollInterval {
		t.scroll.Ticks = 0
		t.fb.ShiftLeft()
		t.shifts++
		t.scroll.Moves++
	}

	if t.scroll.Moves >= t.timing.GlyphWidth {
		t.scroll.Moves = 0
		errs = append(errs, t.advance())
	}

	if err := t.panel.Refresh(&t.fb); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// accept replaces the message: the panel goes dark, every slot is cleared and
// the counters start over.
func (t *Task) accept(payload []byte) error {
	err := t.panel.Blank()
	if err != nil {
		err = fmt.Errorf("failed to blank panel: %w", err)
	}
	t.fb.Clear()

	loaded, requested := t.queue.Load(payload)
	if loaded < requested {
		t.log.Warn("message clamped", "requested", requested, "loaded", loaded)
	}
	t.scroll = ScrollState{}
	t.log.Info("message received", "characters", loaded)
	return err
}

func (t *Task) advance() error {
	if t.scroll.Sequence < t.queue.Len() {
		code := t.queue.At(t.scroll.Sequence)
		g, err := t.rom.Glyph(code)
		t.fb.WriteActive(&g)
		t.scroll.Sequence++
		if err != nil {
			return fmt.Errorf("failed to read glyph %04X: %w", uint16(code), err)
		}
		return nil
	}

	t.fb.WriteActive(&font.Blank)
	t.scroll.Blanks++
	if t.scroll.Blanks >= t.timing.BlankLimit {
		t.scroll.Blanks = 0
		t.scroll.Sequence = 0
		t.loops++
		t.log.Debug("message looped", "loops", t.loops)
	}
	return nil
}

// Shutdown turns the panel off.
func (t *Task) Shutdown() error {
	if t.panel == nil {
		return nil
	}
	return t.panel.Blank()
}

// State returns the operating state.
func (t *Task) State() State { return t.state }

// Err returns the reason the task is in StateError.
func (t *Task) Err() error { return t.err }

// Scroll returns the scroll counters.
func (t *Task) Scroll() ScrollState { return t.scroll }

// Framebuffer returns a copy of the pixel grid.
func (t *Task) Framebuffer() framebuffer.Framebuffer { return t.fb }

// Queue returns the queued codes.
func (t *Task) Queue() []font.Code { return t.queue.Codes() }

// Shifts returns the number of scroll steps taken.
func (t *Task) Shifts() int { return t.shifts }

// Loops returns the number of times the message has restarted.
func (t *Task) Loops() int { return t.loops }
