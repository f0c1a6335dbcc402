// Package preview shows the simulated panel: live in a terminal, or as an
// SVG or PNG snapshot.
package preview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fkcurrie/ledscroll-golang/internal/types"
	"github.com/gdamore/tcell/v2"
)

const frameTime = time.Second / 30

// Terminal draws the panel with half-block characters, two LED rows per
// character cell.
type Terminal struct {
	screen tcell.Screen
	source types.FrameSource
	style  tcell.Style
}

// NewTerminal opens the controlling terminal.
func NewTerminal(src types.FrameSource) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %v", err)
	}
	return NewTerminalScreen(screen, src), nil
}

// NewTerminalScreen draws on an initialized screen.
func NewTerminalScreen(screen tcell.Screen, src types.FrameSource) *Terminal {
	return &Terminal{
		screen: screen,
		source: src,
		style:  tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorRed),
	}
}

// Draw renders the current frame into the screen buffer.
func (t *Terminal) Draw() {
	frame := t.source.Frame()
	for y := 0; y < types.PanelHeight; y += 2 {
		for x := 0; x < types.PanelWidth; x++ {
			t.screen.SetContent(x, y/2, halfBlock(frame[y][x], frame[y+1][x]), nil, t.style)
		}
	}
}

func halfBlock(top, bottom bool) rune {
	switch {
	case top && bottom:
		return '█'
	case top:
		return '▀'
	case bottom:
		return '▄'
	}
	return ' '
}

// Run redraws until ctx is done or the user presses q, Esc or Ctrl-C. The
// screen is finalized on return.
func (t *Terminal) Run(ctx context.Context) error {
	defer func() {
		slog.Debug("finishing terminal")
		t.screen.Fini()
	}()

	t.screen.SetStyle(t.style)
	t.screen.Clear()

	quit := make(chan struct{})
	go t.handleInput(quit)

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-quit:
			return nil
		case <-ticker.C:
			t.Draw()
			t.screen.Show()
		}
	}
}

func (t *Terminal) handleInput(quit chan<- struct{}) {
	for {
		switch ev := t.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				close(quit)
				return
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}
