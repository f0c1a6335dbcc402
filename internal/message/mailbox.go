package message

import (
	"context"
)

// Mailbox hands payloads from a transport goroutine to the display task.
// Each payload is consumed exactly once.
type Mailbox struct {
	ch chan []byte
}

// NewMailbox returns a mailbox holding up to depth pending payloads.
func NewMailbox(depth int) *Mailbox {
	if depth < 1 {
		depth = 1
	}
	return &Mailbox{ch: make(chan []byte, depth)}
}

// Post queues a copy of payload, waiting for room until ctx is done.
func (m *Mailbox) Post(ctx context.Context, payload []byte) error {
	p := append([]byte(nil), payload...)
	select {
	case m.ch <- p:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Poll returns the oldest pending payload without blocking.
func (m *Mailbox) Poll() ([]byte, bool) {
	select {
	case p := <-m.ch:
		return p, true
	default:
		return nil, false
	}
}
