// Package sim emulates the sign's hardware on a set of in-memory lines: the
// serial font ROM and the LED driver chain with its row decoder. Devices hang
// off pins as edge watchers, so the host code drives them through the same
// Out/Read calls it uses on real GPIO.
package sim

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
)

// Event is one host write recorded on the bus.
type Event struct {
	Pin   string
	Level gpio.Level
}

// String returns the write as "PIN=Level".
func (e Event) String() string {
	return fmt.Sprintf("%s=%s", e.Pin, e.Level)
}

// Bus owns a set of named pins and an optional write trace.
//
// Pins are driven from one goroutine at a time; device state that is read
// from other goroutines is guarded by the device itself.
type Bus struct {
	mu      sync.Mutex
	pins    map[string]*Pin
	tracing bool
	trace   []Event
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{pins: make(map[string]*Pin)}
}

// Pin returns the pin called name, creating it low if needed.
func (b *Bus) Pin(name string) *Pin {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.pins[name]
	if !ok {
		p = &Pin{bus: b, name: name}
		b.pins[name] = p
	}
	return p
}

// SetTracing starts or stops recording host writes.
func (b *Bus) SetTracing(on bool) {
	b.mu.Lock()
	b.tracing = on
	b.mu.Unlock()
}

// Trace returns a copy of the recorded writes.
func (b *Bus) Trace() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.trace...)
}

// ResetTrace drops the recorded writes.
func (b *Bus) ResetTrace() {
	b.mu.Lock()
	b.trace = b.trace[:0]
	b.mu.Unlock()
}

func (b *Bus) record(e Event) {
	b.mu.Lock()
	if b.tracing {
		b.trace = append(b.trace, e)
	}
	b.mu.Unlock()
}

// Pin is a simulated line. The host writes it with Out; a device may take
// over what Read returns with Drive.
type Pin struct {
	bus      *Bus
	name     string
	level    gpio.Level
	watchers []func(prev, now gpio.Level)
	drive    func() gpio.Level
	fail     error
}

// Out sets the level, records it and notifies watchers of a change.
func (p *Pin) Out(l gpio.Level) error {
	if p.fail != nil {
		return p.fail
	}
	prev := p.level
	p.level = l
	p.bus.record(Event{Pin: p.name, Level: l})
	if prev != l {
		for _, w := range p.watchers {
			w(prev, l)
		}
	}
	return nil
}

// Read returns the driven level if a device drives the pin, otherwise the
// last level written.
func (p *Pin) Read() gpio.Level {
	if p.drive != nil {
		return p.drive()
	}
	return p.level
}

// Level returns the last level written by the host.
func (p *Pin) Level() gpio.Level {
	return p.level
}

// Watch registers fn to run on every level change.
func (p *Pin) Watch(fn func(prev, now gpio.Level)) {
	p.watchers = append(p.watchers, fn)
}

// Drive makes Read return fn().
func (p *Pin) Drive(fn func() gpio.Level) {
	p.drive = fn
}

// Fail makes every following Out return err. A nil err heals the pin.
func (p *Pin) Fail(err error) {
	p.fail = err
}

// String returns the pin name.
func (p *Pin) String() string {
	return p.name
}

func rising(prev, now gpio.Level) bool  { return bool(!prev && now) }
func falling(prev, now gpio.Level) bool { return bool(prev && !now) }
