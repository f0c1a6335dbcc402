package bitbang

import (
	"time"
)

// spinSink keeps the busy-wait loop observable so the compiler cannot drop it.
var spinSink uint32

// BusyWait spins for LoopsPerUnit iterations per settle unit. It never yields,
// so a full refresh or glyph read finishes inside one tick.
type BusyWait struct {
	LoopsPerUnit int
}

// Delay spins for units settle units.
func (b BusyWait) Delay(units int) {
	n := units * b.LoopsPerUnit
	var acc uint32
	for i := 0; i < n; i++ {
		acc += uint32(i)
	}
	spinSink = acc
}

// Calibrate measures the spin rate of this machine and returns a BusyWait
// whose unit lasts roughly unit.
func Calibrate(unit time.Duration) BusyWait {
	const probe = 1 << 20

	start := time.Now()
	BusyWait{LoopsPerUnit: probe}.Delay(1)
	elapsed := time.Since(start)
	if elapsed <= 0 {
		return BusyWait{LoopsPerUnit: 1}
	}

	loops := int(int64(probe) * int64(unit) / int64(elapsed))
	if loops < 1 {
		loops = 1
	}
	return BusyWait{LoopsPerUnit: loops}
}

// Nop is a Delayer that returns immediately, for simulated buses.
type Nop struct{}

// Delay does nothing.
func (Nop) Delay(int) {}
