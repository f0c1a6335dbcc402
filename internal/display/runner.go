package display

import (
	"context"
	"log/slog"
	"time"
)

// Runner calls Task.Tick on a fixed period.
type Runner struct {
	Task   *Task
	Period time.Duration
	// ErrorEvery limits how often tick errors are logged.
	ErrorEvery time.Duration
	Logger     *slog.Logger
	// OnTick, if set, runs after every tick on the runner's goroutine.
	OnTick func()
}

// Start ticks until ctx is done. Tick errors are logged and the loop goes on.
// A tick that takes longer than the period is reported as an overrun: the
// ticker drops the ticks it missed, so the sign scrolls slower than set.
func (r *Runner) Start(ctx context.Context) error {
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}
	period := r.Period
	if period <= 0 {
		period = time.Millisecond
	}
	every := r.ErrorEvery
	if every <= 0 {
		every = time.Second
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	failures := limiter{every: every}
	overruns := limiter{every: every}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			err := r.Task.Tick()
			elapsed := time.Since(start)
			if err != nil {
				if n, ok := failures.allow(start); ok {
					log.Error("tick failed", "error", err, "suppressed", n)
				}
			}
			if elapsed > period {
				if n, ok := overruns.allow(start); ok {
					log.Warn("tick overran period", "elapsed", elapsed, "period", period, "suppressed", n)
				}
			}
			if r.OnTick != nil {
				r.OnTick()
			}
		}
	}
}

// limiter lets one event through per interval and counts the rest.
type limiter struct {
	every      time.Duration
	last       time.Time
	suppressed int
}

// allow reports whether an event at now may be logged, and how many were
// held back since the last one.
func (l *limiter) allow(now time.Time) (int, bool) {
	if !l.last.IsZero() && now.Sub(l.last) < l.every {
		l.suppressed++
		return 0, false
	}
	n := l.suppressed
	l.last, l.suppressed = now, 0
	return n, true
}
