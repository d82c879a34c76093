// Package notify holds the transient flash message shown in the corner of
// the screen and the timer that expires it.
package notify

import (
	"sync"
	"time"
)

type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

type Flash struct {
	Message   string
	Level     Level
	CreatedAt time.Time
}

func Info(msg string) Flash  { return Flash{Message: msg, Level: LevelInfo} }
func Warn(msg string) Flash  { return Flash{Message: msg, Level: LevelWarn} }
func Error(msg string) Flash { return Flash{Message: msg, Level: LevelError} }

// DefaultInterval is how long an info or warning flash stays up.
const DefaultInterval = time.Second

// Timer owns the live flash. Set and Poll must be called from the same
// goroutine; only the expiry signal crosses goroutines.
type Timer struct {
	interval time.Duration
	now      func() time.Time

	live    *Flash
	gen     uint64
	timer   *time.Timer
	expired chan uint64

	mu sync.Mutex // serialises writers of the expired slot
}

func NewTimer(interval time.Duration) *Timer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Timer{
		interval: interval,
		now:      time.Now,
		expired:  make(chan uint64, 1),
	}
}

// Duration is how long a flash of the given level stays visible.
func (t *Timer) Duration(l Level) time.Duration {
	if l == LevelError {
		return 2 * t.interval
	}
	return t.interval
}

// Set replaces the live flash and schedules its expiry. The previous
// flash's timer is stopped; if it already fired, Poll discards its signal.
func (t *Timer) Set(f Flash) {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = t.now()
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	t.live = &f
	gen := t.gen
	t.timer = time.AfterFunc(t.Duration(f.Level), func() { t.signal(gen) })
}

// signal stores gen in the single-slot channel, keeping whichever
// generation is newer when the slot is already full.
func (t *Timer) signal(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	select {
	case old := <-t.expired:
		if old > gen {
			gen = old
		}
	default:
	}
	t.expired <- gen
}

// Poll consumes a pending expiry signal without blocking. It clears the
// live flash only when the signal belongs to it and reports whether it did.
func (t *Timer) Poll() bool {
	select {
	case gen := <-t.expired:
		if t.live == nil || gen != t.gen {
			return false
		}
		t.live = nil
		return true
	default:
		return false
	}
}

func (t *Timer) Current() (Flash, bool) {
	if t.live == nil {
		return Flash{}, false
	}
	return *t.live, true
}

// Clear drops the live flash immediately.
func (t *Timer) Clear() {
	if t.timer != nil {
		t.timer.Stop()
	}
	t.live = nil
}
