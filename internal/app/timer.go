package app

import (
	"math/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// TurnTimer runs the hidden countdown for one session. At most one countdown
// is pending at a time: arming a new one cancels and replaces the previous,
// and a cancelled countdown never invokes its expiry callback.
type TurnTimer struct {
	clock  clockwork.Clock
	mu     sync.Mutex
	timer  clockwork.Timer
	cancel chan struct{}
}

// NewTurnTimer creates a turn timer driven by the given clock
func NewTurnTimer(clock clockwork.Clock) *TurnTimer {
	return &TurnTimer{clock: clock}
}

// Start arms the countdown for the given duration, replacing any pending one.
// When the countdown expires naturally, expire is invoked exactly once.
func (t *TurnTimer) Start(duration time.Duration, expire func()) {
	t.mu.Lock()
	t.stopLocked()

	timer := t.clock.NewTimer(duration)
	cancel := make(chan struct{})
	t.timer = timer
	t.cancel = cancel
	t.mu.Unlock()

	go func() {
		select {
		case <-timer.Chan():
			// The timer may fire while Stop is cancelling it. Whichever
			// side takes the mutex first wins: Stop swaps out the cancel
			// channel, so a countdown seen here as superseded never
			// invokes its callback.
			t.mu.Lock()
			current := t.cancel == cancel
			if current {
				t.timer = nil
				t.cancel = nil
			}
			t.mu.Unlock()

			if current {
				expire()
			}
		case <-cancel:
		}
	}()
}

// Stop cancels the pending countdown, if any
func (t *TurnTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *TurnTimer) stopLocked() {
	if t.cancel == nil {
		return
	}
	close(t.cancel)
	stopAndDrainTimer(t.timer)
	t.cancel = nil
	t.timer = nil
}

// stopAndDrainTimer safely stops a timer and drains its channel, following
// the pattern recommended in the time.Timer.Stop documentation.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}

// HiddenDuration draws a countdown duration uniformly at random from
// [min, max). The duration is never disclosed to players.
func HiddenDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}
