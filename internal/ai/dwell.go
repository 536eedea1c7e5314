package ai

import (
	"time"

	"github.com/udisondev/warden/internal/config"
	"github.com/udisondev/warden/internal/perception"
)

// env is what every state of one NPC shares. Config is read-only.
type env struct {
	name  string
	cfg   *config.Behavior
	sense *perception.Perception
	act   actuator
	clock Clock
	rng   Rand
}

// roll returns true with probability p.
func (e *env) roll(p float64) bool {
	if p <= 0 {
		return false
	}
	return e.rng.Float64() < p
}

// between picks a duration uniformly in [lo, hi].
func (e *env) between(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(e.rng.Float64()*float64(hi-lo))
}

// dwell is the minimum-time-in-state gate. No exit transition is evaluated
// until the state has been active for MinStateDwell.
type dwell struct {
	enteredAt time.Time
}

func (d *dwell) start(now time.Time) {
	d.enteredAt = now
}

func (d *dwell) elapsed(now time.Time) time.Duration {
	return now.Sub(d.enteredAt)
}

func (d *dwell) settled(now time.Time, minDwell time.Duration) bool {
	return d.elapsed(now) >= minDwell
}
