package world

import (
	"log/slog"
	"math"
	"sync/atomic"
)

// FXRecorder is an ai.Animator that records effect requests instead of
// playing them.
type FXRecorder struct {
	name    string
	attacks atomic.Uint64
	speed   atomic.Uint64 // math.Float64bits of the last movement speed
}

// NewFXRecorder creates a recorder for the named NPC.
func NewFXRecorder(name string) *FXRecorder {
	return &FXRecorder{name: name}
}

func (f *FXRecorder) SetMovementSpeedParameter(v float64) {
	f.speed.Store(math.Float64bits(v))
}

func (f *FXRecorder) TriggerAttackEffect() {
	n := f.attacks.Add(1)
	slog.Debug("attack effect", "npc", f.name, "count", n)
}

// Attacks returns the number of attack effects triggered.
func (f *FXRecorder) Attacks() uint64 {
	return f.attacks.Load()
}

// MovementSpeed returns the last movement speed parameter.
func (f *FXRecorder) MovementSpeed() float64 {
	return math.Float64frombits(f.speed.Load())
}
