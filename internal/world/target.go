package world

import (
	"sync"
	"time"

	"github.com/udisondev/warden/internal/config"
	"github.com/udisondev/warden/internal/model"
)

// Leg is one segment of a scripted target's path.
type Leg struct {
	To    model.Vec3         `yaml:"to"`
	Speed float64            `yaml:"speed"`
	Mode  model.MovementMode `yaml:"mode"`
	Wait  time.Duration      `yaml:"wait"` // pause at To before the next leg
}

// ScriptedTarget walks a fixed list of legs and emits the noise of its current
// movement mode. It implements perception.Target.
type ScriptedTarget struct {
	mu sync.RWMutex

	noise config.NoiseLevels
	legs  []Leg
	loop  bool

	pos     model.Vec3
	leg     int
	waiting time.Duration
	mode    model.MovementMode
}

// NewScriptedTarget creates a target at start. With loop set it returns to the
// first leg after the last one; otherwise it stands still at the end.
func NewScriptedTarget(start model.Vec3, legs []Leg, loop bool, noise config.NoiseLevels) *ScriptedTarget {
	cp := make([]Leg, len(legs))
	copy(cp, legs)
	return &ScriptedTarget{
		noise: noise,
		legs:  cp,
		loop:  loop,
		pos:   start,
	}
}

func (t *ScriptedTarget) CurrentPosition() model.Vec3 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pos
}

func (t *ScriptedTarget) CurrentNoiseLevel() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.noise.NoiseFor(t.mode)
}

// Mode returns the current movement mode.
func (t *ScriptedTarget) Mode() model.MovementMode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

// Done reports whether a non-looping script has finished.
func (t *ScriptedTarget) Done() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.leg >= len(t.legs)
}

// Teleport moves the target, keeping its script position.
func (t *ScriptedTarget) Teleport(p model.Vec3) {
	t.mu.Lock()
	t.pos = p
	t.mu.Unlock()
}

// Step advances the script by dt.
func (t *ScriptedTarget) Step(dt time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Legs without speed complete instantly; bound them so a looping
	// script of such legs cannot spin forever.
	instant := 0
	for dt > 0 {
		if t.leg >= len(t.legs) {
			if !t.loop || len(t.legs) == 0 {
				t.mode = model.MovementStill
				return
			}
			t.leg = 0
		}
		leg := t.legs[t.leg]

		if t.waiting > 0 {
			t.mode = model.MovementStill
			if dt < t.waiting {
				t.waiting -= dt
				return
			}
			dt -= t.waiting
			t.waiting = 0
			t.leg++
			continue
		}

		t.mode = leg.Mode
		toLeg := leg.To.Sub(t.pos)
		remaining := toLeg.Len()
		if leg.Speed <= 0 || remaining == 0 {
			instant++
			if instant > len(t.legs) {
				return
			}
			t.pos = leg.To
			t.arrive(leg)
			continue
		}

		travel := leg.Speed * dt.Seconds()
		if travel < remaining {
			t.pos = t.pos.Add(toLeg.Scale(travel / remaining))
			return
		}

		used := time.Duration(remaining / leg.Speed * float64(time.Second))
		dt -= used
		t.pos = leg.To
		t.arrive(leg)
	}
}

func (t *ScriptedTarget) arrive(leg Leg) {
	if leg.Wait > 0 {
		t.waiting = leg.Wait
		return
	}
	t.leg++
}
