package ai

import (
	"math/rand/v2"
	"time"

	"github.com/udisondev/warden/internal/model"
)

// Navigator executes movement requests. Path computation happens behind it;
// the AI only asks to move toward a point or to stop.
type Navigator interface {
	SetDestination(p model.Vec3)
	Stop()
	SetSpeed(v float64)

	RemainingDistance() float64
	HasPendingPath() bool
	HasActivePath() bool
	CurrentVelocity() model.Vec3
}

// Orientation turns the NPC body.
type Orientation interface {
	CurrentForward() model.Vec3
	// RotateTowards turns toward dir by at most maxDegrees.
	RotateTowards(dir model.Vec3, maxDegrees float64)
}

// Animator receives fire-and-forget animation and FX cues.
type Animator interface {
	SetMovementSpeedParameter(v float64)
	TriggerAttackEffect()
}

// Clock supplies the simulation time used by every AI timer.
type Clock interface {
	Now() time.Time
}

// Rand supplies probability rolls in [0, 1).
type Rand interface {
	Float64() float64
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
