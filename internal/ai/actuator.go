package ai

import (
	"github.com/udisondev/warden/internal/model"
	"github.com/udisondev/warden/internal/perception"
)

// actuator forwards movement and animation intents to the optional ports.
// A missing port turns the call into a no-op.
type actuator struct {
	body   perception.Body
	nav    Navigator
	orient Orientation
	anim   Animator
}

func (a actuator) position() (model.Vec3, bool) {
	if a.body == nil {
		return model.Vec3{}, false
	}
	return a.body.Position(), true
}

func (a actuator) moveTo(p model.Vec3, speed float64) {
	if a.nav != nil {
		a.nav.SetSpeed(speed)
		a.nav.SetDestination(p)
	}
	if a.anim != nil {
		a.anim.SetMovementSpeedParameter(speed)
	}
}

func (a actuator) setSpeed(speed float64) {
	if a.nav != nil {
		a.nav.SetSpeed(speed)
	}
	if a.anim != nil {
		a.anim.SetMovementSpeedParameter(speed)
	}
}

func (a actuator) stop() {
	if a.nav != nil {
		a.nav.Stop()
	}
	if a.anim != nil {
		a.anim.SetMovementSpeedParameter(0)
	}
}

func (a actuator) faceTowards(dir model.Vec3, maxDegrees float64) {
	if a.orient == nil || dir.IsZero() {
		return
	}
	a.orient.RotateTowards(dir, maxDegrees)
}

func (a actuator) fire() {
	if a.anim != nil {
		a.anim.TriggerAttackEffect()
	}
}

// arrived reports whether the navigator has finished its current request:
// remaining distance within threshold, no path being computed, and either no
// path left or no velocity. All three are required so that a path still being
// recalculated is not taken for arrival.
func (a actuator) arrived(threshold float64) bool {
	if a.nav == nil {
		return false
	}
	if a.nav.RemainingDistance() > threshold {
		return false
	}
	if a.nav.HasPendingPath() {
		return false
	}
	return !a.nav.HasActivePath() || a.nav.CurrentVelocity().IsZero()
}

func (a actuator) pathPending() bool {
	return a.nav != nil && a.nav.HasPendingPath()
}
