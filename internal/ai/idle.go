package ai

import (
	"time"

	"github.com/udisondev/warden/internal/model"
)

type idleState struct {
	*env
	dwell
	duration time.Duration
}

func newIdleState(e *env) *idleState {
	return &idleState{env: e}
}

func (s *idleState) ID() model.StateID { return model.StateIdle }

// Enter stops the NPC and restarts the idle timer. A duration override in p
// applies to this visit only.
func (s *idleState) Enter(p EnterParams) {
	s.start(s.clock.Now())
	s.duration = s.cfg.IdleDuration
	if p.IdleDuration > 0 {
		s.duration = p.IdleDuration
	}
	s.act.stop()
}

func (s *idleState) Exit() {}

// Update checks attack range first, then detection, then the idle timer.
func (s *idleState) Update() Result {
	now := s.clock.Now()
	if !s.settled(now, s.cfg.MinStateDwell) {
		return Stay()
	}

	if s.sense.IsVisuallyDetected(s.cfg.AttackRange) {
		return Goto(model.StateAttack)
	}
	if s.sense.IsVisuallyDetected(s.cfg.DetectionRange) {
		pos, _ := s.sense.TargetPosition()
		return Goto(model.StateChase, WithLastKnown(pos))
	}
	if heard, at := s.sense.IsAudible(); heard {
		return Goto(model.StateChase, WithLastKnown(at))
	}

	if s.elapsed(now) >= s.duration {
		return Goto(model.StatePatrol)
	}
	return Stay()
}
