package ai

import (
	"time"

	"github.com/udisondev/warden/internal/model"
)

type attackState struct {
	*env
	dwell

	lastAttack time.Time
	hasFired   bool
	lastUpdate time.Time
	shots      uint64
}

func newAttackState(e *env) *attackState {
	return &attackState{env: e}
}

func (s *attackState) ID() model.StateID { return model.StateAttack }

// Enter stops the NPC and clears the cooldown so the first shot can go out
// on the first tick.
func (s *attackState) Enter(_ EnterParams) {
	now := s.clock.Now()
	s.start(now)
	s.lastUpdate = now
	s.hasFired = false
	s.act.stop()
}

func (s *attackState) Exit() {}

// Shots returns the number of attacks fired since creation.
func (s *attackState) Shots() uint64 {
	return s.shots
}

func (s *attackState) Update() Result {
	now := s.clock.Now()
	dt := now.Sub(s.lastUpdate)
	s.lastUpdate = now

	dist := s.sense.Distance()
	if s.settled(now, s.cfg.MinStateDwell) {
		if dist > s.cfg.DetectionRange+s.cfg.AttackExitBuffer {
			return Goto(model.StatePatrol)
		}
		if dist > s.cfg.AttackToChaseDistance() {
			return Goto(model.StateChase)
		}
	}

	target, ok := s.sense.TargetPosition()
	if !ok {
		return Stay()
	}

	s.position(target, dist)
	if self, ok := s.act.position(); ok {
		s.act.faceTowards(target.Sub(self).Flat(), s.cfg.AttackTurnRate*dt.Seconds())
	}

	if s.cooldownElapsed(now) {
		s.act.fire()
		s.lastAttack = now
		s.hasFired = true
		s.shots++
	}
	return Stay()
}

// position keeps the NPC near shooting distance: back off when too close,
// close in when too far but still within attack range, otherwise hold.
func (s *attackState) position(target model.Vec3, dist float64) {
	self, ok := s.act.position()
	if !ok {
		return
	}
	shooting := s.cfg.ShootingDistance()

	switch {
	case dist < shooting*s.cfg.TooCloseFactor:
		away := self.Sub(target).Flat().Normalized()
		if away.IsZero() {
			away = model.V3(0, 0, -1)
		}
		s.act.moveTo(self.Add(away.Scale(s.cfg.RetreatStep)), s.cfg.WalkSpeed)
	case dist > shooting*s.cfg.TooFarFactor && dist <= s.cfg.AttackRange:
		s.act.moveTo(target, s.cfg.WalkSpeed)
	default:
		s.act.stop()
	}
}

func (s *attackState) cooldownElapsed(now time.Time) bool {
	if !s.hasFired {
		return true
	}
	return !now.Before(s.lastAttack.Add(s.cfg.AttackCooldown))
}
