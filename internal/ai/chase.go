package ai

import (
	"time"

	"github.com/udisondev/warden/internal/model"
)

type chaseState struct {
	*env
	dwell

	lastRepath time.Time
	lastDest   model.Vec3
	hasDest    bool
}

func newChaseState(e *env) *chaseState {
	return &chaseState{env: e}
}

func (s *chaseState) ID() model.StateID { return model.StateChase }

func (s *chaseState) Enter(p EnterParams) {
	now := s.clock.Now()
	s.start(now)
	s.act.setSpeed(s.cfg.RunSpeed)

	s.hasDest = false
	s.lastRepath = time.Time{}
	if p.HasLastKnown {
		s.act.moveTo(p.LastKnown, s.cfg.RunSpeed)
		s.lastDest = p.LastKnown
		s.hasDest = true
		s.lastRepath = now
	}
}

func (s *chaseState) Exit() {}

// Update hands over to Attack slightly inside attack range and gives up
// only well outside detection range; the lose buffer is the larger one.
func (s *chaseState) Update() Result {
	now := s.clock.Now()
	if s.settled(now, s.cfg.MinStateDwell) {
		dist := s.sense.Distance()
		if dist <= s.cfg.ChaseToAttackDistance() {
			return Goto(model.StateAttack)
		}
		if dist > s.cfg.DetectionRange+s.cfg.ChaseLoseBuffer {
			return Goto(model.StatePatrol)
		}
	}

	s.repath(now)
	return Stay()
}

// repath re-issues the destination at most once per ChaseRepathInterval, and
// only when the target moved and no path computation is pending.
func (s *chaseState) repath(now time.Time) {
	if s.hasDest && now.Sub(s.lastRepath) < s.cfg.ChaseRepathInterval {
		return
	}
	if s.act.pathPending() {
		return
	}
	target, ok := s.sense.TargetPosition()
	if !ok {
		return
	}
	if s.hasDest && target.Distance(s.lastDest) <= s.cfg.RepathMinMove {
		return
	}

	s.act.moveTo(target, s.cfg.RunSpeed)
	s.lastDest = target
	s.hasDest = true
	s.lastRepath = now
}
