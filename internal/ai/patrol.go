package ai

import (
	"log/slog"
	"time"

	"github.com/udisondev/warden/internal/model"
)

type patrolState struct {
	*env
	dwell
	route model.Route

	// cursor: waypoint being walked to and travel direction (+1/-1)
	index     int
	direction int
	started   bool
	reached   bool // current waypoint was reached before the last exit

	nextRandomIdle time.Time
}

func newPatrolState(e *env, route model.Route) *patrolState {
	return &patrolState{env: e, route: route, direction: 1}
}

func (s *patrolState) ID() model.StateID { return model.StatePatrol }

// Cursor returns the current waypoint index and direction.
func (s *patrolState) Cursor() (int, int) {
	return s.index, s.direction
}

func (s *patrolState) Enter(_ EnterParams) {
	now := s.clock.Now()
	s.start(now)

	if s.route.Empty() {
		slog.Warn("patrol: route has no waypoints, holding position", "npc", s.name)
		s.act.stop()
		return
	}

	s.act.setSpeed(s.cfg.WalkSpeed)
	if !s.started || s.reached {
		s.advance()
	}
	s.reached = false
	s.goToCurrent()

	if s.cfg.RandomIdle.Enabled {
		s.scheduleRandomIdle(now)
	}
}

func (s *patrolState) Exit() {}

func (s *patrolState) Update() Result {
	now := s.clock.Now()
	if !s.settled(now, s.cfg.MinStateDwell) {
		return Stay()
	}

	if s.sense.IsVisuallyDetected(s.cfg.DetectionRange) {
		pos, _ := s.sense.TargetPosition()
		return Goto(model.StateChase, WithLastKnown(pos))
	}
	if heard, at := s.sense.IsAudible(); heard {
		return Goto(model.StateChase, WithLastKnown(at))
	}

	if s.route.Empty() {
		return Stay()
	}

	if s.cfg.RandomIdle.Enabled && !now.Before(s.nextRandomIdle) {
		if s.roll(s.cfg.RandomIdle.Probability) {
			return Goto(model.StateIdle)
		}
		s.scheduleRandomIdle(now)
	}

	if !s.act.arrived(s.cfg.WaypointReachedThreshold) {
		return Stay()
	}

	// A paused visit resumes toward the next waypoint on re-entry.
	pause := s.cfg.WaypointPause
	if pause.Enabled && s.roll(pause.Probability) {
		s.reached = true
		return GotoIdleFor(s.between(pause.MinInterval, pause.MaxInterval))
	}

	s.advance()
	s.goToCurrent()
	return Stay()
}

func (s *patrolState) scheduleRandomIdle(now time.Time) {
	ri := s.cfg.RandomIdle
	s.nextRandomIdle = now.Add(s.between(ri.MinInterval, ri.MaxInterval))
}

func (s *patrolState) goToCurrent() {
	wp, ok := s.route.At(s.index)
	if !ok {
		return
	}
	s.act.moveTo(wp, s.cfg.WalkSpeed)
}

// advance moves the cursor to the next waypoint. The first call targets the
// first waypoint. Without direction changes the route loops; with them the
// cursor bounces between the ends.
func (s *patrolState) advance() {
	n := s.route.Len()
	if n == 0 {
		return
	}
	if !s.started {
		s.started = true
		s.index = 0
		return
	}

	dc := s.cfg.DirectionChange
	if !dc.Enabled {
		s.index = (s.index + 1) % n
		return
	}

	if s.roll(dc.Probability) {
		s.direction = -s.direction
	}
	next := s.index + s.direction
	switch {
	case next >= n:
		s.direction = -1
		next = max(n-2, 0)
	case next < 0:
		s.direction = 1
		next = min(1, n-1)
	}
	s.index = next
}
