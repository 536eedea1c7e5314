package scenario

import (
	"log/slog"
	"time"

	"github.com/udisondev/warden/internal/ai"
	"github.com/udisondev/warden/internal/config"
	"github.com/udisondev/warden/internal/model"
	"github.com/udisondev/warden/internal/world"
)

// NPC is one simulated NPC: its body, effect sink and brain.
type NPC struct {
	ID    uint32
	Name  string
	Agent *world.Agent
	FX    *world.FXRecorder
	Brain *ai.Brain
}

// Session is a built scenario: world entities plus one brain per NPC, all
// sharing one immutable behavior config.
type Session struct {
	cfg       *config.Behavior
	obstacles *world.Obstacles
	target    *world.ScriptedTarget
	npcs      []*NPC
}

// BuildOption customizes Build.
type BuildOption func(*buildOptions)

type buildOptions struct {
	clock        ai.Clock
	rng          ai.Rand
	defaultRoute []model.Vec3
}

// WithClock sets the clock given to every brain.
func WithClock(c ai.Clock) BuildOption {
	return func(o *buildOptions) { o.clock = c }
}

// WithRand sets the random source given to every brain.
func WithRand(r ai.Rand) BuildOption {
	return func(o *buildOptions) { o.rng = r }
}

// WithDefaultRoute sets the route of NPCs whose spec has none.
func WithDefaultRoute(route []model.Vec3) BuildOption {
	return func(o *buildOptions) { o.defaultRoute = route }
}

// Build creates a session. cfg is shared by every brain and must not be
// modified afterwards; a new config means a new session.
func (s *Scenario) Build(cfg config.Behavior, opts ...BuildOption) *Session {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	shared := cfg
	obstacles := world.NewObstacles(s.Bounds)
	if s.Clearance > 0 {
		obstacles.SetClearance(s.Clearance)
	}
	for _, box := range s.Obstacles {
		obstacles.AddBox(box)
	}

	target := world.NewScriptedTarget(s.Target.Start, s.Target.Legs, s.Target.Loop, shared.NoiseLevels)

	sess := &Session{
		cfg:       &shared,
		obstacles: obstacles,
		target:    target,
		npcs:      make([]*NPC, 0, len(s.NPCs)),
	}

	for i, spec := range s.NPCs {
		route := spec.Route
		if len(route) == 0 {
			route = o.defaultRoute
		}

		agent := world.NewAgent(spec.Position, spec.Forward)
		fx := world.NewFXRecorder(spec.Name)
		brain := ai.NewBrain(spec.Name, sess.cfg, model.NewRoute(route), ai.Deps{
			Body:        agent,
			Navigator:   agent,
			Orientation: agent,
			Animator:    fx,
			Visibility:  obstacles,
			Target:      target,
			Clock:       o.clock,
			Rand:        o.rng,
		})

		sess.npcs = append(sess.npcs, &NPC{
			ID:    uint32(i + 1),
			Name:  spec.Name,
			Agent: agent,
			FX:    fx,
			Brain: brain,
		})
	}

	slog.Info("scenario session built",
		"scenario", s.Name,
		"npcs", len(sess.npcs),
		"obstacles", obstacles.Len(),
		"legs", len(s.Target.Legs))

	return sess
}

// Config returns the behavior config shared by the session's brains.
func (s *Session) Config() config.Behavior {
	return *s.cfg
}

// Target returns the scripted target.
func (s *Session) Target() *world.ScriptedTarget {
	return s.target
}

// Obstacles returns the obstacle space.
func (s *Session) Obstacles() *world.Obstacles {
	return s.obstacles
}

// NPCs returns the session's NPCs.
func (s *Session) NPCs() []*NPC {
	return s.npcs
}

// Step advances world entities by dt. Brains are ticked separately, after.
func (s *Session) Step(dt time.Duration) {
	s.target.Step(dt)
	for _, npc := range s.npcs {
		npc.Agent.Step(dt)
	}
}

// Tick steps the world and ticks every brain once, in that order.
func (s *Session) Tick(dt time.Duration) {
	s.Step(dt)
	for _, npc := range s.npcs {
		npc.Brain.Tick()
	}
}

// Attach registers the session's brains with m and installs Step as its
// stepper. Brains already registered under the same IDs are stopped and
// replaced. Must run on m's tick goroutine (see TickManager.Enqueue) when m
// is running.
func (s *Session) Attach(m *ai.TickManager) {
	for _, npc := range s.npcs {
		m.Register(npc.ID, npc.Brain)
	}
	m.SetStepper(s.Step)
}

// Start starts every brain without a tick manager.
func (s *Session) Start() {
	for _, npc := range s.npcs {
		npc.Brain.Start()
	}
}

// Stop stops every brain.
func (s *Session) Stop() {
	for _, npc := range s.npcs {
		npc.Brain.Stop()
	}
}

// Report is a point-in-time view of one NPC.
type Report struct {
	Name     string
	State    model.StateID
	Position model.Vec3
	Distance float64 // to the target
	Attacks  uint64
}

// Reports returns one Report per NPC. Safe to call while the session ticks.
func (s *Session) Reports() []Report {
	target := s.target.CurrentPosition()
	out := make([]Report, 0, len(s.npcs))
	for _, npc := range s.npcs {
		pos := npc.Agent.Position()
		out = append(out, Report{
			Name:     npc.Name,
			State:    npc.Brain.CurrentState(),
			Position: pos,
			Distance: pos.Distance(target),
			Attacks:  npc.FX.Attacks(),
		})
	}
	return out
}
