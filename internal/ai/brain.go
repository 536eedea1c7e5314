package ai

import (
	"log/slog"
	"sync/atomic"

	"github.com/udisondev/warden/internal/config"
	"github.com/udisondev/warden/internal/model"
	"github.com/udisondev/warden/internal/perception"
)

// Deps are the capabilities an NPC brain is wired to. Every field is
// optional: missing movement or animation ports make the matching calls
// no-ops, a missing Body or Target means nothing is perceived.
type Deps struct {
	Body        perception.Body
	Navigator   Navigator
	Orientation Orientation
	Animator    Animator
	Visibility  perception.Visibility

	// Target is resolved once here; Locator, if set, re-resolves it at
	// Start and after every state transition.
	Target  perception.Target
	Locator perception.Locator

	Clock Clock
	Rand  Rand
}

// Brain is the combat behavior of one NPC: a state machine over Idle,
// Patrol, Chase and Attack fed by the NPC's perception.
type Brain struct {
	name      string
	cfg       *config.Behavior
	machine   *Machine
	sense     *perception.Perception
	isRunning atomic.Bool
	state     atomic.Int32 // mirror of machine.Current for readers off the tick goroutine

	idle   *idleState
	patrol *patrolState
	chase  *chaseState
	attack *attackState
}

// NewBrain creates the brain of one NPC. cfg is shared by all states and must
// not be modified afterwards.
func NewBrain(name string, cfg *config.Behavior, route model.Route, deps Deps) *Brain {
	if deps.Clock == nil {
		deps.Clock = systemClock{}
	}
	if deps.Rand == nil {
		deps.Rand = globalRand{}
	}

	sense := perception.New(cfg, deps.Body, deps.Target, deps.Visibility)
	if deps.Locator != nil {
		sense.SetLocator(deps.Locator)
	}

	e := &env{
		name:  name,
		cfg:   cfg,
		sense: sense,
		act: actuator{
			body:   deps.Body,
			nav:    deps.Navigator,
			orient: deps.Orientation,
			anim:   deps.Animator,
		},
		clock: deps.Clock,
		rng:   deps.Rand,
	}

	b := &Brain{
		name:    name,
		cfg:     cfg,
		machine: NewMachine(name),
		sense:   sense,
		idle:    newIdleState(e),
		patrol:  newPatrolState(e, route),
		chase:   newChaseState(e),
		attack:  newAttackState(e),
	}
	b.machine.OnTransition(b.onTransition)
	return b
}

// Start registers the states and enters Idle.
func (b *Brain) Start() {
	b.isRunning.Store(true)
	b.sense.Refresh()

	b.machine.Register(b.idle)
	b.machine.Register(b.patrol)
	b.machine.Register(b.chase)
	b.machine.Register(b.attack)

	if err := b.machine.Transition(model.StateIdle); err != nil {
		slog.Error("brain start failed", "npc", b.name, "err", err)
		return
	}

	slog.Debug("brain started",
		"npc", b.name,
		"state", b.machine.Current())
}

// Stop exits the active state and clears the registry.
func (b *Brain) Stop() {
	b.isRunning.Store(false)
	b.machine.Reset()
	b.state.Store(int32(model.StateNone))

	slog.Debug("brain stopped", "npc", b.name)
}

// Tick advances the behavior by one step.
func (b *Brain) Tick() {
	if !b.isRunning.Load() {
		return
	}
	b.machine.Tick()
}

// CurrentState returns the active behavior state. Safe to call from any
// goroutine.
func (b *Brain) CurrentState() model.StateID {
	return model.StateID(b.state.Load())
}

// Name returns the NPC label.
func (b *Brain) Name() string {
	return b.name
}

// Machine exposes the underlying state machine.
func (b *Brain) Machine() *Machine {
	return b.machine
}

// Perception exposes the NPC's senses.
func (b *Brain) Perception() *perception.Perception {
	return b.sense
}

// Shots returns the number of attacks fired.
func (b *Brain) Shots() uint64 {
	return b.attack.Shots()
}

// PatrolCursor returns the waypoint index and travel direction.
func (b *Brain) PatrolCursor() (index, direction int) {
	return b.patrol.Cursor()
}

func (b *Brain) onTransition(from, to model.StateID) {
	b.state.Store(int32(to))
	b.sense.Refresh()

	if IsDebugEnabled() {
		snap := b.sense.Snapshot(b.cfg.DetectionRange)
		slog.Debug("npc state changed",
			"npc", b.name,
			"from", from,
			"to", to,
			"distance", snap.Distance,
			"visual", snap.Visual,
			"audible", snap.Audible)
	}
}
