package ai

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/warden/internal/model"
)

var (
	// ErrUnregisteredState is returned when transitioning to a state that was never registered.
	ErrUnregisteredState = errors.New("state not registered")
	// ErrReentrantTransition is returned when a transition is requested from
	// inside an Enter or Exit hook.
	ErrReentrantTransition = errors.New("transition requested from enter/exit hook")
)

// State is one behavior of the machine.
type State interface {
	ID() model.StateID
	Enter(p EnterParams)
	Exit()
	// Update runs once per tick and returns the transition request, if any.
	Update() Result
}

// TransitionHook observes completed transitions.
type TransitionHook func(from, to model.StateID)

// Machine holds the registered states of one NPC, exactly one of them active.
// Not safe for concurrent use; it is driven from the owning NPC's tick.
type Machine struct {
	name        string
	states      [model.StateCount]State
	active      State
	inHook      bool
	transitions uint64
	onChange    TransitionHook
}

// NewMachine creates an empty machine. name only labels log records.
func NewMachine(name string) *Machine {
	return &Machine{name: name}
}

// OnTransition installs a hook called after every completed transition.
func (m *Machine) OnTransition(hook TransitionHook) {
	m.onChange = hook
}

// Register adds a state under its ID. Registering an ID that is already
// present is a no-op: the first registration wins. Callers register each
// identity exactly once.
func (m *Machine) Register(s State) {
	id := s.ID()
	if !id.Valid() {
		slog.Error("state machine: cannot register invalid state id",
			"machine", m.name,
			"state", id)
		return
	}
	if m.states[id] != nil {
		if IsDebugEnabled() {
			slog.Debug("state machine: state already registered, keeping first",
				"machine", m.name,
				"state", id)
		}
		return
	}
	m.states[id] = s
}

// Registered reports whether id has a state.
func (m *Machine) Registered(id model.StateID) bool {
	return id.Valid() && m.states[id] != nil
}

// Current returns the active state ID, StateNone before the first transition.
func (m *Machine) Current() model.StateID {
	if m.active == nil {
		return model.StateNone
	}
	return m.active.ID()
}

// Transitions returns the number of completed transitions.
func (m *Machine) Transitions() uint64 {
	return m.transitions
}

// Transition exits the active state (if any) and enters id.
// An unregistered id is logged and reported; the active state is left unchanged.
func (m *Machine) Transition(id model.StateID, opts ...EnterOption) error {
	if !m.Registered(id) {
		slog.Error("state machine: transition to unregistered state",
			"machine", m.name,
			"from", m.Current(),
			"to", id)
		return fmt.Errorf("transition %s -> %s: %w", m.Current(), id, ErrUnregisteredState)
	}
	if m.inHook {
		slog.Error("state machine: reentrant transition rejected",
			"machine", m.name,
			"to", id)
		return fmt.Errorf("transition to %s: %w", id, ErrReentrantTransition)
	}

	from := m.Current()
	next := m.states[id]

	m.inHook = true
	if m.active != nil {
		m.active.Exit()
	}
	m.active = next
	next.Enter(buildParams(opts))
	m.inHook = false

	m.transitions++

	if IsDebugEnabled() {
		slog.Debug("state machine: transition",
			"machine", m.name,
			"from", from,
			"to", id)
	}
	if m.onChange != nil {
		m.onChange(from, id)
	}
	return nil
}

// Tick runs the active state's Update and applies the transition it requests.
// No-op before the first transition.
func (m *Machine) Tick() {
	if m.active == nil {
		return
	}
	r := m.active.Update()
	if r.IsStay() {
		return
	}
	// Errors are already logged; the NPC keeps its current state.
	_ = m.Transition(r.next, r.opts...)
}

// Reset exits the active state and clears the registry (NPC teardown).
func (m *Machine) Reset() {
	if m.active != nil {
		m.inHook = true
		m.active.Exit()
		m.inHook = false
	}
	m.active = nil
	m.states = [model.StateCount]State{}
}
