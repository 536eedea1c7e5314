package model

// StateID identifies an NPC behavior state. The set is closed: every value
// below StateCount is a valid registry slot.
type StateID int32

const (
	// StateNone - machine has not entered any state yet
	StateNone StateID = iota
	// StateIdle - NPC stands still for a while
	StateIdle
	// StatePatrol - NPC walks its waypoint route
	StatePatrol
	// StateChase - NPC runs toward a detected target
	StateChase
	// StateAttack - NPC holds shooting distance and fires on cooldown
	StateAttack

	// StateCount is the number of registry slots
	StateCount
)

// States lists the behavior states in registration order.
var States = [...]StateID{StateIdle, StatePatrol, StateChase, StateAttack}

// Valid reports whether s names a behavior state (StateNone excluded).
func (s StateID) Valid() bool {
	return s > StateNone && s < StateCount
}

// String returns human-readable state name
func (s StateID) String() string {
	switch s {
	case StateNone:
		return "NONE"
	case StateIdle:
		return "IDLE"
	case StatePatrol:
		return "PATROL"
	case StateChase:
		return "CHASE"
	case StateAttack:
		return "ATTACK"
	default:
		return "UNKNOWN"
	}
}
