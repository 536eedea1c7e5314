package model

import "fmt"

// MovementMode describes how loudly an entity is currently moving.
type MovementMode int32

const (
	MovementStill MovementMode = iota
	MovementCrouch
	MovementWalk
	MovementRun
)

// String returns human-readable movement mode
func (m MovementMode) String() string {
	switch m {
	case MovementStill:
		return "still"
	case MovementCrouch:
		return "crouch"
	case MovementWalk:
		return "walk"
	case MovementRun:
		return "run"
	default:
		return "unknown"
	}
}

// ParseMovementMode parses the lowercase names produced by String.
func ParseMovementMode(s string) (MovementMode, error) {
	switch s {
	case "still", "":
		return MovementStill, nil
	case "crouch":
		return MovementCrouch, nil
	case "walk":
		return MovementWalk, nil
	case "run":
		return MovementRun, nil
	default:
		return MovementStill, fmt.Errorf("unknown movement mode %q", s)
	}
}

// UnmarshalYAML lets scenario files spell modes by name.
func (m *MovementMode) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseMovementMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
