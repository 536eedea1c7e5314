package ai

import "github.com/udisondev/warden/internal/model"

// Controller represents an NPC driven by the tick manager.
type Controller interface {
	// Start enters the initial state.
	Start()

	// Stop tears the NPC's behavior down.
	Stop()

	// Tick advances the behavior by one simulation step.
	Tick()

	// CurrentState returns the active behavior state.
	CurrentState() model.StateID
}
