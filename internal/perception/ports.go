package perception

import "github.com/udisondev/warden/internal/model"

// Visibility answers occlusion queries against the obstacle set.
type Visibility interface {
	// TestOcclusion reports whether an obstacle carrying any of the mask tags
	// intersects the segment from→to strictly before to.
	// An empty mask matches every obstacle.
	TestOcclusion(from, to model.Vec3, mask []string) bool
}

// Target is the perceived entity (usually the player). Read-only from the
// NPC's point of view.
type Target interface {
	CurrentNoiseLevel() float64
	CurrentPosition() model.Vec3
}

// Body is the perceiving NPC itself.
type Body interface {
	Position() model.Vec3
	CurrentForward() model.Vec3
}

// Locator re-resolves the target reference at refresh points.
// ok=false means the target is currently gone.
type Locator interface {
	Locate() (Target, bool)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func() (Target, bool)

func (f LocatorFunc) Locate() (Target, bool) {
	return f()
}
