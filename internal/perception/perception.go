// Package perception implements NPC senses: distance, field-of-view cone,
// line of sight and noise-based hearing.
//
// Every query degrades to "not perceived" when the target is unresolved;
// nothing here returns an error.
package perception

import (
	"math"

	"github.com/udisondev/warden/internal/config"
	"github.com/udisondev/warden/internal/model"
)

// Snapshot is the perception result of one tick. Never cache it across ticks.
type Snapshot struct {
	Distance float64
	InFOV    bool
	Occluded bool
	Visual   bool
	Audible  bool
	HeardAt  model.Vec3
}

// Perception evaluates the senses of one NPC against one target.
type Perception struct {
	cfg     *config.Behavior
	self    Body
	vis     Visibility
	target  Target
	locator Locator
}

// New creates Perception for self. target may be nil (unresolved); vis may be
// nil, in which case line of sight is always clear.
func New(cfg *config.Behavior, self Body, target Target, vis Visibility) *Perception {
	return &Perception{
		cfg:    cfg,
		self:   self,
		vis:    vis,
		target: target,
	}
}

// SetLocator installs the locator consulted by Refresh.
func (p *Perception) SetLocator(l Locator) {
	p.locator = l
}

// Refresh re-resolves the target through the locator. Without a locator the
// injected reference is kept as is.
func (p *Perception) Refresh() {
	if p.locator == nil {
		return
	}
	t, ok := p.locator.Locate()
	if !ok {
		p.target = nil
		return
	}
	p.target = t
}

// Target returns the current target reference (nil when unresolved).
func (p *Perception) Target() Target {
	return p.target
}

// HasTarget reports whether the target reference is resolved.
func (p *Perception) HasTarget() bool {
	return p.target != nil && p.self != nil
}

// TargetPosition returns the target's current position.
func (p *Perception) TargetPosition() (model.Vec3, bool) {
	if !p.HasTarget() {
		return model.Vec3{}, false
	}
	return p.target.CurrentPosition(), true
}

// Distance returns the distance to the target, +Inf when unresolved.
func (p *Perception) Distance() float64 {
	if !p.HasTarget() {
		return math.Inf(1)
	}
	return p.self.Position().Distance(p.target.CurrentPosition())
}

// InFieldOfView reports whether the target lies inside the view cone.
// Both vectors are projected onto the ground plane first.
func (p *Perception) InFieldOfView() bool {
	if !p.HasTarget() {
		return false
	}
	toTarget := p.target.CurrentPosition().Sub(p.self.Position()).Flat()
	if toTarget.IsZero() {
		return true
	}
	forward := p.self.CurrentForward().Flat()
	if forward.IsZero() {
		return false
	}
	return model.AngleDeg(forward, toTarget) <= p.cfg.FieldOfView/2
}

// HasLineOfSight casts from eye height to target height.
func (p *Perception) HasLineOfSight() bool {
	if !p.HasTarget() {
		return false
	}
	return !p.occluded()
}

func (p *Perception) occluded() bool {
	if p.vis == nil {
		return false
	}
	from := p.self.Position().Add(model.Up.Scale(p.cfg.EyeHeight))
	to := p.target.CurrentPosition().Add(model.Up.Scale(p.cfg.TargetHeight))
	return p.vis.TestOcclusion(from, to, p.cfg.ObstacleMask)
}

// IsVisuallyDetected checks distance, then (when line of sight is required)
// the view cone, then occlusion. Cheap checks run first so the occlusion
// query is only issued for targets that are otherwise visible.
func (p *Perception) IsVisuallyDetected(maxDistance float64) bool {
	if p.Distance() > maxDistance {
		return false
	}
	if !p.cfg.RequireLineOfSight {
		return true
	}
	if !p.InFieldOfView() {
		return false
	}
	return p.HasLineOfSight()
}

// Snapshot evaluates every sense once. Visual detection uses maxDistance.
func (p *Perception) Snapshot(maxDistance float64) Snapshot {
	s := Snapshot{Distance: p.Distance()}
	if !p.HasTarget() {
		return s
	}
	s.InFOV = p.InFieldOfView()
	s.Occluded = p.occluded()
	s.Visual = s.Distance <= maxDistance &&
		(!p.cfg.RequireLineOfSight || (s.InFOV && !s.Occluded))
	s.Audible, s.HeardAt = p.IsAudible()
	return s
}
