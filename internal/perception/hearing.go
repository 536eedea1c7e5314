package perception

import "github.com/udisondev/warden/internal/model"

// Attenuate applies linear distance falloff to a noise level.
// Beyond hearingRange (or with no hearing range) nothing is heard.
func Attenuate(noise, distance, hearingRange float64) float64 {
	if hearingRange <= 0 || distance > hearingRange {
		return 0
	}
	return noise * (1 - distance/hearingRange)
}

// IsAudible reports whether the target's noise reaches the NPC, and where it
// was heard. Hearing is not gated by the view cone, and a non-positive
// hearing range turns it off.
func (p *Perception) IsAudible() (bool, model.Vec3) {
	if !p.HasTarget() || p.cfg.HearingRange <= 0 {
		return false, model.Vec3{}
	}

	dist := p.Distance()
	if dist > p.cfg.HearingRange {
		return false, model.Vec3{}
	}

	noise := p.target.CurrentNoiseLevel()
	if noise < p.cfg.MinAudibleNoise {
		return false, model.Vec3{}
	}

	heard := Attenuate(noise, dist, p.cfg.HearingRange)
	if p.cfg.OcclusionMuffling && p.occluded() {
		heard *= p.cfg.OcclusionAttenuation
	}

	if heard < p.cfg.MinAudibleNoise {
		return false, model.Vec3{}
	}
	return true, p.target.CurrentPosition()
}
