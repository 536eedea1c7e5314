package perception

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/warden/internal/config"
	"github.com/udisondev/warden/internal/model"
)

func TestAttenuate(t *testing.T) {
	tests := []struct {
		name                   string
		noise, dist, hearRange float64
		want                   float64
	}{
		{"at source", 1, 0, 8, 1},
		{"three quarters out", 1, 6, 8, 0.25},
		{"seven eighths out", 1, 7, 8, 0.125},
		{"edge of range", 1, 8, 8, 0},
		{"beyond range", 1, 9, 8, 0},
		{"no hearing", 1, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Attenuate(tt.noise, tt.dist, tt.hearRange), 1e-9)
		})
	}
}

func TestAttenuate_NonIncreasingWithDistance(t *testing.T) {
	prev := Attenuate(0.8, 0, 10)
	for d := 0.1; d <= 12; d += 0.1 {
		cur := Attenuate(0.8, d, 10)
		assert.LessOrEqual(t, cur, prev+1e-12, "distance %v", d)
		prev = cur
	}
}

func TestIsAudible(t *testing.T) {
	tests := []struct {
		name    string
		target  model.Vec3
		noise   float64
		blocked bool
		muffle  bool
		want    bool
	}{
		{"behind npc is still heard", model.V3(0, 0, -6), 1, false, false, true},
		{"too faint after falloff", model.V3(0, 0, -7), 1, false, false, false},
		{"source below threshold", model.V3(0, 0, -1), 0.1, false, false, false},
		{"out of range", model.V3(0, 0, -9), 1, false, false, false},
		{"muffled below threshold", model.V3(0, 0, -5), 1, true, true, false},
		{"muffled but loud enough", model.V3(0, 0, -1), 1, true, true, true},
		{"wall ignored without muffling", model.V3(0, 0, -5), 1, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.HearingRange = 8
			cfg.MinAudibleNoise = 0.2
			cfg.OcclusionMuffling = tt.muffle
			cfg.OcclusionAttenuation = 0.5

			p := New(cfg, facingZ, &stubTarget{pos: tt.target, noise: tt.noise}, &stubVisibility{blocked: tt.blocked})

			heard, at := p.IsAudible()
			assert.Equal(t, tt.want, heard)
			if heard {
				assert.Equal(t, tt.target, at)
			}
		})
	}
}

func TestIsAudible_DisabledHearing(t *testing.T) {
	cfg := testConfig()
	cfg.HearingRange = 0
	cfg.MinAudibleNoise = 0

	p := New(cfg, facingZ, &stubTarget{pos: model.V3(0, 0, 0), noise: 1}, nil)

	heard, _ := p.IsAudible()
	assert.False(t, heard)
}

func audibilityConfigs() map[string]func() *config.Behavior {
	base := func(muffle bool) func() *config.Behavior {
		return func() *config.Behavior {
			cfg := testConfig()
			cfg.HearingRange = 10
			cfg.MinAudibleNoise = 0.2
			cfg.OcclusionMuffling = muffle
			cfg.OcclusionAttenuation = 0.4
			return cfg
		}
	}
	return map[string]func() *config.Behavior{
		"clear":   base(false),
		"muffled": base(true),
	}
}

func TestIsAudible_NonDecreasingWithNoise(t *testing.T) {
	for name, newCfg := range audibilityConfigs() {
		t.Run(name, func(t *testing.T) {
			for _, dist := range []float64{0, 1, 3, 5, 7.5, 9.9, 10, 11} {
				target := &stubTarget{pos: model.V3(0, 0, dist)}
				p := New(newCfg(), facingZ, target, &stubVisibility{blocked: true})

				wasHeard := false
				for noise := 0.0; noise <= 1.0; noise += 0.01 {
					target.noise = noise
					heard, _ := p.IsAudible()
					if wasHeard {
						assert.True(t, heard, "distance %v noise %v", dist, noise)
					}
					wasHeard = heard
				}
			}
		})
	}
}

func TestIsAudible_NonIncreasingWithDistance(t *testing.T) {
	for name, newCfg := range audibilityConfigs() {
		t.Run(name, func(t *testing.T) {
			for _, noise := range []float64{0.1, 0.2, 0.35, 0.6, 1} {
				target := &stubTarget{noise: noise}
				p := New(newCfg(), facingZ, target, &stubVisibility{blocked: true})

				wasHeard := true
				for dist := 0.0; dist <= 12; dist += 0.05 {
					target.pos = model.V3(0, 0, dist)
					heard, _ := p.IsAudible()
					if !wasHeard {
						assert.False(t, heard, "noise %v distance %v", noise, dist)
					}
					wasHeard = heard
				}
			}
		})
	}
}
