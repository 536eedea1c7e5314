package perception

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/warden/internal/config"
	"github.com/udisondev/warden/internal/model"
)

type stubBody struct {
	pos, forward model.Vec3
}

func (b stubBody) Position() model.Vec3       { return b.pos }
func (b stubBody) CurrentForward() model.Vec3 { return b.forward }

type stubTarget struct {
	pos   model.Vec3
	noise float64
}

func (t *stubTarget) CurrentPosition() model.Vec3 { return t.pos }
func (t *stubTarget) CurrentNoiseLevel() float64  { return t.noise }

type stubVisibility struct {
	blocked  bool
	calls    int
	lastFrom model.Vec3
	lastTo   model.Vec3
	lastMask []string
}

func (v *stubVisibility) TestOcclusion(from, to model.Vec3, mask []string) bool {
	v.calls++
	v.lastFrom, v.lastTo, v.lastMask = from, to, mask
	return v.blocked
}

func testConfig() *config.Behavior {
	cfg := config.DefaultBehavior()
	cfg.FieldOfView = 90
	return &cfg
}

// facingZ is an NPC at the origin looking down +Z.
var facingZ = stubBody{forward: model.V3(0, 0, 1)}

func TestPerception_UnresolvedTarget(t *testing.T) {
	vis := &stubVisibility{}
	p := New(testConfig(), facingZ, nil, vis)

	assert.True(t, math.IsInf(p.Distance(), 1))
	assert.False(t, p.InFieldOfView())
	assert.False(t, p.HasLineOfSight())
	assert.False(t, p.IsVisuallyDetected(1e9))
	heard, _ := p.IsAudible()
	assert.False(t, heard)
	_, ok := p.TargetPosition()
	assert.False(t, ok)
	assert.Zero(t, vis.calls)
}

func TestPerception_MissingBody(t *testing.T) {
	p := New(testConfig(), nil, &stubTarget{pos: model.V3(0, 0, 1)}, nil)

	assert.False(t, p.HasTarget())
	assert.True(t, math.IsInf(p.Distance(), 1))
}

func TestPerception_InFieldOfView(t *testing.T) {
	tests := []struct {
		name    string
		forward model.Vec3
		target  model.Vec3
		want    bool
	}{
		{"straight ahead", model.V3(0, 0, 1), model.V3(0, 0, 5), true},
		{"inside half angle", model.V3(0, 0, 1), model.V3(1, 0, 2), true},
		{"just inside the cone edge", model.V3(0, 0, 1), model.V3(2.9, 0, 3), true},
		{"outside cone", model.V3(0, 0, 1), model.V3(3, 0, 1), false},
		{"behind", model.V3(0, 0, 1), model.V3(0, 0, -5), false},
		{"height ignored", model.V3(0, 0, 1), model.V3(0, 50, 1), true},
		{"tilted forward is flattened", model.V3(0, -1, 1), model.V3(0, 0, 5), true},
		{"target on top of npc", model.V3(0, 0, 1), model.V3(0, 3, 0), true},
		{"no forward", model.Vec3{}, model.V3(0, 0, 5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(testConfig(), stubBody{forward: tt.forward}, &stubTarget{pos: tt.target}, nil)
			assert.Equal(t, tt.want, p.InFieldOfView())
		})
	}
}

func TestPerception_LineOfSightUsesEyeAndTargetHeight(t *testing.T) {
	cfg := testConfig()
	vis := &stubVisibility{}
	p := New(cfg, facingZ, &stubTarget{pos: model.V3(0, 0, 5)}, vis)

	require.True(t, p.HasLineOfSight())
	assert.Equal(t, model.V3(0, cfg.EyeHeight, 0), vis.lastFrom)
	assert.Equal(t, model.V3(0, cfg.TargetHeight, 5), vis.lastTo)
	assert.Equal(t, cfg.ObstacleMask, vis.lastMask)

	vis.blocked = true
	assert.False(t, p.HasLineOfSight())
}

func TestPerception_NilVisibilityIsClear(t *testing.T) {
	p := New(testConfig(), facingZ, &stubTarget{pos: model.V3(0, 0, 5)}, nil)
	assert.True(t, p.HasLineOfSight())
}

func TestPerception_IsVisuallyDetected(t *testing.T) {
	tests := []struct {
		name       string
		requireLOS bool
		target     model.Vec3
		blocked    bool
		want       bool
		wantCasts  int
	}{
		{"too far skips everything", true, model.V3(0, 0, 20), false, false, 0},
		{"outside cone skips occlusion", true, model.V3(0, 0, -5), false, false, 0},
		{"visible", true, model.V3(0, 0, 5), false, true, 1},
		{"occluded", true, model.V3(0, 0, 5), true, false, 1},
		{"distance only", false, model.V3(0, 0, -5), true, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.RequireLineOfSight = tt.requireLOS
			vis := &stubVisibility{blocked: tt.blocked}
			p := New(cfg, facingZ, &stubTarget{pos: tt.target}, vis)

			assert.Equal(t, tt.want, p.IsVisuallyDetected(10))
			assert.Equal(t, tt.wantCasts, vis.calls)
		})
	}
}

func TestPerception_DetectionAtExactRange(t *testing.T) {
	p := New(testConfig(), facingZ, &stubTarget{pos: model.V3(0, 0, 10)}, nil)

	assert.True(t, p.IsVisuallyDetected(10))
	assert.False(t, p.IsVisuallyDetected(9.999))
}

func TestPerception_RefreshThroughLocator(t *testing.T) {
	target := &stubTarget{pos: model.V3(0, 0, 3)}
	present := false

	p := New(testConfig(), facingZ, target, nil)
	p.SetLocator(LocatorFunc(func() (Target, bool) { return target, present }))

	require.True(t, p.HasTarget(), "initial target used until first refresh")

	p.Refresh()
	assert.False(t, p.HasTarget())

	present = true
	p.Refresh()
	assert.True(t, p.HasTarget())
	assert.InDelta(t, 3.0, p.Distance(), 1e-9)
}

func TestPerception_Snapshot(t *testing.T) {
	cfg := testConfig()
	cfg.HearingRange = 8
	cfg.OcclusionMuffling = false
	vis := &stubVisibility{}
	p := New(cfg, facingZ, &stubTarget{pos: model.V3(0, 0, 4), noise: 1}, vis)

	s := p.Snapshot(cfg.DetectionRange)

	assert.InDelta(t, 4.0, s.Distance, 1e-9)
	assert.True(t, s.InFOV)
	assert.False(t, s.Occluded)
	assert.True(t, s.Visual)
	assert.True(t, s.Audible)
	assert.Equal(t, model.V3(0, 0, 4), s.HeardAt)
}
