package ai

import (
	"time"

	"github.com/udisondev/warden/internal/config"
	"github.com/udisondev/warden/internal/model"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// fixedRand always returns v.
type fixedRand struct {
	v float64
}

func (r fixedRand) Float64() float64 { return r.v }

// fakeBody implements Navigator, Orientation and perception.Body.
// It never moves on its own; tests teleport it or call arrive.
type fakeBody struct {
	pos     model.Vec3
	forward model.Vec3

	dest       model.Vec3
	hasPath    bool
	pending    bool
	speed      float64
	velocity   model.Vec3
	setDests   []model.Vec3
	stops      int
	rotations  []float64
	lastFacing model.Vec3
}

func newFakeBody(pos, forward model.Vec3) *fakeBody {
	return &fakeBody{pos: pos, forward: forward}
}

func (b *fakeBody) Position() model.Vec3       { return b.pos }
func (b *fakeBody) CurrentForward() model.Vec3 { return b.forward }

func (b *fakeBody) SetDestination(p model.Vec3) {
	b.dest = p
	b.hasPath = true
	b.setDests = append(b.setDests, p)
	b.velocity = p.Sub(b.pos).Normalized().Scale(b.speed)
}

func (b *fakeBody) Stop() {
	b.hasPath = false
	b.velocity = model.Vec3{}
	b.stops++
}

func (b *fakeBody) SetSpeed(v float64) { b.speed = v }

func (b *fakeBody) RemainingDistance() float64 {
	if !b.hasPath {
		return 0
	}
	return b.pos.Distance(b.dest)
}

func (b *fakeBody) HasPendingPath() bool        { return b.pending }
func (b *fakeBody) HasActivePath() bool         { return b.hasPath }
func (b *fakeBody) CurrentVelocity() model.Vec3 { return b.velocity }

func (b *fakeBody) RotateTowards(dir model.Vec3, maxDegrees float64) {
	b.rotations = append(b.rotations, maxDegrees)
	b.lastFacing = dir
}

// arrive puts the body on its destination and clears the path.
func (b *fakeBody) arrive() {
	if b.hasPath {
		b.pos = b.dest
	}
	b.hasPath = false
	b.velocity = model.Vec3{}
}

type fakeTarget struct {
	pos   model.Vec3
	noise float64
}

func (t *fakeTarget) CurrentPosition() model.Vec3 { return t.pos }
func (t *fakeTarget) CurrentNoiseLevel() float64  { return t.noise }

// fakeVisibility blocks every query when blocked is set and counts calls.
type fakeVisibility struct {
	blocked bool
	calls   int
}

func (v *fakeVisibility) TestOcclusion(_, _ model.Vec3, _ []string) bool {
	v.calls++
	return v.blocked
}

type fakeAnimator struct {
	attacks int
	speeds  []float64
}

func (a *fakeAnimator) SetMovementSpeedParameter(v float64) { a.speeds = append(a.speeds, v) }
func (a *fakeAnimator) TriggerAttackEffect()                { a.attacks++ }

// harness wires a Brain to fakes. The NPC stands at the origin facing +Z.
type harness struct {
	cfg    *config.Behavior
	clock  *fakeClock
	body   *fakeBody
	target *fakeTarget
	vis    *fakeVisibility
	anim   *fakeAnimator
	brain  *Brain
}

func testBehavior() config.Behavior {
	cfg := config.DefaultBehavior()
	cfg.DetectionRange = 5
	cfg.AttackRange = 2
	cfg.FieldOfView = 90
	cfg.HearingRange = 0
	cfg.MinStateDwell = 500 * time.Millisecond
	cfg.IdleDuration = 2 * time.Second
	cfg.RandomIdle.Enabled = false
	cfg.WaypointPause.Enabled = false
	cfg.DirectionChange.Enabled = false
	return cfg
}

func newHarness(cfg config.Behavior, route []model.Vec3, targetPos model.Vec3) *harness {
	h := &harness{
		cfg:    &cfg,
		clock:  newFakeClock(),
		body:   newFakeBody(model.Vec3{}, model.V3(0, 0, 1)),
		target: &fakeTarget{pos: targetPos},
		vis:    &fakeVisibility{},
		anim:   &fakeAnimator{},
	}
	h.brain = NewBrain("test-npc", h.cfg, model.NewRoute(route), Deps{
		Body:        h.body,
		Navigator:   h.body,
		Orientation: h.body,
		Animator:    h.anim,
		Visibility:  h.vis,
		Target:      h.target,
		Clock:       h.clock,
		Rand:        fixedRand{v: 0.5},
	})
	return h
}

// step advances the clock by dt and ticks once.
func (h *harness) step(dt time.Duration) {
	h.clock.Advance(dt)
	h.brain.Tick()
}

// enter starts the brain and forces state id.
func (h *harness) enter(id model.StateID) {
	h.brain.Start()
	if id != model.StateIdle {
		if err := h.brain.Machine().Transition(id); err != nil {
			panic(err)
		}
	}
}
