package world

import (
	"math"
	"sync"
	"time"

	"github.com/udisondev/warden/internal/model"
)

// Agent is a kinematic NPC body. It moves in a straight line toward its
// destination at the set speed and faces its direction of travel.
//
// A destination request stays pending for one Step, the way a path query
// would, so callers see HasPendingPath between request and first motion.
//
// Agent implements ai.Navigator, ai.Orientation and perception.Body.
type Agent struct {
	mu sync.RWMutex

	pos     model.Vec3
	forward model.Vec3
	speed   float64

	dest     model.Vec3
	hasPath  bool
	pending  bool
	velocity model.Vec3
}

// NewAgent places an agent at pos facing forward. A zero forward faces +Z.
func NewAgent(pos, forward model.Vec3) *Agent {
	f := forward.Flat().Normalized()
	if f.IsZero() {
		f = model.V3(0, 0, 1)
	}
	return &Agent{pos: pos, forward: f}
}

func (a *Agent) Position() model.Vec3 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pos
}

func (a *Agent) CurrentForward() model.Vec3 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.forward
}

func (a *Agent) SetDestination(p model.Vec3) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dest = p
	a.hasPath = true
	a.pending = true
	a.velocity = model.Vec3{}
}

func (a *Agent) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hasPath = false
	a.pending = false
	a.velocity = model.Vec3{}
}

func (a *Agent) SetSpeed(v float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.speed = max(v, 0)
}

// RemainingDistance is the straight-line distance left on the current path,
// 0 without one.
func (a *Agent) RemainingDistance() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !a.hasPath {
		return 0
	}
	return a.pos.Distance(a.dest)
}

func (a *Agent) HasPendingPath() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pending
}

func (a *Agent) HasActivePath() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.hasPath
}

func (a *Agent) CurrentVelocity() model.Vec3 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.velocity
}

// RotateTowards turns the agent on the ground plane toward dir by at most
// maxDegrees.
func (a *Agent) RotateTowards(dir model.Vec3, maxDegrees float64) {
	want := dir.Flat()
	if want.IsZero() || maxDegrees <= 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	cur := a.forward.Yaw()
	delta := model.NormalizeAngle(want.Yaw() - cur)
	limit := maxDegrees * math.Pi / 180
	delta = math.Max(-limit, math.Min(limit, delta))
	a.forward = model.FromYaw(cur + delta)
}

// Step advances the agent by dt.
func (a *Agent) Step(dt time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.hasPath {
		return
	}
	if a.pending {
		a.pending = false
		return
	}

	toDest := a.dest.Sub(a.pos)
	remaining := toDest.Len()
	travel := a.speed * dt.Seconds()

	if remaining <= travel {
		a.pos = a.dest
		a.hasPath = false
		a.velocity = model.Vec3{}
		return
	}

	dir := toDest.Scale(1 / remaining)
	a.pos = a.pos.Add(dir.Scale(travel))
	a.velocity = dir.Scale(a.speed)
	if f := dir.Flat().Normalized(); !f.IsZero() {
		a.forward = f
	}
}
