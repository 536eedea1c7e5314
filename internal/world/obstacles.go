package world

import (
	"math"
	"sync"

	"github.com/solarlune/resolv"

	"github.com/udisondev/warden/internal/model"
)

// DefaultClearance is the distance before the target that occlusion ignores.
const DefaultClearance = 0.1

// parallelEps treats a segment axis as parallel to a box face.
const parallelEps = 1e-12

// Bounds is the ground-plane extent covered by an obstacle space.
type Bounds struct {
	MinX float64 `yaml:"min_x"`
	MinZ float64 `yaml:"min_z"`
	MaxX float64 `yaml:"max_x"`
	MaxZ float64 `yaml:"max_z"`
}

// Box is an axis-aligned obstacle. Min/Max are opposite corners in world space.
type Box struct {
	Min  model.Vec3 `yaml:"min"`
	Max  model.Vec3 `yaml:"max"`
	Tags []string   `yaml:"tags"`
}

// extent is the exact world-space box behind a resolv object. The object
// itself is padded so resolv registers it in every grid cell it touches.
type extent struct {
	lo, hi model.Vec3
}

// Obstacles is a static set of tagged boxes answering occlusion queries.
// The ground plane X/Z maps to the resolv space X/Y with one unit cells; the
// grid is the broad phase, exact box extents are the narrow phase.
type Obstacles struct {
	mu        sync.RWMutex
	space     *resolv.Space
	origin    model.Vec3
	extents   map[*resolv.Object]extent
	clearance float64
}

// NewObstacles creates an empty obstacle space covering b.
func NewObstacles(b Bounds) *Obstacles {
	w := int(math.Ceil(b.MaxX-b.MinX)) + 1
	h := int(math.Ceil(b.MaxZ-b.MinZ)) + 1
	return &Obstacles{
		space:     resolv.NewSpace(w, h, 1, 1),
		origin:    model.V3(b.MinX, 0, b.MinZ),
		extents:   make(map[*resolv.Object]extent),
		clearance: DefaultClearance,
	}
}

// SetClearance changes how far short of the target the segment is tested.
// Negative values are ignored.
func (o *Obstacles) SetClearance(c float64) {
	if c < 0 {
		return
	}
	o.mu.Lock()
	o.clearance = c
	o.mu.Unlock()
}

// AddBox inserts an obstacle. Parts of the box outside the bounds are never
// found by occlusion queries.
func (o *Obstacles) AddBox(b Box) {
	lo := model.V3(min(b.Min.X, b.Max.X), min(b.Min.Y, b.Max.Y), min(b.Min.Z, b.Max.Z))
	hi := model.V3(max(b.Min.X, b.Max.X), max(b.Min.Y, b.Max.Y), max(b.Min.Z, b.Max.Z))

	x, y := lo.X-o.origin.X, lo.Z-o.origin.Z
	// resolv covers cells floor(x)..floor(x+w-1); one extra unit reaches the far edge.
	w, h := hi.X-lo.X+1, hi.Z-lo.Z+1

	obj := resolv.NewObject(x, y, w, h, b.Tags...)
	obj.SetShape(resolv.NewRectangle(0, 0, w, h))

	o.mu.Lock()
	defer o.mu.Unlock()
	o.space.Add(obj)
	o.extents[obj] = extent{lo: lo, hi: hi}
}

// Len returns the number of obstacles.
func (o *Obstacles) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.extents)
}

// TestOcclusion reports whether an obstacle carrying any of the mask tags
// intersects the segment from->to. The segment is tested exactly, whatever the
// obstacle thickness, and ends clearance short of to so a target standing
// against a wall is not hidden by it. An empty mask matches every obstacle.
func (o *Obstacles) TestOcclusion(from, to model.Vec3, mask []string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()

	delta := to.Sub(from)
	dist := delta.Len()
	if dist == 0 || dist <= o.clearance {
		return false
	}
	end := 1 - o.clearance/dist

	for _, obj := range o.candidates(from, from.Add(delta.Scale(end))) {
		if len(mask) > 0 && !obj.HasTags(mask...) {
			continue
		}
		ext := o.extents[obj]
		if segmentHitsBox(from, delta, end, ext.lo, ext.hi) {
			return true
		}
	}
	return false
}

// candidates collects the objects registered in grid cells overlapped by the
// ground-plane bounding rectangle of a→b.
func (o *Obstacles) candidates(a, b model.Vec3) []*resolv.Object {
	cx0, cy0 := o.space.WorldToSpace(min(a.X, b.X)-o.origin.X, min(a.Z, b.Z)-o.origin.Z)
	cx1, cy1 := o.space.WorldToSpace(max(a.X, b.X)-o.origin.X, max(a.Z, b.Z)-o.origin.Z)
	cx0, cy0 = max(cx0, 0), max(cy0, 0)
	cx1, cy1 = min(cx1, o.space.Width()-1), min(cy1, o.space.Height()-1)

	seen := make(map[*resolv.Object]struct{})
	var out []*resolv.Object
	for cy := cy0; cy <= cy1; cy++ {
		for cx := cx0; cx <= cx1; cx++ {
			cell := o.space.Cell(cx, cy)
			if cell == nil {
				continue
			}
			for _, obj := range cell.Objects {
				if _, ok := seen[obj]; ok {
					continue
				}
				seen[obj] = struct{}{}
				out = append(out, obj)
			}
		}
	}
	return out
}

// segmentHitsBox clips from+t*delta, t in [0,end], against the box slabs.
func segmentHitsBox(from, delta model.Vec3, end float64, lo, hi model.Vec3) bool {
	origin := [3]float64{from.X, from.Y, from.Z}
	dir := [3]float64{delta.X, delta.Y, delta.Z}
	boxLo := [3]float64{lo.X, lo.Y, lo.Z}
	boxHi := [3]float64{hi.X, hi.Y, hi.Z}

	tMin, tMax := 0.0, end
	for axis := range 3 {
		if math.Abs(dir[axis]) < parallelEps {
			if origin[axis] < boxLo[axis] || origin[axis] > boxHi[axis] {
				return false
			}
			continue
		}
		t1 := (boxLo[axis] - origin[axis]) / dir[axis]
		t2 := (boxHi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = max(tMin, t1)
		tMax = min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}
	return true
}
