package model

// Route is an ordered, fixed patrol route. It is built once and only indexed
// afterwards; NewRoute copies its input so callers cannot mutate it.
type Route struct {
	points []Vec3
}

// NewRoute creates a Route from the given waypoints.
func NewRoute(points []Vec3) Route {
	cp := make([]Vec3, len(points))
	copy(cp, points)
	return Route{points: cp}
}

// Len returns the number of waypoints.
func (r Route) Len() int {
	return len(r.points)
}

// Empty reports whether the route has no waypoints.
func (r Route) Empty() bool {
	return len(r.points) == 0
}

// At returns waypoint i. ok is false when i is out of range.
func (r Route) At(i int) (Vec3, bool) {
	if i < 0 || i >= len(r.points) {
		return Vec3{}, false
	}
	return r.points[i], true
}

// Points returns a copy of the waypoints.
func (r Route) Points() []Vec3 {
	cp := make([]Vec3, len(r.points))
	copy(cp, r.points)
	return cp
}
