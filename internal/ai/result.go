package ai

import (
	"time"

	"github.com/udisondev/warden/internal/model"
)

// EnterParams is the payload handed to a state's Enter hook.
type EnterParams struct {
	// IdleDuration overrides the configured idle duration for one Idle visit.
	IdleDuration time.Duration
	// LastKnown is where the target was last seen or heard.
	LastKnown    model.Vec3
	HasLastKnown bool
}

// EnterOption customizes EnterParams.
type EnterOption func(*EnterParams)

// WithIdleDuration makes the next Idle visit last d instead of the configured duration.
func WithIdleDuration(d time.Duration) EnterOption {
	return func(p *EnterParams) {
		p.IdleDuration = d
	}
}

// WithLastKnown passes the last perceived target position.
func WithLastKnown(pos model.Vec3) EnterOption {
	return func(p *EnterParams) {
		p.LastKnown = pos
		p.HasLastKnown = true
	}
}

// Result is what a state's Update returns: stay, or a transition request
// that the machine carries out after Update has returned.
type Result struct {
	next model.StateID
	opts []EnterOption
}

// Stay keeps the current state.
func Stay() Result {
	return Result{}
}

// Goto requests a transition to id.
func Goto(id model.StateID, opts ...EnterOption) Result {
	return Result{next: id, opts: opts}
}

// GotoIdleFor requests Idle with an overridden duration.
func GotoIdleFor(d time.Duration) Result {
	return Goto(model.StateIdle, WithIdleDuration(d))
}

// Next returns the requested state, StateNone for Stay.
func (r Result) Next() model.StateID {
	return r.next
}

// IsStay reports whether no transition is requested.
func (r Result) IsStay() bool {
	return r.next == model.StateNone
}

func buildParams(opts []EnterOption) EnterParams {
	var p EnterParams
	for _, o := range opts {
		o(&p)
	}
	return p
}
