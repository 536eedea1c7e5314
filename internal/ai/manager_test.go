package ai

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/warden/internal/model"
)

// countingController records lifecycle calls.
type countingController struct {
	starts atomic.Int32
	stops  atomic.Int32
	ticks  atomic.Int32
}

func (c *countingController) Start()                     { c.starts.Add(1) }
func (c *countingController) Stop()                      { c.stops.Add(1) }
func (c *countingController) Tick()                      { c.ticks.Add(1) }
func (c *countingController) CurrentState() model.StateID { return model.StateIdle }

func TestTickManager_DefaultInterval(t *testing.T) {
	assert.Equal(t, DefaultTickInterval, NewTickManager(0).Interval())
	assert.Equal(t, 50*time.Millisecond, NewTickManager(50*time.Millisecond).Interval())
}

func TestTickManager_RegisterUnregister(t *testing.T) {
	mgr := NewTickManager(0)
	h := newHarness(testBehavior(), nil, farAway)

	mgr.Register(1, h.brain)
	require.Equal(t, 1, mgr.Count())

	controller, err := mgr.GetController(1)
	require.NoError(t, err)
	assert.Equal(t, model.StateIdle, controller.CurrentState(), "Register starts the controller")

	mgr.Unregister(1)
	assert.Equal(t, 0, mgr.Count())
	assert.Equal(t, model.StateNone, h.brain.CurrentState(), "Unregister stops the controller")

	_, err = mgr.GetController(1)
	assert.Error(t, err)

	// Unknown IDs are ignored.
	mgr.Unregister(42)
	assert.Equal(t, 0, mgr.Count())
}

func TestTickManager_RegisterReplaces(t *testing.T) {
	mgr := NewTickManager(0)
	first := &countingController{}
	second := &countingController{}

	mgr.Register(7, first)
	mgr.Register(7, second)

	assert.Equal(t, 1, mgr.Count())
	assert.Equal(t, int32(1), first.stops.Load(), "replaced controller is stopped")
	assert.Equal(t, int32(1), second.starts.Load())
}

func TestTickManager_TickOnceStepsWorldFirst(t *testing.T) {
	mgr := NewTickManager(0)
	h := newHarness(testBehavior(), nil, model.V3(0, 0, 10))
	mgr.Register(1, h.brain)

	var order []string
	mgr.SetStepper(func(dt time.Duration) {
		order = append(order, "step")
		h.clock.Advance(dt)
		h.target.pos.Z -= 0.5
	})

	for range 20 {
		mgr.TickOnce(tick)
	}

	assert.Equal(t, uint64(20), mgr.Ticks())
	assert.Len(t, order, 20)
	assert.Equal(t, model.StateAttack, h.brain.CurrentState())
}

func TestTickManager_UnregisterAll(t *testing.T) {
	mgr := NewTickManager(0)
	controllers := []*countingController{{}, {}, {}}
	for i, c := range controllers {
		mgr.Register(uint32(i+1), c)
	}

	seen := 0
	mgr.Each(func(_ uint32, _ Controller) { seen++ })
	require.Equal(t, 3, seen)

	mgr.UnregisterAll()

	assert.Equal(t, 0, mgr.Count())
	for _, c := range controllers {
		assert.Equal(t, int32(1), c.stops.Load())
	}
}

func TestTickManager_Start(t *testing.T) {
	mgr := NewTickManager(10 * time.Millisecond)
	c := &countingController{}
	mgr.Register(1, c)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- mgr.Start(ctx)
	}()

	require.Eventually(t, func() bool {
		return c.ticks.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("tick manager did not stop on context cancel")
	}
}

func TestTickManager_Stop(t *testing.T) {
	mgr := NewTickManager(10 * time.Millisecond)

	done := make(chan error, 1)
	go func() {
		done <- mgr.Start(context.Background())
	}()

	mgr.Stop()
	mgr.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("tick manager did not stop")
	}
}

func TestTickManager_EnqueueRunsBeforeStep(t *testing.T) {
	mgr := NewTickManager(0)
	c := &countingController{}

	var order []string
	mgr.SetStepper(func(time.Duration) { order = append(order, "step") })
	mgr.Enqueue(func() {
		order = append(order, "swap")
		mgr.Register(1, c)
	})

	assert.Equal(t, 0, mgr.Count(), "queued work waits for the tick")

	mgr.TickOnce(tick)
	mgr.TickOnce(tick)

	assert.Equal(t, []string{"swap", "step", "step"}, order)
	assert.Equal(t, int32(2), c.ticks.Load())
}
