package ai

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTickInterval is the simulation step used when none is configured.
const DefaultTickInterval = 100 * time.Millisecond

// Stepper advances world state (bodies, targets) before controllers tick.
type Stepper func(dt time.Duration)

// TickManager manages AI ticks for all registered NPCs.
// All controllers are ticked from the single goroutine running Start, one
// after another, so a controller never runs concurrently with itself.
type TickManager struct {
	controllers     sync.Map // npcID -> Controller
	interval        time.Duration
	stepper         atomic.Pointer[Stepper]
	ticker          *time.Ticker
	stopCh          chan struct{}
	stopOnce        sync.Once
	controllerCount atomic.Int32
	tickCount       atomic.Uint64

	pendingMu sync.Mutex
	pending   []func()
}

// NewTickManager creates new AI tick manager. interval <= 0 uses DefaultTickInterval.
func NewTickManager(interval time.Duration) *TickManager {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &TickManager{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Interval returns the tick interval.
func (m *TickManager) Interval() time.Duration {
	return m.interval
}

// SetStepper installs the world step run at the start of every tick.
func (m *TickManager) SetStepper(s Stepper) {
	if s == nil {
		m.stepper.Store(nil)
		return
	}
	m.stepper.Store(&s)
}

// Enqueue schedules fn to run on the tick goroutine at the start of the next
// tick, before the stepper. Used to swap controllers while the loop runs.
func (m *TickManager) Enqueue(fn func()) {
	m.pendingMu.Lock()
	m.pending = append(m.pending, fn)
	m.pendingMu.Unlock()
}

// Register registers AI controller for NPC and starts it.
func (m *TickManager) Register(npcID uint32, controller Controller) {
	if prev, loaded := m.controllers.Swap(npcID, controller); loaded {
		prev.(Controller).Stop()
	} else {
		m.controllerCount.Add(1)
	}
	controller.Start()

	slog.Debug("AI controller registered",
		"npcID", npcID,
		"state", controller.CurrentState())
}

// Unregister stops and removes an AI controller.
func (m *TickManager) Unregister(npcID uint32) {
	value, ok := m.controllers.LoadAndDelete(npcID)
	if !ok {
		return
	}

	m.controllerCount.Add(-1)

	controller := value.(Controller)
	controller.Stop()

	slog.Debug("AI controller unregistered", "npcID", npcID)
}

// UnregisterAll stops and removes every controller.
func (m *TickManager) UnregisterAll() {
	m.controllers.Range(func(key, _ any) bool {
		m.Unregister(key.(uint32))
		return true
	})
}

// Start runs the tick loop (blocks until context is canceled or Stop is called).
func (m *TickManager) Start(ctx context.Context) error {
	m.ticker = time.NewTicker(m.interval)
	defer m.ticker.Stop()

	slog.Info("AI tick manager started", "interval", m.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("AI tick manager stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("AI tick manager stopped")
			return nil

		case <-m.ticker.C:
			m.TickOnce(m.interval)
		}
	}
}

// Stop stops the tick loop. Safe to call more than once.
func (m *TickManager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
}

// TickOnce runs queued work, the stepper, then ticks every controller once.
func (m *TickManager) TickOnce(dt time.Duration) {
	m.pendingMu.Lock()
	pending := m.pending
	m.pending = nil
	m.pendingMu.Unlock()
	for _, fn := range pending {
		fn()
	}

	if s := m.stepper.Load(); s != nil {
		(*s)(dt)
	}

	count := 0
	m.controllers.Range(func(_, value any) bool {
		value.(Controller).Tick()
		count++
		return true
	})
	m.tickCount.Add(1)

	if count > 0 && IsDebugEnabled() {
		slog.Debug("AI tick completed", "controllers", count)
	}
}

// Ticks returns the number of completed ticks.
func (m *TickManager) Ticks() uint64 {
	return m.tickCount.Load()
}

// Count returns number of registered controllers (O(1) cached count).
func (m *TickManager) Count() int {
	return int(m.controllerCount.Load())
}

// GetController returns controller for NPC.
func (m *TickManager) GetController(npcID uint32) (Controller, error) {
	value, ok := m.controllers.Load(npcID)
	if !ok {
		return nil, fmt.Errorf("controller not found for npcID %d", npcID)
	}
	return value.(Controller), nil
}

// Each calls fn for every registered controller.
func (m *TickManager) Each(fn func(npcID uint32, c Controller)) {
	m.controllers.Range(func(key, value any) bool {
		fn(key.(uint32), value.(Controller))
		return true
	})
}
