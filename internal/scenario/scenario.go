// Package scenario loads simulation setups (NPCs, obstacles, target script)
// from YAML and builds runnable sessions from them.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/warden/internal/model"
	"github.com/udisondev/warden/internal/world"
)

// ErrInvalidScenario is returned for structurally invalid scenario files.
var ErrInvalidScenario = errors.New("invalid scenario")

// defaultBounds is used when the file does not set bounds.
var defaultBounds = world.Bounds{MinX: -100, MinZ: -100, MaxX: 100, MaxZ: 100}

// Scenario describes one simulation setup.
type Scenario struct {
	Name      string       `yaml:"name"`
	Bounds    world.Bounds `yaml:"bounds"`
	Clearance float64      `yaml:"clearance"` // occlusion gap kept before the target
	Obstacles []world.Box  `yaml:"obstacles"`
	NPCs      []NPCSpec    `yaml:"npcs"`
	Target    TargetSpec   `yaml:"target"`
}

// NPCSpec places one NPC.
type NPCSpec struct {
	Name     string       `yaml:"name"`
	Position model.Vec3   `yaml:"position"`
	Forward  model.Vec3   `yaml:"forward"`
	Route    []model.Vec3 `yaml:"route"`
}

// TargetSpec scripts the target.
type TargetSpec struct {
	Start model.Vec3  `yaml:"start"`
	Loop  bool        `yaml:"loop"`
	Legs  []world.Leg `yaml:"legs"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading scenario %s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if sc.Bounds == (world.Bounds{}) {
		sc.Bounds = defaultBounds
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the scenario for structural errors.
func (s *Scenario) Validate() error {
	if s.Bounds.MaxX <= s.Bounds.MinX || s.Bounds.MaxZ <= s.Bounds.MinZ {
		return fmt.Errorf("%w: bounds are empty", ErrInvalidScenario)
	}
	if s.Clearance < 0 {
		return fmt.Errorf("%w: clearance must be non-negative", ErrInvalidScenario)
	}
	if len(s.NPCs) == 0 {
		return fmt.Errorf("%w: no npcs", ErrInvalidScenario)
	}

	seen := make(map[string]struct{}, len(s.NPCs))
	for i, npc := range s.NPCs {
		if npc.Name == "" {
			return fmt.Errorf("%w: npc #%d has no name", ErrInvalidScenario, i)
		}
		if _, dup := seen[npc.Name]; dup {
			return fmt.Errorf("%w: duplicate npc name %q", ErrInvalidScenario, npc.Name)
		}
		seen[npc.Name] = struct{}{}
	}

	for i, box := range s.Obstacles {
		if max(box.Min.X, box.Max.X) < s.Bounds.MinX || min(box.Min.X, box.Max.X) > s.Bounds.MaxX ||
			max(box.Min.Z, box.Max.Z) < s.Bounds.MinZ || min(box.Min.Z, box.Max.Z) > s.Bounds.MaxZ {
			return fmt.Errorf("%w: obstacle #%d lies outside bounds", ErrInvalidScenario, i)
		}
	}

	for i, leg := range s.Target.Legs {
		if leg.Speed < 0 || leg.Wait < 0 {
			return fmt.Errorf("%w: target leg #%d has negative speed or wait", ErrInvalidScenario, i)
		}
	}
	return nil
}
