package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/warden/internal/model"
)

// ErrInvalidBehavior is returned by Behavior.Validate for out-of-range values.
var ErrInvalidBehavior = errors.New("invalid behavior config")

// NoiseLevels holds the noise an entity emits per movement mode, in [0, 1].
type NoiseLevels struct {
	Still  float64 `yaml:"still"`
	Crouch float64 `yaml:"crouch"`
	Walk   float64 `yaml:"walk"`
	Run    float64 `yaml:"run"`
}

// RandomEvent parameterizes an optional randomized behavior.
// MinInterval/MaxInterval bound the randomized duration the event uses.
type RandomEvent struct {
	Enabled     bool          `yaml:"enabled"`
	MinInterval time.Duration `yaml:"min_interval"`
	MaxInterval time.Duration `yaml:"max_interval"`
	Probability float64       `yaml:"probability"`
}

// Behavior holds all tunables of one NPC's combat behavior.
// It is read-only once handed to an NPC and shared by every state of that NPC.
type Behavior struct {
	// Sight
	DetectionRange     float64  `yaml:"detection_range"`
	AttackRange        float64  `yaml:"attack_range"`
	FieldOfView        float64  `yaml:"field_of_view"` // degrees, full cone angle
	RequireLineOfSight bool     `yaml:"require_line_of_sight"`
	ObstacleMask       []string `yaml:"obstacle_mask"` // obstacle tags that block sight and sound
	EyeHeight          float64  `yaml:"eye_height"`
	TargetHeight       float64  `yaml:"target_height"`

	// Hearing
	HearingRange         float64     `yaml:"hearing_range"`
	NoiseLevels          NoiseLevels `yaml:"noise_levels"`
	MinAudibleNoise      float64     `yaml:"min_audible_noise"`
	OcclusionMuffling    bool        `yaml:"occlusion_muffling"`
	OcclusionAttenuation float64     `yaml:"occlusion_attenuation"` // multiplier applied when muffled

	// Movement
	WalkSpeed                float64 `yaml:"walk_speed"`
	RunSpeed                 float64 `yaml:"run_speed"`
	WaypointReachedThreshold float64 `yaml:"waypoint_reached_threshold"`
	AttackTurnRate           float64 `yaml:"attack_turn_rate"` // degrees per second

	// Timing
	IdleDuration   time.Duration `yaml:"idle_duration"`
	AttackCooldown time.Duration `yaml:"attack_cooldown"`
	MinStateDwell  time.Duration `yaml:"min_state_dwell"`

	// Hysteresis
	ChaseAttackBuffer float64 `yaml:"chase_attack_buffer"` // Chase→Attack at AttackRange-buffer
	ChaseLoseBuffer   float64 `yaml:"chase_lose_buffer"`   // Chase→Patrol beyond DetectionRange+buffer
	AttackChaseBuffer float64 `yaml:"attack_chase_buffer"` // Attack→Chase beyond AttackRange+buffer
	AttackExitBuffer  float64 `yaml:"attack_exit_buffer"`  // Attack→Patrol beyond DetectionRange+buffer

	// Chase re-pathing
	ChaseRepathInterval time.Duration `yaml:"chase_repath_interval"`
	RepathMinMove       float64       `yaml:"repath_min_move"`

	// Attack positioning
	ShootingDistanceFactor float64 `yaml:"shooting_distance_factor"` // fraction of AttackRange
	TooCloseFactor         float64 `yaml:"too_close_factor"`
	TooFarFactor           float64 `yaml:"too_far_factor"`
	RetreatStep            float64 `yaml:"retreat_step"`

	// Randomized patrol behaviors
	RandomIdle      RandomEvent `yaml:"random_idle"`
	WaypointPause   RandomEvent `yaml:"waypoint_pause"`
	DirectionChange RandomEvent `yaml:"direction_change"`
}

// DefaultBehavior returns Behavior with the tuned defaults.
func DefaultBehavior() Behavior {
	return Behavior{
		DetectionRange:     15,
		AttackRange:        10,
		FieldOfView:        110,
		RequireLineOfSight: true,
		ObstacleMask:       []string{"wall"},
		EyeHeight:          1.6,
		TargetHeight:       1.0,

		HearingRange: 12,
		NoiseLevels: NoiseLevels{
			Still:  0,
			Crouch: 0.2,
			Walk:   0.5,
			Run:    1.0,
		},
		MinAudibleNoise:      0.2,
		OcclusionMuffling:    true,
		OcclusionAttenuation: 0.5,

		WalkSpeed:                2,
		RunSpeed:                 5,
		WaypointReachedThreshold: 0.5,
		AttackTurnRate:           360,

		IdleDuration:   3 * time.Second,
		AttackCooldown: 1500 * time.Millisecond,
		MinStateDwell:  500 * time.Millisecond,

		ChaseAttackBuffer: 0.5,
		ChaseLoseBuffer:   3,
		AttackChaseBuffer: 1,
		AttackExitBuffer:  2,

		ChaseRepathInterval: 250 * time.Millisecond,
		RepathMinMove:       0.25,

		ShootingDistanceFactor: 0.7,
		TooCloseFactor:         0.85,
		TooFarFactor:           1.15,
		RetreatStep:            1,

		RandomIdle: RandomEvent{
			MinInterval: 5 * time.Second,
			MaxInterval: 15 * time.Second,
			Probability: 0.3,
		},
		WaypointPause: RandomEvent{
			MinInterval: 1 * time.Second,
			MaxInterval: 2 * time.Second,
			Probability: 0.25,
		},
		DirectionChange: RandomEvent{
			Probability: 0.1,
		},
	}
}

// ShootingDistance is the preferred engagement distance in Attack.
func (b *Behavior) ShootingDistance() float64 {
	return b.AttackRange * b.ShootingDistanceFactor
}

// ChaseToAttackDistance is the distance at or below which Chase hands over to Attack.
func (b *Behavior) ChaseToAttackDistance() float64 {
	return b.AttackRange - b.ChaseAttackBuffer
}

// AttackToChaseDistance is the distance beyond which Attack falls back to Chase.
func (b *Behavior) AttackToChaseDistance() float64 {
	return b.AttackRange + b.AttackChaseBuffer
}

// NoiseFor returns the configured noise level of a movement mode.
func (n NoiseLevels) NoiseFor(mode model.MovementMode) float64 {
	switch mode {
	case model.MovementCrouch:
		return n.Crouch
	case model.MovementWalk:
		return n.Walk
	case model.MovementRun:
		return n.Run
	default:
		return n.Still
	}
}

// Validate checks value ranges. The returned error wraps ErrInvalidBehavior.
func (b *Behavior) Validate() error {
	nonNegative := []struct {
		name  string
		value float64
	}{
		{"detection_range", b.DetectionRange},
		{"attack_range", b.AttackRange},
		{"eye_height", b.EyeHeight},
		{"target_height", b.TargetHeight},
		{"hearing_range", b.HearingRange},
		{"min_audible_noise", b.MinAudibleNoise},
		{"occlusion_attenuation", b.OcclusionAttenuation},
		{"walk_speed", b.WalkSpeed},
		{"run_speed", b.RunSpeed},
		{"waypoint_reached_threshold", b.WaypointReachedThreshold},
		{"attack_turn_rate", b.AttackTurnRate},
		{"chase_attack_buffer", b.ChaseAttackBuffer},
		{"chase_lose_buffer", b.ChaseLoseBuffer},
		{"attack_chase_buffer", b.AttackChaseBuffer},
		{"attack_exit_buffer", b.AttackExitBuffer},
		{"repath_min_move", b.RepathMinMove},
		{"shooting_distance_factor", b.ShootingDistanceFactor},
		{"too_close_factor", b.TooCloseFactor},
		{"too_far_factor", b.TooFarFactor},
		{"retreat_step", b.RetreatStep},
		{"noise_levels.still", b.NoiseLevels.Still},
		{"noise_levels.crouch", b.NoiseLevels.Crouch},
		{"noise_levels.walk", b.NoiseLevels.Walk},
		{"noise_levels.run", b.NoiseLevels.Run},
	}
	for _, f := range nonNegative {
		if f.value < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %v", ErrInvalidBehavior, f.name, f.value)
		}
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"idle_duration", b.IdleDuration},
		{"attack_cooldown", b.AttackCooldown},
		{"min_state_dwell", b.MinStateDwell},
		{"chase_repath_interval", b.ChaseRepathInterval},
	}
	for _, f := range durations {
		if f.value < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %v", ErrInvalidBehavior, f.name, f.value)
		}
	}

	if b.FieldOfView < 0 || b.FieldOfView > 360 {
		return fmt.Errorf("%w: field_of_view must be in [0, 360], got %v", ErrInvalidBehavior, b.FieldOfView)
	}

	// Entry into Attack must happen strictly closer than exit from it.
	if b.ChaseToAttackDistance() >= b.AttackToChaseDistance() {
		return fmt.Errorf("%w: chase_attack_buffer + attack_chase_buffer must be positive", ErrInvalidBehavior)
	}
	if b.TooCloseFactor > b.TooFarFactor {
		return fmt.Errorf("%w: too_close_factor %v exceeds too_far_factor %v", ErrInvalidBehavior, b.TooCloseFactor, b.TooFarFactor)
	}

	events := []struct {
		name string
		ev   RandomEvent
	}{
		{"random_idle", b.RandomIdle},
		{"waypoint_pause", b.WaypointPause},
		{"direction_change", b.DirectionChange},
	}
	for _, e := range events {
		if e.ev.Probability < 0 || e.ev.Probability > 1 {
			return fmt.Errorf("%w: %s.probability must be in [0, 1], got %v", ErrInvalidBehavior, e.name, e.ev.Probability)
		}
		if e.ev.MinInterval < 0 || e.ev.MaxInterval < e.ev.MinInterval {
			return fmt.Errorf("%w: %s interval [%v, %v] is invalid", ErrInvalidBehavior, e.name, e.ev.MinInterval, e.ev.MaxInterval)
		}
	}

	return nil
}

// ParseBehavior decodes YAML on top of DefaultBehavior and validates the result.
func ParseBehavior(data []byte) (Behavior, error) {
	cfg := DefaultBehavior()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing behavior: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadBehavior loads behavior config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadBehavior(path string) (Behavior, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultBehavior(), nil
		}
		return DefaultBehavior(), fmt.Errorf("reading behavior config %s: %w", path, err)
	}

	cfg, err := ParseBehavior(data)
	if err != nil {
		return cfg, fmt.Errorf("loading behavior config %s: %w", path, err)
	}
	return cfg, nil
}

// MarshalBehavior encodes cfg as YAML (used to persist profiles).
func MarshalBehavior(cfg Behavior) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding behavior: %w", err)
	}
	return data, nil
}
