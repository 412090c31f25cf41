package engine

import "fmt"

// DefaultPowerUpDuration is the lifetime of a speed power-up in seconds
const DefaultPowerUpDuration = 10.0

// Tuning holds the numeric constants of the simulation. A zero field means
// "use the default" when merged. PowerUpDuration is a pointer so that an
// explicit 0, a power-up that never expires, differs from an unset field.
type Tuning struct {
	TileSize           float64  `json:"tile_size,omitempty" yaml:"tile_size,omitempty"`
	PlayerSpeed        float64  `json:"player_speed,omitempty" yaml:"player_speed,omitempty"`
	RunMultiplier      float64  `json:"run_multiplier,omitempty" yaml:"run_multiplier,omitempty"`
	PlayerSize         float64  `json:"player_size,omitempty" yaml:"player_size,omitempty"`
	SlimeSpeed         float64  `json:"slime_speed,omitempty" yaml:"slime_speed,omitempty"`
	SlimeSize          float64  `json:"slime_size,omitempty" yaml:"slime_size,omitempty"`
	ItemSize           float64  `json:"item_size,omitempty" yaml:"item_size,omitempty"`
	CollisionThreshold float64  `json:"collision_threshold,omitempty" yaml:"collision_threshold,omitempty"`
	DamageCooldown     float64  `json:"damage_cooldown,omitempty" yaml:"damage_cooldown,omitempty"`
	MaxFrameStep       float64  `json:"max_frame_step,omitempty" yaml:"max_frame_step,omitempty"`
	FrameDuration      float64  `json:"frame_duration,omitempty" yaml:"frame_duration,omitempty"`
	AttackDuration     float64  `json:"attack_duration,omitempty" yaml:"attack_duration,omitempty"`
	SpeedBoostFactor   float64  `json:"speed_boost_factor,omitempty" yaml:"speed_boost_factor,omitempty"`
	PowerUpDuration    *float64 `json:"power_up_duration,omitempty" yaml:"power_up_duration,omitempty"`
	StartingHearts     int      `json:"starting_hearts,omitempty" yaml:"starting_hearts,omitempty"`
	MaxHearts          int      `json:"max_hearts,omitempty" yaml:"max_hearts,omitempty"`
	RestartHearts      int      `json:"restart_hearts,omitempty" yaml:"restart_hearts,omitempty"`
}

// DefaultTuning returns the built-in constants
func DefaultTuning() Tuning {
	return Tuning{
		TileSize:           32,
		PlayerSpeed:        100,
		RunMultiplier:      2.0,
		PlayerSize:         24,
		SlimeSpeed:         50,
		SlimeSize:          24,
		ItemSize:           20,
		CollisionThreshold: 32,
		DamageCooldown:     1.0,
		MaxFrameStep:       0.1,
		FrameDuration:      0.1,
		AttackDuration:     0.3,
		SpeedBoostFactor:   1.5,
		PowerUpDuration:    Seconds(DefaultPowerUpDuration),
		StartingHearts:     5,
		MaxHearts:          10,
		RestartHearts:      10,
	}
}

// Merge returns t with every non-zero field of o applied on top
func (t Tuning) Merge(o Tuning) Tuning {
	f := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	i := func(dst *int, v int) {
		if v != 0 {
			*dst = v
		}
	}
	f(&t.TileSize, o.TileSize)
	f(&t.PlayerSpeed, o.PlayerSpeed)
	f(&t.RunMultiplier, o.RunMultiplier)
	f(&t.PlayerSize, o.PlayerSize)
	f(&t.SlimeSpeed, o.SlimeSpeed)
	f(&t.SlimeSize, o.SlimeSize)
	f(&t.ItemSize, o.ItemSize)
	f(&t.CollisionThreshold, o.CollisionThreshold)
	f(&t.DamageCooldown, o.DamageCooldown)
	f(&t.MaxFrameStep, o.MaxFrameStep)
	f(&t.FrameDuration, o.FrameDuration)
	f(&t.AttackDuration, o.AttackDuration)
	f(&t.SpeedBoostFactor, o.SpeedBoostFactor)
	if o.PowerUpDuration != nil {
		t.PowerUpDuration = Seconds(*o.PowerUpDuration)
	}
	i(&t.StartingHearts, o.StartingHearts)
	i(&t.MaxHearts, o.MaxHearts)
	i(&t.RestartHearts, o.RestartHearts)
	return t
}

// Seconds returns a pointer to v, for PowerUpDuration
func Seconds(v float64) *float64 { return &v }

// PowerUpSeconds is the lifetime of a speed power-up; 0 means permanent
func (t Tuning) PowerUpSeconds() float64 {
	if t.PowerUpDuration == nil {
		return DefaultPowerUpDuration
	}
	return *t.PowerUpDuration
}

// Validate rejects negative values and entity sizes larger than a tile
func (t Tuning) Validate() error {
	floats := []struct {
		name string
		v    float64
	}{
		{"tile_size", t.TileSize},
		{"player_speed", t.PlayerSpeed},
		{"run_multiplier", t.RunMultiplier},
		{"player_size", t.PlayerSize},
		{"slime_speed", t.SlimeSpeed},
		{"slime_size", t.SlimeSize},
		{"item_size", t.ItemSize},
		{"collision_threshold", t.CollisionThreshold},
		{"damage_cooldown", t.DamageCooldown},
		{"max_frame_step", t.MaxFrameStep},
		{"frame_duration", t.FrameDuration},
		{"attack_duration", t.AttackDuration},
		{"speed_boost_factor", t.SpeedBoostFactor},
		{"power_up_duration", t.PowerUpSeconds()},
	}
	for _, fv := range floats {
		if fv.v < 0 {
			return fmt.Errorf("tuning.%s must not be negative, got %g", fv.name, fv.v)
		}
	}
	if t.StartingHearts < 0 || t.MaxHearts < 0 || t.RestartHearts < 0 {
		return fmt.Errorf("tuning hearts must not be negative")
	}
	if t.TileSize > 0 {
		for _, s := range []float64{t.PlayerSize, t.SlimeSize, t.ItemSize} {
			if s > t.TileSize {
				return fmt.Errorf("tuning: entity size %g exceeds tile_size %g", s, t.TileSize)
			}
		}
	}
	if t.MaxHearts > 0 && t.StartingHearts > t.MaxHearts {
		return fmt.Errorf("tuning: starting_hearts %d exceeds max_hearts %d", t.StartingHearts, t.MaxHearts)
	}
	return nil
}
