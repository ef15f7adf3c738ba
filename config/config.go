// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Camera      CameraConfig      `yaml:"camera"`
	Noise       NoiseConfig       `yaml:"noise"`
	Geometry    GeometryConfig    `yaml:"geometry"`
	Steering    SteeringConfig    `yaml:"steering"`
	Trail       TrailConfig       `yaml:"trail"`
	Bubbles     BubblesConfig     `yaml:"bubbles"`
	Interaction InteractionConfig `yaml:"interaction"`
	School      SchoolConfig      `yaml:"school"`
	Audio       AudioConfig       `yaml:"audio"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// CameraConfig describes the fixed perspective viewpoint.
type CameraConfig struct {
	Eye    [3]float64 `yaml:"eye"`
	Target [3]float64 `yaml:"target"`
	FovY   float64    `yaml:"fov_y"` // degrees
	Near   float64    `yaml:"near"`
	Far    float64    `yaml:"far"`
}

// NoiseConfig holds the coherent noise seed.
type NoiseConfig struct {
	Seed uint32 `yaml:"seed"` // fixed so visuals are reproducible across runs
}

// GeometryConfig holds point counts and body dimensions for the generators.
type GeometryConfig struct {
	MantlePoints   int `yaml:"mantle_points"`
	EyePoints      int `yaml:"eye_points"` // per eye
	FinPoints      int `yaml:"fin_points"` // per fin
	SkirtPoints    int `yaml:"skirt_points"`
	ShortArmPoints int `yaml:"short_arm_points"` // per arm
	LongArmPoints  int `yaml:"long_arm_points"`  // per arm
	AmbientPoints  int `yaml:"ambient_points"`
	SchoolPoints   int `yaml:"school_points"`

	MantleLength   float64 `yaml:"mantle_length"`
	MantleRadius   float64 `yaml:"mantle_radius"`
	FinWidth       float64 `yaml:"fin_width"`
	SkirtBase      float64 `yaml:"skirt_base"`
	SkirtFlare     float64 `yaml:"skirt_flare"`
	ShortArmLength float64 `yaml:"short_arm_length"`
	LongArmLength  float64 `yaml:"long_arm_length"`

	AmbientExtent [3]float64 `yaml:"ambient_extent"` // half-extents of the ambient box
	SchoolRadius  float64    `yaml:"school_radius"`
}

// SteeringConfig holds locomotion constants.
// Blend factors are per frame at a 60 Hz reference.
type SteeringConfig struct {
	BaseSpeed       float64    `yaml:"base_speed"`
	FarSpeed        float64    `yaml:"far_speed"`
	NearSpeed       float64    `yaml:"near_speed"`
	MidSpeed        float64    `yaml:"mid_speed"`
	FarDistance     float64    `yaml:"far_distance"`
	NearDistance    float64    `yaml:"near_distance"`
	HoverCap        float64    `yaml:"hover_cap"`
	HoverThreshold  float64    `yaml:"hover_threshold"`
	HoverFalloff    float64    `yaml:"hover_falloff"` // NDC distance at which proximity reaches 1
	BurstSpeed      float64    `yaml:"burst_speed"`
	BurstCooldown   float64    `yaml:"burst_cooldown"` // seconds
	BurstChance     float64    `yaml:"burst_chance"`   // per frame
	BurstDuration   float64    `yaml:"burst_duration"` // seconds
	Thrust          float64    `yaml:"thrust"`
	TurnRate        float64    `yaml:"turn_rate"`
	SpeedBlend      float64    `yaml:"speed_blend"`
	VelocityBlend   float64    `yaml:"velocity_blend"`
	HoverBlend      float64    `yaml:"hover_blend"`
	TurnBlend       float64    `yaml:"turn_blend"`
	ArriveDistance  float64    `yaml:"arrive_distance"`
	CloseUpChance   float64    `yaml:"close_up_chance"`
	CloseUpDistance float64    `yaml:"close_up_distance"` // from the viewpoint
	WanderExtent    [3]float64 `yaml:"wander_extent"`     // half-extents of the wander volume
}

// TrailConfig holds ink trail emitter parameters.
type TrailConfig struct {
	Capacity int     `yaml:"capacity"`
	PerFrame int     `yaml:"per_frame"`
	Offset   float64 `yaml:"offset"` // distance behind the creature
	Jitter   float64 `yaml:"jitter"`
	Lifetime float64 `yaml:"lifetime"`
}

// BubblesConfig holds cursor bubble emitter parameters.
type BubblesConfig struct {
	Capacity       int     `yaml:"capacity"`
	MaxPerFrame    int     `yaml:"max_per_frame"`
	SpeedFactor    float64 `yaml:"speed_factor"`    // bubbles per unit/s of pointer speed
	SpeedThreshold float64 `yaml:"speed_threshold"` // units/s
	MinDT          float64 `yaml:"min_dt"`          // below this dt no speed is derived
	Jitter         float64 `yaml:"jitter"`
	Lifetime       float64 `yaml:"lifetime"`
}

// InteractionConfig holds pointer and click parameters.
type InteractionConfig struct {
	HitRadius        float64      `yaml:"hit_radius"`
	PulseDuration    float64      `yaml:"pulse_duration"`
	PulseBlend       float64      `yaml:"pulse_blend"`
	DoubleClickDelay float64      `yaml:"double_click_delay"`
	FollowOnStart    bool         `yaml:"follow_on_start"`
	Palette          [][3]float64 `yaml:"palette"`
}

// SchoolConfig holds roaming school parameters.
type SchoolConfig struct {
	Speed  float64    `yaml:"speed"`  // noise time scale
	Extent [3]float64 `yaml:"extent"` // roaming half-extents
	Seed   int64      `yaml:"seed"`
}

// AudioConfig holds ambient audio parameters.
type AudioConfig struct {
	Enabled      bool    `yaml:"enabled"`
	SampleRate   int     `yaml:"sample_rate"`
	MasterVolume float64 `yaml:"master_volume"`
	BaseFreq     float64 `yaml:"base_freq"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32      float32 // Screen.Width as float32
	ScreenH32      float32 // Screen.Height as float32
	Aspect         float32 // Screen.Width / Screen.Height
	CreaturePoints int     // total creature point count across regions
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the simulation cannot run with.
func (c *Config) validate() error {
	if c.Trail.Capacity <= 0 {
		return fmt.Errorf("trail.capacity must be positive, got %d", c.Trail.Capacity)
	}
	if c.Bubbles.Capacity <= 0 {
		return fmt.Errorf("bubbles.capacity must be positive, got %d", c.Bubbles.Capacity)
	}
	if len(c.Interaction.Palette) < 2 {
		return fmt.Errorf("interaction.palette needs at least 2 colors, got %d", len(c.Interaction.Palette))
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.Aspect = c.Derived.ScreenW32 / c.Derived.ScreenH32

	g := c.Geometry
	c.Derived.CreaturePoints = g.MantlePoints +
		2*g.EyePoints +
		2*g.FinPoints +
		g.SkirtPoints +
		8*g.ShortArmPoints +
		2*g.LongArmPoints
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
