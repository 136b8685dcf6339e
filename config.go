package voxbody

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultConfigYAML []byte

type Config struct {
	World      WorldConfig           `yaml:"world"`
	Simulation SimulationConfig      `yaml:"simulation"`
	Presets    map[string]BodyPreset `yaml:"presets"`
}

type WorldConfig struct {
	Min       [3]float32 `yaml:"min"`
	Max       [3]float32 `yaml:"max"`
	VoxelSize float32    `yaml:"voxel_size"`
}

type SimulationConfig struct {
	TickRate     float32 `yaml:"tick_rate"` // Hz
	Workers      int     `yaml:"workers"`
	WakeCellSize float32 `yaml:"wake_cell_size"`
}

// BodyPreset is the YAML form of a BodyConfig. Omitted fields fall back to
// DefaultBodyConfig. Fields are pointers so that an explicit 0 reaches
// validation instead of being mistaken for "unset".
type BodyPreset struct {
	Size           *[3]float32 `yaml:"size"`
	Offset         [3]float32  `yaml:"offset"`
	Mass           *float32    `yaml:"mass"`
	Inertia        *float32    `yaml:"inertia"`
	LinearDamping  *float32    `yaml:"linear_damping"`
	AngularDamping *float32    `yaml:"angular_damping"`
	Restitution    *float32    `yaml:"restitution"`
	Friction       *float32    `yaml:"friction"`
	Gravity        *[3]float32 `yaml:"gravity"`
	Orientation    string      `yaml:"orientation"`
}

// BodyConfig converts the preset and validates the result.
func (p BodyPreset) BodyConfig() (BodyConfig, error) {
	cfg := DefaultBodyConfig()
	if p.Size != nil {
		cfg.Size = mgl32.Vec3(*p.Size)
	}
	cfg.Offset = mgl32.Vec3(p.Offset)
	if p.Mass != nil {
		cfg.Mass = *p.Mass
	}
	if p.Inertia != nil {
		cfg.Inertia = *p.Inertia
	}
	if p.LinearDamping != nil {
		cfg.LinearDamping = *p.LinearDamping
	}
	if p.AngularDamping != nil {
		cfg.AngularDamping = *p.AngularDamping
	}
	if p.Restitution != nil {
		cfg.Restitution = *p.Restitution
	}
	if p.Friction != nil {
		cfg.Friction = *p.Friction
	}
	if p.Gravity != nil {
		cfg.Gravity = mgl32.Vec3(*p.Gravity)
	}

	mode, err := ParseOrientMode(p.Orientation)
	if err != nil {
		return cfg, err
	}
	cfg.Orientation = mode

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DefaultConfig returns the embedded configuration.
func DefaultConfig() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfigYAML, &cfg); err != nil {
		panic(fmt.Sprintf("embedded defaults.yaml is invalid: %v", err))
	}
	return cfg
}

// LoadConfig reads a YAML file over the embedded defaults. An empty path
// returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	for i := 0; i < 3; i++ {
		if c.World.Min[i] >= c.World.Max[i] {
			return fmt.Errorf("world bounds are empty on axis %d: %v >= %v", i, c.World.Min[i], c.World.Max[i])
		}
	}
	if c.World.VoxelSize <= 0 {
		return fmt.Errorf("voxel_size must be > 0, got %v", c.World.VoxelSize)
	}
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("tick_rate must be > 0, got %v", c.Simulation.TickRate)
	}
	for _, name := range c.PresetNames() {
		if _, err := c.Presets[name].BodyConfig(); err != nil {
			return fmt.Errorf("preset %q: %w", name, err)
		}
	}
	return nil
}

func (c Config) Bounds() AABB {
	return AABB{Min: mgl32.Vec3(c.World.Min), Max: mgl32.Vec3(c.World.Max)}
}

// Dt is the fixed step length derived from the tick rate.
func (c Config) Dt() float32 {
	return 1.0 / c.Simulation.TickRate
}

func (c Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewWorld builds an empty VoxelWorld covering the configured bounds.
func (c Config) NewWorld() *VoxelWorld {
	return NewVoxelWorld(c.Bounds(), c.World.VoxelSize)
}
