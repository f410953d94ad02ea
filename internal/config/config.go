package config

import (
	"fmt"
	"os"
	"time"

	"github.com/san-kum/pursuit/internal/driver"
	"github.com/san-kum/pursuit/internal/physics"
	"github.com/san-kum/pursuit/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPopulation = sim.DefaultPopulation
	DefaultWidth      = sim.DefaultWidth
	DefaultHeight     = sim.DefaultHeight
	DefaultRadius     = sim.DefaultRadius
	DefaultCullFloor  = 40
)

type Config struct {
	Population int           `yaml:"population"`
	Radius     float64       `yaml:"radius"`
	Seed       int64         `yaml:"seed"`
	Arena      ArenaConfig   `yaml:"arena"`
	Physics    PhysicsConfig `yaml:"physics"`
	Cull       CullConfig    `yaml:"cull"`
	Timing     TimingConfig  `yaml:"timing"`
}

type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type PhysicsConfig struct {
	Speed            float64 `yaml:"speed"`
	Gravity          float64 `yaml:"gravity"`
	AirResistance    float64 `yaml:"air_resistance"`
	FloorRestitution float64 `yaml:"floor_restitution"`
	FloorFriction    float64 `yaml:"floor_friction"`
	StopThreshold    float64 `yaml:"stop_threshold"`
	Restitution      float64 `yaml:"restitution"`
}

type CullConfig struct {
	Floor    int           `yaml:"floor"`
	Interval time.Duration `yaml:"interval"`
}

type TimingConfig struct {
	Tick        time.Duration `yaml:"tick"`
	Duration    time.Duration `yaml:"duration"`
	SampleEvery int           `yaml:"sample_every"`
}

func DefaultConfig() *Config {
	prm := physics.DefaultParams()
	return &Config{
		Population: DefaultPopulation,
		Radius:     DefaultRadius,
		Arena: ArenaConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Physics: PhysicsConfig{
			Speed:            prm.Speed,
			Gravity:          prm.Gravity,
			AirResistance:    prm.AirResistance,
			FloorRestitution: prm.FloorRestitution,
			FloorFriction:    prm.FloorFriction,
			StopThreshold:    prm.StopThreshold,
			Restitution:      prm.Restitution,
		},
		Cull: CullConfig{
			Floor:    DefaultCullFloor,
			Interval: driver.DefaultCullInterval,
		},
		Timing: TimingConfig{
			Tick:        driver.DefaultTickInterval,
			Duration:    driver.DefaultDuration,
			SampleEvery: driver.DefaultSampleEvery,
		},
	}
}

// Load reads a YAML file on top of the defaults, so a file only needs the
// keys it changes.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file on top of base, which is modified in place.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// SimConfig converts c for sim.New. A cull floor above the population is
// capped to it, which leaves culling disabled.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Population: c.Population,
		Width:      c.Arena.Width,
		Height:     c.Arena.Height,
		Radius:     c.Radius,
		CullFloor:  min(c.Cull.Floor, c.Population),
		Seed:       c.Seed,
		Physics: physics.Params{
			Speed:            c.Physics.Speed,
			Gravity:          c.Physics.Gravity,
			AirResistance:    c.Physics.AirResistance,
			FloorRestitution: c.Physics.FloorRestitution,
			FloorFriction:    c.Physics.FloorFriction,
			StopThreshold:    c.Physics.StopThreshold,
			Restitution:      c.Physics.Restitution,
		},
	}
}

func (c *Config) DriverConfig() driver.Config {
	return driver.Config{
		TickInterval: c.Timing.Tick,
		CullInterval: c.Cull.Interval,
		Duration:     c.Timing.Duration,
		SampleEvery:  c.Timing.SampleEvery,
	}
}

// Validate checks everything a simulation needs; cadences are checked by
// the driver when a run starts.
func (c *Config) Validate() error {
	return c.SimConfig().Validate()
}
