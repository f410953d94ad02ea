package config

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var ErrUnknownPreset = errors.New("unknown preset")

// Presets are applied on top of DefaultConfig; only the changed fields are set.
var Presets = map[string]func(*Config){
	"reference": func(c *Config) {},
	"settling": func(c *Config) {
		c.Physics.Gravity = 0.25
	},
	"crowded": func(c *Config) {
		c.Population = 200
		c.Radius = 8
		c.Cull.Floor = 60
	},
	"sparse": func(c *Config) {
		c.Population = 20
		c.Physics.Speed = 6
		c.Cull.Floor = 5
	},
	"rain": func(c *Config) {
		c.Physics.Gravity = 0.2
		c.Cull.Floor = 0
		c.Cull.Interval = 250 * time.Millisecond
	},
}

func GetPreset(name string) (*Config, error) {
	apply, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, name, ListPresets())
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
