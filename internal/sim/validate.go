package sim

import "math"

func (c Config) Validate() error {
	switch {
	case c.Population <= 0:
		return &ConfigError{"population", c.Population, "must be positive"}
	case !(c.Radius > 0):
		return &ConfigError{"radius", c.Radius, "must be positive"}
	case !(c.Width > 0) || math.IsInf(c.Width, 0):
		return &ConfigError{"width", c.Width, "must be positive and finite"}
	case !(c.Height > 0) || math.IsInf(c.Height, 0):
		return &ConfigError{"height", c.Height, "must be positive and finite"}
	case c.Width < 2*c.Radius:
		return &ConfigError{"width", c.Width, "narrower than one particle"}
	case c.Height < 2*c.Radius:
		return &ConfigError{"height", c.Height, "shorter than one particle"}
	case c.CullFloor < 0 || c.CullFloor > c.Population:
		return &ConfigError{"cull floor", c.CullFloor, "must be in [0, population]"}
	}

	p := c.Physics
	switch {
	case !(p.Speed > 0) || math.IsInf(p.Speed, 0):
		return &ConfigError{"speed", p.Speed, "must be positive and finite"}
	case !(p.Gravity >= 0) || math.IsInf(p.Gravity, 0):
		return &ConfigError{"gravity", p.Gravity, "must be non-negative and finite"}
	case !unit(p.AirResistance):
		return &ConfigError{"air resistance", p.AirResistance, "must be in [0, 1]"}
	case !unit(p.FloorRestitution):
		return &ConfigError{"floor restitution", p.FloorRestitution, "must be in [0, 1]"}
	case !unit(p.FloorFriction):
		return &ConfigError{"floor friction", p.FloorFriction, "must be in [0, 1]"}
	case !unit(p.Restitution):
		return &ConfigError{"restitution", p.Restitution, "must be in [0, 1]"}
	case !(p.StopThreshold >= 0) || math.IsInf(p.StopThreshold, 0):
		return &ConfigError{"stop threshold", p.StopThreshold, "must be non-negative and finite"}
	}
	return nil
}

func unit(v float64) bool { return v >= 0 && v <= 1 }
