package physics

const (
	DefaultSpeed            = 4.0
	DefaultGravity          = 0.5
	DefaultAirResistance    = 0.99
	DefaultFloorRestitution = 0.5
	DefaultFloorFriction    = 0.8
	DefaultStopThreshold    = 0.1
	DefaultRestitution      = 1.0
)

// Params holds the motion constants shared by every particle.
type Params struct {
	// Speed is the fixed magnitude of a bouncing particle's velocity.
	Speed float64
	// Gravity is added to a falling particle's vertical velocity each tick.
	Gravity float64
	// AirResistance scales the horizontal displacement of falling particles.
	AirResistance float64
	// FloorRestitution is the fraction of vertical speed kept on a floor bounce.
	FloorRestitution float64
	// FloorFriction scales horizontal velocity on a floor bounce.
	FloorFriction float64
	// StopThreshold is the per-axis speed under which a bounce settles.
	StopThreshold float64
	// Restitution is the particle-particle coefficient; 1 is perfectly elastic.
	Restitution float64
}

func DefaultParams() Params {
	return Params{
		Speed:            DefaultSpeed,
		Gravity:          DefaultGravity,
		AirResistance:    DefaultAirResistance,
		FloorRestitution: DefaultFloorRestitution,
		FloorFriction:    DefaultFloorFriction,
		StopThreshold:    DefaultStopThreshold,
		Restitution:      DefaultRestitution,
	}
}
