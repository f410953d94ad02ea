package metrics

import (
	"math"

	"github.com/san-kum/pursuit/internal/physics"
	"github.com/san-kum/pursuit/internal/sim"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

// KineticEnergy returns the total kinetic energy of the non-settled bodies,
// treating every body as unit mass.
func KineticEnergy(bodies []sim.Body) float64 {
	ke := make([]float64, 0, len(bodies))
	for _, b := range bodies {
		if b.Phase == physics.Settled {
			continue
		}
		v := r2.Norm(b.Vel)
		ke = append(ke, 0.5*v*v)
	}
	return floats.Sum(ke)
}

// MeanSpeed is the mean speed of the non-settled bodies, or 0 if none are left.
func MeanSpeed(bodies []sim.Body) float64 {
	speeds := make([]float64, 0, len(bodies))
	for _, b := range bodies {
		if b.Phase != physics.Settled {
			speeds = append(speeds, r2.Norm(b.Vel))
		}
	}
	if len(speeds) == 0 {
		return 0
	}
	return stat.Mean(speeds, nil)
}

// Energy averages the total kinetic energy over observed ticks.
type Energy struct {
	name    string
	samples int
	total   float64
}

func NewEnergy() *Energy {
	return &Energy{name: "kinetic_energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(tick int, bodies []sim.Body) {
	e.total += KineticEnergy(bodies)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// SpeedDrift tracks the largest deviation of a bouncing body's speed from the
// configured constant.
type SpeedDrift struct {
	name     string
	speed    float64
	maxDrift float64
}

func NewSpeedDrift(speed float64) *SpeedDrift {
	return &SpeedDrift{name: "speed_drift", speed: speed}
}

func (d *SpeedDrift) Name() string { return d.name }

func (d *SpeedDrift) Observe(tick int, bodies []sim.Body) {
	for _, b := range bodies {
		if b.Phase != physics.Bouncing {
			continue
		}
		d.maxDrift = math.Max(d.maxDrift, math.Abs(r2.Norm(b.Vel)-d.speed))
	}
}

func (d *SpeedDrift) Value() float64 { return d.maxDrift }

func (d *SpeedDrift) Reset() { d.maxDrift = 0 }
