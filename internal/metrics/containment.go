package metrics

import (
	"github.com/san-kum/pursuit/internal/physics"
	"github.com/san-kum/pursuit/internal/sim"
)

// Containment is the fraction of observed ticks in which every body was
// fully inside the arena.
type Containment struct {
	name       string
	arena      physics.Arena
	violations int
	samples    int
}

func NewContainment(arena physics.Arena) *Containment {
	return &Containment{name: "containment", arena: arena}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(tick int, bodies []sim.Body) {
	c.samples++
	for _, b := range bodies {
		if !c.arena.Contains(b.Pos, b.Radius) {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}

// Counts tallies bodies per phase.
type Counts struct {
	Bouncing int
	Falling  int
	Settled  int
}

func Count(bodies []sim.Body) Counts {
	var c Counts
	for _, b := range bodies {
		switch b.Phase {
		case physics.Bouncing:
			c.Bouncing++
		case physics.Falling:
			c.Falling++
		case physics.Settled:
			c.Settled++
		}
	}
	return c
}

// Defaults returns the metrics every run collects.
func Defaults(s *sim.Simulation) []sim.Metric {
	return []sim.Metric{
		NewEnergy(),
		NewSpeedDrift(s.Params().Speed),
		NewContainment(s.Arena()),
	}
}
