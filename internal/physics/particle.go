package physics

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// Phase is the lifecycle stage of a particle.
type Phase uint8

const (
	Bouncing Phase = iota
	Falling
	Settled
)

func (p Phase) String() string {
	switch p {
	case Bouncing:
		return "bouncing"
	case Falling:
		return "falling"
	case Settled:
		return "settled"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Particle is a circular body. Vel is a per-tick displacement.
type Particle struct {
	Pos    r2.Vec
	Vel    r2.Vec
	Radius float64
	Phase  Phase
	// Tag identifies the particle to renderers; the simulation never reads it.
	Tag int
}

func (p *Particle) Live() bool { return p.Phase != Settled }

func (p *Particle) Speed() float64 { return r2.Norm(p.Vel) }

// Arena is the rectangle [0, Width] x [0, Height]; y grows downwards.
type Arena struct {
	Width  float64
	Height float64
}

// Contains reports whether a circle of radius r centred at pos lies fully
// inside the arena.
func (a Arena) Contains(pos r2.Vec, r float64) bool {
	return pos.X >= r && pos.X <= a.Width-r && pos.Y >= r && pos.Y <= a.Height-r
}

// Confine clamps pos so that a circle of radius r fits inside the arena.
func (a Arena) Confine(pos r2.Vec, r float64) r2.Vec {
	return r2.Vec{
		X: clamp(pos.X, r, a.Width-r),
		Y: clamp(pos.Y, r, a.Height-r),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
