package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Renormalize rescales v to the given magnitude. A zero vector has no
// direction and is returned unchanged.
func Renormalize(v r2.Vec, speed float64) r2.Vec {
	n := r2.Norm(v)
	if n == 0 {
		return v
	}
	return r2.Scale(speed/n, v)
}

// Integrate advances p by one fixed step. It reports whether p transitioned
// to Settled during this step; the caller owns the live counter.
func Integrate(p *Particle, a Arena, prm Params) bool {
	switch p.Phase {
	case Bouncing:
		bounce(p, a, prm)
	case Falling:
		return fall(p, a, prm)
	}
	return false
}

func bounce(p *Particle, a Arena, prm Params) {
	p.Pos = r2.Add(p.Pos, p.Vel)

	reflected := false
	r := p.Radius
	if p.Pos.X-r <= 0 {
		p.Pos.X = r
		p.Vel.X = math.Abs(p.Vel.X)
		reflected = true
	} else if p.Pos.X+r >= a.Width {
		p.Pos.X = a.Width - r
		p.Vel.X = -math.Abs(p.Vel.X)
		reflected = true
	}
	if p.Pos.Y-r <= 0 {
		p.Pos.Y = r
		p.Vel.Y = math.Abs(p.Vel.Y)
		reflected = true
	} else if p.Pos.Y+r >= a.Height {
		p.Pos.Y = a.Height - r
		p.Vel.Y = -math.Abs(p.Vel.Y)
		reflected = true
	}

	if reflected {
		p.Vel = Renormalize(p.Vel, prm.Speed)
	}
}

func fall(p *Particle, a Arena, prm Params) bool {
	p.Vel.Y += prm.Gravity
	p.Pos.X += p.Vel.X * prm.AirResistance
	p.Pos.Y += p.Vel.Y

	r := p.Radius
	if p.Pos.X-r <= 0 {
		p.Pos.X = r
		p.Vel.X = math.Abs(p.Vel.X)
	} else if p.Pos.X+r >= a.Width {
		p.Pos.X = a.Width - r
		p.Vel.X = -math.Abs(p.Vel.X)
	}
	if p.Pos.Y-r < 0 {
		p.Pos.Y = r
		p.Vel.Y = math.Abs(p.Vel.Y)
	}

	if p.Pos.Y+r < a.Height {
		return false
	}

	p.Pos.Y = a.Height - r
	p.Vel.Y *= -prm.FloorRestitution
	p.Vel.X *= prm.FloorFriction

	if math.Abs(p.Vel.X) < prm.StopThreshold && math.Abs(p.Vel.Y) < prm.StopThreshold {
		p.Phase = Settled
		return true
	}
	return false
}
