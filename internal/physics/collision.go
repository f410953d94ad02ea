package physics

import "gonum.org/v1/gonum/spatial/r2"

// ResolvePairs applies elastic collision response to every overlapping,
// approaching pair of live particles and returns how many pairs it resolved.
//
// Falling particles receive no impulse but still take their half of the
// positional correction. Pairs that overlap while already separating are left
// untouched, including their overlap.
func ResolvePairs(ps []Particle, prm Params) int {
	resolved := 0
	for i := 0; i < len(ps); i++ {
		if !ps[i].Live() {
			continue
		}
		for j := i + 1; j < len(ps); j++ {
			if !ps[j].Live() {
				continue
			}
			if resolve(&ps[i], &ps[j], prm) {
				resolved++
			}
		}
	}
	return resolved
}

func resolve(a, b *Particle, prm Params) bool {
	delta := r2.Sub(a.Pos, b.Pos)
	d := r2.Norm(delta)
	reach := a.Radius + b.Radius
	if d == 0 || d >= reach {
		return false
	}

	n := r2.Scale(1/d, delta)
	vn := r2.Dot(r2.Sub(a.Vel, b.Vel), n)
	if vn > 0 {
		return false
	}

	j := -(1 + prm.Restitution) * vn
	impulse := r2.Scale(j, n)
	if a.Phase != Falling {
		a.Vel = Renormalize(r2.Add(a.Vel, impulse), prm.Speed)
	}
	if b.Phase != Falling {
		b.Vel = Renormalize(r2.Sub(b.Vel, impulse), prm.Speed)
	}

	overlap := (reach - d) / 2
	if overlap > 0 {
		shift := r2.Scale(overlap, n)
		a.Pos = r2.Add(a.Pos, shift)
		b.Pos = r2.Sub(b.Pos, shift)
	}
	return true
}
