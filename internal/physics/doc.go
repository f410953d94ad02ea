// Package physics implements the per-tick motion rules for circular particles
// inside a rectangular arena.
//
// Particles move in one of three phases:
//
//   - [Bouncing]: constant-speed flight, reflecting off every wall
//   - [Falling]: gravity, air drag and floor friction
//   - [Settled]: frozen; skipped by every routine in this package
//
// [Integrate] advances a single particle; [ResolvePairs] handles the
// pairwise collision response for a whole population.
//
// # Ordering
//
// ResolvePairs visits pairs in ascending index order. An impulse applied to
// one particle changes the outcome of later pairs in the same call, so the
// result depends on slice order and the loop must stay sequential.
package physics
