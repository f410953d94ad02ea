// Package population converts bouncing particles into falling ones on a
// slow cadence until the live population reaches a floor.
package population

import (
	"math/rand"

	"github.com/san-kum/pursuit/internal/physics"
)

// DefaultFloor is the live count at which conversions stop.
const DefaultFloor = 40

type Controller struct {
	floor int
	rng   *rand.Rand
	armed bool
}

func New(floor int, rng *rand.Rand) *Controller {
	return &Controller{floor: floor, rng: rng, armed: true}
}

func (c *Controller) Floor() int { return c.floor }

// Armed reports whether the controller still wants to be scheduled.
func (c *Controller) Armed() bool { return c.armed }

// Rearm restarts the schedule after a population reset.
func (c *Controller) Rearm() { c.armed = true }

// MaybeConvertOne picks a uniformly random Bouncing particle and marks it
// Falling, provided live is above the floor. It returns the converted index
// (or -1) and whether the caller should schedule another call. Once it
// returns false the controller disarms itself until Rearm.
//
// The live count is untouched: only settling removes a particle from it.
func (c *Controller) MaybeConvertOne(ps []physics.Particle, live int) (int, bool) {
	if !c.armed {
		return -1, false
	}
	if live <= c.floor {
		c.armed = false
		return -1, false
	}

	eligible := make([]int, 0, len(ps))
	for i := range ps {
		if ps[i].Phase == physics.Bouncing {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		c.armed = false
		return -1, false
	}

	idx := eligible[c.rng.Intn(len(eligible))]
	ps[idx].Phase = physics.Falling
	return idx, true
}
