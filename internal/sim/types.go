package sim

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/pursuit/internal/physics"
)

const (
	DefaultPopulation = 100
	DefaultWidth      = 780.0
	DefaultHeight     = 450.0
	DefaultRadius     = 10.0
)

// Config describes a population and the arena it lives in.
type Config struct {
	Population int
	Width      float64
	Height     float64
	Radius     float64
	Physics    physics.Params
	CullFloor  int
	Seed       int64
}

func DefaultConfig() Config {
	return Config{
		Population: DefaultPopulation,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Radius:     DefaultRadius,
		Physics:    physics.DefaultParams(),
		CullFloor:  40,
	}
}

// Body is the read-only view of a particle handed to renderers.
type Body struct {
	Pos    r2.Vec
	Vel    r2.Vec
	Radius float64
	Tag    int
	Phase  physics.Phase
}

func (b Body) Falling() bool { return b.Phase == physics.Falling }

// Stats counts events since the last reset.
type Stats struct {
	Collisions  int
	Conversions int
	Settles     int
}

// Observer is notified after every completed tick. The bodies slice is a
// fresh copy owned by the observer.
type Observer interface {
	OnTick(tick int, bodies []Body)
}

// Metric accumulates a scalar over observed ticks.
type Metric interface {
	Name() string
	Observe(tick int, bodies []Body)
	Value() float64
	Reset()
}
