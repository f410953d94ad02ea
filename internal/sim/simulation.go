package sim

import (
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/pursuit/internal/physics"
	"github.com/san-kum/pursuit/internal/population"
	"gonum.org/v1/gonum/spatial/r2"
)

// Simulation owns a fixed population of particles and advances it one fixed
// step at a time. It is not safe for concurrent use; the driver calling Tick
// and CullTick is responsible for serialising them.
type Simulation struct {
	cfg       Config
	arena     physics.Arena
	particles []physics.Particle
	live      int
	ticks     int
	stats     Stats
	ctrl      *population.Controller
	rng       *rand.Rand
	log       *slog.Logger
	observers []Observer
}

type Option func(*Simulation)

// WithRand supplies the random source used for spawning and culling.
// Without it the source is seeded from Config.Seed.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulation) { s.rng = rng }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) { s.log = l }
}

func WithObserver(o Observer) Option {
	return func(s *Simulation) { s.observers = append(s.observers, o) }
}

// Create builds a simulation with the reference tuning for everything but the
// given parameters.
func Create(population int, width, height, speed, gravity, radius float64, opts ...Option) (*Simulation, error) {
	cfg := DefaultConfig()
	cfg.Population = population
	cfg.Width = width
	cfg.Height = height
	cfg.Physics.Speed = speed
	cfg.Physics.Gravity = gravity
	cfg.Radius = radius
	if cfg.CullFloor > population {
		cfg.CullFloor = population
	}
	return New(cfg, opts...)
}

func New(cfg Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:   cfg,
		arena: physics.Arena{Width: cfg.Width, Height: cfg.Height},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(cfg.Seed))
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	s.ctrl = population.New(cfg.CullFloor, s.rng)
	s.spawn()
	return s, nil
}

func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Tick advances every live particle by one step, resolves collisions and
// notifies observers.
func (s *Simulation) Tick() {
	prm := s.cfg.Physics
	for i := range s.particles {
		p := &s.particles[i]
		if !p.Live() {
			continue
		}
		if physics.Integrate(p, s.arena, prm) {
			s.live--
			s.stats.Settles++
			s.log.Debug("particle settled", "tag", p.Tag, "tick", s.ticks, "live", s.live)
		}
	}

	s.stats.Collisions += physics.ResolvePairs(s.particles, prm)

	// de-penetration may push a centre past a wall
	for i := range s.particles {
		p := &s.particles[i]
		if p.Live() {
			p.Pos = s.arena.Confine(p.Pos, p.Radius)
		}
	}

	s.ticks++

	if len(s.observers) > 0 {
		for _, o := range s.observers {
			o.OnTick(s.ticks, s.Snapshot())
		}
	}
}

// CullTick runs the population controller once and reports whether the
// driver should schedule another call.
func (s *Simulation) CullTick(now time.Time) bool {
	idx, again := s.ctrl.MaybeConvertOne(s.particles, s.live)
	if idx >= 0 {
		s.stats.Conversions++
		s.log.Debug("particle falling",
			"tag", s.particles[idx].Tag,
			"tick", s.ticks,
			"at", now,
		)
	}
	if !again {
		s.log.Debug("culling stopped", "live", s.live, "floor", s.ctrl.Floor())
	}
	return again
}

// Reset discards the population and starts over with a fresh one.
func (s *Simulation) Reset() {
	s.spawn()
	s.ctrl.Rearm()
	s.log.Info("simulation reset", "population", s.cfg.Population)
}

func (s *Simulation) spawn() {
	s.particles = make([]physics.Particle, s.cfg.Population)
	s.live = s.cfg.Population
	s.ticks = 0
	s.stats = Stats{}

	r := s.cfg.Radius
	xlo, xhi := spawnRange(s.cfg.Width, r)
	ylo, yhi := spawnRange(s.cfg.Height, r)
	speed := s.cfg.Physics.Speed
	for i := range s.particles {
		angle := s.rng.Float64() * 2 * math.Pi
		s.particles[i] = physics.Particle{
			Pos: r2.Vec{
				X: xlo + s.rng.Float64()*(xhi-xlo),
				Y: ylo + s.rng.Float64()*(yhi-ylo),
			},
			Vel:    r2.Vec{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed},
			Radius: r,
			Phase:  physics.Bouncing,
			Tag:    i,
		}
	}
}

// spawnRange keeps new particles two radii away from the walls when there is
// room for it.
func spawnRange(extent, r float64) (float64, float64) {
	if extent-4*r >= 0 {
		return 2 * r, extent - 2*r
	}
	return r, extent - r
}

// Snapshot copies the current particle state for rendering.
func (s *Simulation) Snapshot() []Body {
	out := make([]Body, len(s.particles))
	for i, p := range s.particles {
		out[i] = Body{Pos: p.Pos, Vel: p.Vel, Radius: p.Radius, Tag: p.Tag, Phase: p.Phase}
	}
	return out
}

// LiveCount is the number of particles that have not settled.
func (s *Simulation) LiveCount() int { return s.live }

func (s *Simulation) Ticks() int             { return s.ticks }
func (s *Simulation) Stats() Stats           { return s.stats }
func (s *Simulation) Arena() physics.Arena   { return s.arena }
func (s *Simulation) Params() physics.Params { return s.cfg.Physics }
func (s *Simulation) Config() Config         { return s.cfg }
func (s *Simulation) CullArmed() bool        { return s.ctrl.Armed() }
func (s *Simulation) Population() int        { return len(s.particles) }
