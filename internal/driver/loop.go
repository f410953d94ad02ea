package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/pursuit/internal/metrics"
	"github.com/san-kum/pursuit/internal/sim"
)

const (
	DefaultTickInterval = 16 * time.Millisecond
	DefaultCullInterval = time.Second
	DefaultDuration     = 60 * time.Second
	DefaultSampleEvery  = 30

	taskPhysics = "physics"
	taskCull    = "cull"
)

type Config struct {
	TickInterval time.Duration
	CullInterval time.Duration
	Duration     time.Duration
	// SampleEvery records a history sample every n ticks; 0 disables history.
	SampleEvery int
	Start       time.Time
}

func DefaultConfig() Config {
	return Config{
		TickInterval: DefaultTickInterval,
		CullInterval: DefaultCullInterval,
		Duration:     DefaultDuration,
		SampleEvery:  DefaultSampleEvery,
	}
}

// Sample is one row of a run's history.
type Sample struct {
	Tick          int     `csv:"tick" json:"tick"`
	TimeMs        int64   `csv:"time_ms" json:"time_ms"`
	Live          int     `csv:"live" json:"live"`
	Bouncing      int     `csv:"bouncing" json:"bouncing"`
	Falling       int     `csv:"falling" json:"falling"`
	Settled       int     `csv:"settled" json:"settled"`
	KineticEnergy float64 `csv:"kinetic_energy" json:"kinetic_energy"`
	MeanSpeed     float64 `csv:"mean_speed" json:"mean_speed"`
}

type Result struct {
	Samples   []Sample
	Metrics   map[string]float64
	Ticks     int
	CullTicks int
	FinalLive int
	Stats     sim.Stats
	Elapsed   time.Duration
}

// Loop drives one simulation.
type Loop struct {
	sim     *sim.Simulation
	metrics []sim.Metric
}

func New(s *sim.Simulation) *Loop {
	return &Loop{sim: s, metrics: make([]sim.Metric, 0)}
}

func (l *Loop) AddMetric(m sim.Metric) { l.metrics = append(l.metrics, m) }

func (l *Loop) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	for _, m := range l.metrics {
		m.Reset()
	}

	res := &Result{
		Samples: make([]Sample, 0),
		Metrics: make(map[string]float64),
	}

	sched := NewScheduler(cfg.Start)
	if cfg.SampleEvery > 0 {
		res.Samples = append(res.Samples, l.sample(0))
	}

	err := sched.Every(taskPhysics, cfg.TickInterval, func(now time.Time) bool {
		l.sim.Tick()
		res.Ticks++

		if len(l.metrics) > 0 {
			bodies := l.sim.Snapshot()
			for _, m := range l.metrics {
				m.Observe(l.sim.Ticks(), bodies)
			}
		}
		if cfg.SampleEvery > 0 && res.Ticks%cfg.SampleEvery == 0 {
			res.Samples = append(res.Samples, l.sample(sched.Elapsed()))
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	if l.sim.CullArmed() {
		err = sched.Every(taskCull, cfg.CullInterval, func(now time.Time) bool {
			res.CullTicks++
			return l.sim.CullTick(now)
		})
		if err != nil {
			return nil, err
		}
	}

	runErr := sched.RunFor(ctx, cfg.Duration)

	res.Elapsed = sched.Elapsed()
	res.FinalLive = l.sim.LiveCount()
	res.Stats = l.sim.Stats()
	for _, m := range l.metrics {
		res.Metrics[m.Name()] = m.Value()
	}

	if runErr != nil {
		return res, runErr
	}
	return res, nil
}

func (l *Loop) sample(elapsed time.Duration) Sample {
	bodies := l.sim.Snapshot()
	counts := metrics.Count(bodies)
	return Sample{
		Tick:          l.sim.Ticks(),
		TimeMs:        elapsed.Milliseconds(),
		Live:          l.sim.LiveCount(),
		Bouncing:      counts.Bouncing,
		Falling:       counts.Falling,
		Settled:       counts.Settled,
		KineticEnergy: metrics.KineticEnergy(bodies),
		MeanSpeed:     metrics.MeanSpeed(bodies),
	}
}

func validateConfig(cfg Config) error {
	if cfg.TickInterval <= 0 {
		return fmt.Errorf("tick interval %v: %w", cfg.TickInterval, ErrInvalidInterval)
	}
	if cfg.CullInterval <= 0 {
		return fmt.Errorf("cull interval %v: %w", cfg.CullInterval, ErrInvalidInterval)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", cfg.Duration)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("sample interval must not be negative, got %d", cfg.SampleEvery)
	}
	return nil
}
