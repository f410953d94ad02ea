package driver

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/pursuit/internal/metrics"
	"github.com/san-kum/pursuit/internal/sim"
	"gonum.org/v1/gonum/stat"
)

// Ensemble runs the same configuration under consecutive seeds, one
// goroutine per run. Each run owns its simulation.
type Ensemble struct {
	cfg       sim.Config
	numRuns   int
	seedStart int64
}

func NewEnsemble(cfg sim.Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart}
}

// Run returns one result per seed in seed order.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	if e.numRuns <= 0 {
		return nil, fmt.Errorf("ensemble needs at least one run, got %d", e.numRuns)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			simCfg := e.cfg
			simCfg.Seed = e.seedStart + int64(idx)

			s, err := sim.New(simCfg)
			if err != nil {
				errs[idx] = err
				return
			}
			loop := New(s)
			for _, m := range metrics.Defaults(s) {
				loop.AddMetric(m)
			}
			results[idx], errs[idx] = loop.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

type Summary struct {
	Runs            int
	MeanFinalLive   float64
	StdFinalLive    float64
	MinFinalLive    int
	MaxFinalLive    int
	MeanSettles     float64
	MeanConversions float64
	MeanCollisions  float64
}

func Summarize(results []*Result) Summary {
	sum := Summary{Runs: len(results)}
	if len(results) == 0 {
		return sum
	}

	live := make([]float64, len(results))
	settles := make([]float64, len(results))
	conversions := make([]float64, len(results))
	collisions := make([]float64, len(results))
	sum.MinFinalLive, sum.MaxFinalLive = results[0].FinalLive, results[0].FinalLive
	for i, r := range results {
		live[i] = float64(r.FinalLive)
		settles[i] = float64(r.Stats.Settles)
		conversions[i] = float64(r.Stats.Conversions)
		collisions[i] = float64(r.Stats.Collisions)
		sum.MinFinalLive = min(sum.MinFinalLive, r.FinalLive)
		sum.MaxFinalLive = max(sum.MaxFinalLive, r.FinalLive)
	}

	if len(results) > 1 {
		sum.MeanFinalLive, sum.StdFinalLive = stat.MeanStdDev(live, nil)
	} else {
		sum.MeanFinalLive = live[0]
	}
	sum.MeanSettles = stat.Mean(settles, nil)
	sum.MeanConversions = stat.Mean(conversions, nil)
	sum.MeanCollisions = stat.Mean(collisions, nil)
	return sum
}
