package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/pursuit/internal/config"
	"github.com/san-kum/pursuit/internal/driver"
	"github.com/san-kum/pursuit/internal/export"
	"github.com/san-kum/pursuit/internal/metrics"
	"github.com/san-kum/pursuit/internal/sim"
	"github.com/san-kum/pursuit/internal/storage"
	"github.com/san-kum/pursuit/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	configFile  string
	preset      string
	seed        int64
	population  int
	gravity     float64
	speed       float64
	floor       int
	duration    float64
	sampleEvery int
	label       string
	svgOut      string
	logLevel    string
	logFormat   string
	logFile     string
	numRuns     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "pursuit",
		Short:         "bouncing circles that fall, settle and thin out",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pursuit", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to a file instead of stderr")
	simFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store the result",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	simFlags(runCmd)
	runCmd.Flags().Float64Var(&duration, "time", 60, "simulated seconds")
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", driver.DefaultSampleEvery, "ticks per history sample (0 disables)")
	runCmd.Flags().StringVar(&label, "label", "run", "run label")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	simFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the history of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the live-count plot as svg")

	exportCmd := &cobra.Command{
		Use:   "export-svg",
		Short: "run headless and write the final frame as svg",
		Args:  cobra.NoArgs,
		RunE:  exportFrame,
	}
	simFlags(exportCmd)
	exportCmd.Flags().Float64Var(&duration, "time", 10, "simulated seconds")
	exportCmd.Flags().StringVarP(&svgOut, "out", "o", "frame.svg", "output file")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run several seeds in parallel and summarise them",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	simFlags(ensembleCmd)
	ensembleCmd.Flags().Float64Var(&duration, "time", 60, "simulated seconds per run")
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of runs")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, ensembleCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// simFlags registers the flags that shape a simulation. Values only override
// the preset and config file when set explicitly.
func simFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().IntVar(&population, "population", config.DefaultPopulation, "number of circles")
	cmd.Flags().Float64Var(&gravity, "gravity", 0.5, "gravity for falling circles")
	cmd.Flags().Float64Var(&speed, "speed", 4, "speed of bouncing circles")
	cmd.Flags().IntVar(&floor, "floor", config.DefaultCullFloor, "live count below which culling stops")
}

func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg.Clone())
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("population") {
		cfg.Population = population
	}
	if flags.Changed("gravity") {
		cfg.Physics.Gravity = gravity
	}
	if flags.Changed("speed") {
		cfg.Physics.Speed = speed
	}
	if flags.Changed("floor") {
		cfg.Cull.Floor = floor
	}
	// Commands share the duration variable but not its default.
	if f := flags.Lookup("time"); f != nil && (f.Changed || configFile == "") {
		secs := duration
		if !f.Changed {
			secs, _ = strconv.ParseFloat(f.DefValue, 64)
		}
		cfg.Timing.Duration = time.Duration(secs * float64(time.Second))
	}
	if flags.Changed("sample-every") {
		cfg.Timing.SampleEvery = sampleEvery
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", logLevel)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(logFormat) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (text, json)", logFormat)
	}
}

// openLogger returns the command's logger and a closer for its sink. The live
// view owns the terminal, so without a log file it logs nowhere.
func openLogger(live bool) (*slog.Logger, func(), error) {
	if logFile == "" {
		if live {
			return slog.New(slog.DiscardHandler), func() {}, nil
		}
		l, err := newLogger(os.Stderr)
		return l, func() {}, err
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	l, err := newLogger(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return l, func() { f.Close() }, nil
}

func newSimulation(cfg *config.Config, log *slog.Logger) (*sim.Simulation, error) {
	return sim.New(cfg.SimConfig(), sim.WithLogger(log))
}

// headless runs cfg to completion, or until interrupted, on the virtual clock.
func headless(cfg *config.Config, log *slog.Logger) (*sim.Simulation, *driver.Result, error) {
	s, err := newSimulation(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	loop := driver.New(s)
	for _, m := range metrics.Defaults(s) {
		loop.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := loop.Run(ctx, cfg.DriverConfig())
	if err != nil && !errors.Is(err, context.Canceled) {
		return nil, nil, err
	}
	if err != nil {
		log.Warn("run interrupted", "elapsed", res.Elapsed, "ticks", res.Ticks)
	}
	return s, res, nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log, closeLog, err := openLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	log.Info("starting run",
		"population", cfg.Population,
		"gravity", cfg.Physics.Gravity,
		"floor", cfg.Cull.Floor,
		"duration", cfg.Timing.Duration,
		"seed", cfg.Seed,
	)

	start := time.Now()
	_, res, err := headless(cfg, log)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	meta := storage.NewMetadata(label, res)
	meta.Seed = cfg.Seed
	meta.Population = cfg.Population
	meta.CullFloor = cfg.SimConfig().CullFloor
	meta.Gravity = cfg.Physics.Gravity
	meta.Speed = cfg.Physics.Speed

	runID, err := st.Save(meta, res.Samples)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("simulated: %v in %v\n", res.Elapsed, time.Since(start).Round(time.Millisecond))
	fmt.Printf("ticks: %d  cull ticks: %d\n", res.Ticks, res.CullTicks)
	fmt.Printf("live: %d / %d\n", res.FinalLive, cfg.Population)
	fmt.Printf("collisions: %d  conversions: %d  settles: %d\n",
		res.Stats.Collisions, res.Stats.Conversions, res.Stats.Settles)
	for _, name := range []string{"kinetic_energy", "speed_drift", "containment"} {
		if v, ok := res.Metrics[name]; ok {
			fmt.Printf("%s: %.4f\n", name, v)
		}
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log, closeLog, err := openLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := newSimulation(cfg, log)
	if err != nil {
		return err
	}
	return viz.Run(s, viz.Options{
		TickInterval: cfg.Timing.Tick,
		CullInterval: cfg.Cull.Interval,
	})
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPOP\tFLOOR\tGRAVITY\tDURATION\tLIVE\tSETTLED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.2f\t%.1fs\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Population,
			run.CullFloor,
			run.Gravity,
			run.Duration,
			run.FinalLive,
			run.Settles,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	history, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("population: %d  floor: %d  gravity: %.2f\n", meta.Population, meta.CullFloor, meta.Gravity)
	fmt.Printf("samples: %d\n\n", len(history))

	live := make([]float64, len(history))
	energy := make([]float64, len(history))
	for i, s := range history {
		live[i] = float64(s.Live)
		energy[i] = s.KineticEnergy
	}

	fmt.Println(asciigraph.Plot(live,
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.Caption("live circles"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(energy,
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.Caption("kinetic energy"),
	))

	if svgOut != "" {
		svg := export.HistoryToSVG(live, 800, 300, export.Highlight)
		if svg == "" {
			return fmt.Errorf("not enough samples for svg")
		}
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", svgOut)
	}
	return nil
}

func exportFrame(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Timing.SampleEvery = 0

	log, closeLog, err := openLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	s, res, err := headless(cfg, log)
	if err != nil {
		return err
	}

	f, err := os.Create(svgOut)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.WriteSnapshot(f, s.Snapshot(), s.Arena()); err != nil {
		return fmt.Errorf("writing %s: %w", svgOut, err)
	}
	fmt.Printf("wrote %s (tick %d, %d live)\n", svgOut, res.Ticks, res.FinalLive)
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Timing.SampleEvery = 0

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := driver.NewEnsemble(cfg.SimConfig(), numRuns, cfg.Seed).Run(ctx, cfg.DriverConfig())
	if err != nil {
		return err
	}
	sum := driver.Summarize(results)

	fmt.Printf("runs: %d (seeds %d..%d) in %v\n", sum.Runs, cfg.Seed, cfg.Seed+int64(numRuns)-1, time.Since(start).Round(time.Millisecond))
	fmt.Printf("final live: %.2f ± %.2f (min %d, max %d)\n", sum.MeanFinalLive, sum.StdFinalLive, sum.MinFinalLive, sum.MaxFinalLive)
	fmt.Printf("mean settles: %.2f  conversions: %.2f  collisions: %.1f\n", sum.MeanSettles, sum.MeanConversions, sum.MeanCollisions)
	return nil
}
