package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/akarsh/airbrakesim/internal/airbrakes"
	"github.com/akarsh/airbrakesim/internal/config"
	"github.com/akarsh/airbrakesim/internal/control"
	"github.com/akarsh/airbrakesim/internal/flight"
	"github.com/akarsh/airbrakesim/internal/metrics"
	"github.com/akarsh/airbrakesim/internal/optim"
	"github.com/akarsh/airbrakesim/internal/predict"
	"github.com/akarsh/airbrakesim/internal/sensor"
	"github.com/akarsh/airbrakesim/internal/sim"
	"github.com/akarsh/airbrakesim/internal/storage"
	"github.com/akarsh/airbrakesim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	target     float64
	seed       int64
	verbose    bool

	numRuns int
	window  float64

	tunePoints int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "airbrakesim",
		Short: "air-brake apogee control simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".airbrakesim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scenario config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset scenario")
	rootCmd.PersistentFlags().Float64Var(&target, "target", 0, "override target apogee (m)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", time.Now().UnixNano(), "sensor noise seed")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log diagnostics")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "fly one controlled flight and store the result",
		RunE:  runFlight,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "fly one flight with live terminal visualization",
		RunE:  runLive,
	}

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "fly many noisy flights and report apogee dispersion",
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 50, "number of flights")
	ensembleCmd.Flags().Float64Var(&window, "window", 15, "target window (m)")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid-search PID gains against the target apogee",
		RunE:  tuneGains,
	}
	tuneCmd.Flags().IntVar(&tunePoints, "points", 5, "grid points per gain")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare predictors on the same scenario",
		RunE:  comparePredictors,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print stored run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, ensembleCmd, tuneCmd, compareCmd, listCmd, plotCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if target > 0 {
		cfg.TargetApogee = target
	}
	return cfg, nil
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func buildPredictor(cfg *config.Config) (predict.Predictor, error) {
	switch cfg.Predictor {
	case "closed_form":
		return predict.NewClosedForm(), nil
	case "fixed_step":
		return predict.NewFixedStep(cfg.Numeric.StepSize, cfg.Numeric.MaxIterations)
	case "adaptive":
		return predict.NewAdaptive(cfg.Numeric.Tolerance, cfg.Numeric.InitialStep, cfg.Numeric.MaxIterations)
	default:
		return nil, fmt.Errorf("unknown predictor: %s", cfg.Predictor)
	}
}

func buildLaw(cfg *config.Config) (control.Law, error) {
	switch cfg.Law {
	case "pid":
		pid, err := control.NewPID(cfg.PID.Kp, cfg.PID.Ki, cfg.PID.Kd)
		if err != nil {
			return nil, err
		}
		if cfg.PID.IntegralLimit > 0 {
			pid.IntegralLimit = cfg.PID.IntegralLimit
		}
		pid.FilterTau = cfg.PID.FilterTau
		return pid, nil
	case "bang_bang":
		return control.NewBangBang(cfg.BangBang.Deadband)
	default:
		return nil, fmt.Errorf("unknown control law: %s", cfg.Law)
	}
}

func buildEngine(cfg *config.Config, noiseSeed int64, logger *zap.Logger) (*sim.Engine, error) {
	pred, err := buildPredictor(cfg)
	if err != nil {
		return nil, err
	}
	law, err := buildLaw(cfg)
	if err != nil {
		return nil, err
	}

	ctlCfg := airbrakes.Config{
		TargetApogee:      cfg.TargetApogee,
		Period:            cfg.Period,
		LagTimeConstant:   cfg.LagTimeConstant,
		MaxDeploymentRate: cfg.MaxDeploymentRate,
		ActivationTime:    cfg.ActivationTime,
		LockFloor:         cfg.LockFloor,
		MaxFlightTime:     cfg.MaxTime,
	}
	vehicle := flight.Vehicle{
		DryMass:         cfg.Vehicle.DryMass,
		DragCoefficient: cfg.Vehicle.DragCoefficient,
		ReferenceArea:   cfg.Vehicle.ReferenceArea,
	}
	ctl, err := airbrakes.New(ctlCfg, vehicle, pred, law)
	if err != nil {
		return nil, err
	}
	ctl.SetLogger(logger)

	if cfg.Sensor.AltitudeStd > 0 || cfg.Sensor.VelocityStd > 0 {
		noise, err := sensor.New(cfg.Sensor.AltitudeStd, cfg.Sensor.VelocityStd, noiseSeed)
		if err != nil {
			return nil, err
		}
		ctl.SetSensor(noise)
	}

	motor := flight.Motor{
		Thrust:         cfg.Motor.Thrust,
		BurnTime:       cfg.Motor.BurnTime,
		PropellantMass: cfg.Motor.PropellantMass,
	}
	engine, err := sim.NewEngine(vehicle, motor, flight.NewAtmosphere(), ctl)
	if err != nil {
		return nil, err
	}
	engine.SetLogger(logger)
	engine.AddMetric(metrics.NewApogeeError(cfg.TargetApogee))
	engine.AddMetric(metrics.NewControlEffort())
	engine.AddMetric(metrics.NewSaturation(0.99))
	return engine, nil
}

func runFlight(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()
	defer logger.Sync()

	engine, err := buildEngine(cfg, seed, logger)
	if err != nil {
		return err
	}

	result, err := engine.Run(context.Background(), sim.RunConfig{Dt: cfg.Period, MaxTime: cfg.MaxTime})
	if err != nil {
		return err
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(storage.RunMetadata{
		Predictor:    cfg.Predictor,
		Law:          cfg.Law,
		TargetApogee: cfg.TargetApogee,
		Seed:         seed,
		Dt:           cfg.Period,
	}, result, engine.Controller().History())
	if err != nil {
		return err
	}

	fmt.Printf("run %s\n", runID)
	fmt.Printf("  apogee:       %.1f m (target %.1f m, error %+.1f m)\n",
		result.Apogee, cfg.TargetApogee, result.Apogee-cfg.TargetApogee)
	fmt.Printf("  apogee time:  %.2f s\n", result.ApogeeTime)
	fmt.Printf("  steps:        %d\n", result.Steps)
	for name, value := range result.Metrics {
		fmt.Printf("  %s: %.4f\n", name, value)
	}
	for _, e := range result.Errors {
		fmt.Printf("  warning: %v\n", e)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, err := buildEngine(cfg, seed, newLogger())
	if err != nil {
		return err
	}
	return viz.RunLive(engine, sim.RunConfig{Dt: cfg.Period, MaxTime: cfg.MaxTime}, cfg.TargetApogee)
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()
	defer logger.Sync()

	factory := func(s int64) (*sim.Engine, error) {
		return buildEngine(cfg, s, logger)
	}
	ens := sim.NewEnsemble(numRuns, seed, factory)

	results, err := ens.Run(context.Background(), sim.RunConfig{Dt: cfg.Period, MaxTime: cfg.MaxTime})
	if err != nil {
		return err
	}

	stats := sim.Summarize(results, cfg.TargetApogee, window)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "runs\t%d\n", stats.Runs)
	fmt.Fprintf(w, "target\t%.1f m\n", cfg.TargetApogee)
	fmt.Fprintf(w, "mean apogee\t%.1f m\n", stats.Mean)
	fmt.Fprintf(w, "std\t%.2f m\n", stats.Std)
	fmt.Fprintf(w, "min\t%.1f m\n", stats.Min)
	fmt.Fprintf(w, "max\t%.1f m\n", stats.Max)
	fmt.Fprintf(w, "within +-%.0f m\t%.0f%%\n", window, stats.WithinWindow*100)
	return w.Flush()
}

func tuneGains(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()
	defer logger.Sync()

	build := func(gains map[string]float64) (*sim.Engine, error) {
		trial := *cfg
		trial.PID.Kp = gains["kp"]
		trial.PID.Ki = gains["ki"]
		trial.PID.Kd = gains["kd"]
		return buildEngine(&trial, seed, logger)
	}

	gs := optim.NewGridSearch(
		[]string{"kp", "ki", "kd"},
		[][]float64{
			optim.Linspace(0.01, 0.5, tunePoints),
			optim.Linspace(0, 0.05, tunePoints),
			optim.Linspace(0, 0.1, tunePoints),
		},
	)

	gains, cost, err := gs.Search(context.Background(), build, sim.RunConfig{Dt: cfg.Period, MaxTime: cfg.MaxTime}, cfg.TargetApogee)
	if err != nil {
		return err
	}
	if gains == nil {
		return fmt.Errorf("no gain combination produced a valid flight")
	}

	fmt.Printf("best gains for target %.1f m:\n", cfg.TargetApogee)
	fmt.Printf("  kp: %.4f\n  ki: %.4f\n  kd: %.4f\n", gains["kp"], gains["ki"], gains["kd"])
	fmt.Printf("  apogee error: %.1f m\n", cost)
	return nil
}

func comparePredictors(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()
	defer logger.Sync()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "predictor\tapogee [m]\terror [m]\tmean deployment")

	for _, name := range []string{"closed_form", "fixed_step", "adaptive"} {
		runCfg := *cfg
		runCfg.Predictor = name

		engine, err := buildEngine(&runCfg, seed, logger)
		if err != nil {
			return err
		}
		result, err := engine.Run(context.Background(), sim.RunConfig{Dt: cfg.Period, MaxTime: cfg.MaxTime})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.1f\t%+.1f\t%.3f\n",
			name, result.Apogee, result.Apogee-cfg.TargetApogee, result.Metrics["control_effort"])
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no stored runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\ttimestamp\tpredictor\tlaw\ttarget [m]\tapogee [m]")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f\t%.1f\n",
			r.ID, r.Timestamp.Format(time.RFC3339), r.Predictor, r.Law, r.TargetApogee, r.Apogee)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)

	header, cols, err := store.LoadSeries(args[0], "flight.csv")
	if err != nil {
		return err
	}
	if len(header) < 4 || len(cols[1]) < 2 {
		return fmt.Errorf("run %s has no plottable flight data", args[0])
	}

	fmt.Println(asciigraph.Plot(cols[1],
		asciigraph.Height(15), asciigraph.Width(80),
		asciigraph.Caption("altitude [m]")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(cols[3],
		asciigraph.Height(7), asciigraph.Width(80),
		asciigraph.Caption("deployment [0-1]"),
		asciigraph.LowerBound(0), asciigraph.UpperBound(1)))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
