package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/quadsim/internal/config"
	"github.com/san-kum/quadsim/internal/control"
	"github.com/san-kum/quadsim/internal/env"
	"github.com/san-kum/quadsim/internal/metrics"
	"github.com/san-kum/quadsim/internal/storage"
	"github.com/san-kum/quadsim/internal/telemetry"
	"github.com/san-kum/quadsim/internal/viz"
)

var (
	dataDir        string
	configFile     string
	preset         string
	seed           int64
	steps          int
	episodes       int
	controllerName string
	mavlinkAddr    string
	renormalize    bool
	parallel       bool
	frameRate      int
	plotFields     []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "quadsim",
		Short: "quadrotor flight dynamics and geometric control sandbox",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".quadsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run episodes and store the trajectories",
		RunE:  runEpisodes,
	}
	addSessionFlags(runCmd)
	runCmd.Flags().IntVar(&episodes, "episodes", 1, "number of episodes")
	runCmd.Flags().BoolVar(&parallel, "parallel", false, "roll episodes out concurrently on independent sessions")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run one episode with live terminal visualization",
		RunE:  runLive,
	}
	addSessionFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored episodes",
		RunE:  listEpisodes,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [episode_id]",
		Short: "plot stored trajectory columns",
		Args:  cobra.ExactArgs(1),
		RunE:  plotEpisode,
	}
	plotCmd.Flags().StringSliceVar(&plotFields, "fields", []string{"pz", "reward"}, "columns to plot")

	exportCmd := &cobra.Command{
		Use:   "export-json [episode_id]",
		Short: "export a stored episode as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportEpisode,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "named preset configuration")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "step budget per episode")
	cmd.Flags().StringVar(&controllerName, "controller", "geometric", "controller (geometric|hover)")
	cmd.Flags().StringVar(&mavlinkAddr, "mavlink", "", "publish poses to a MAVLink UDP endpoint (host:port)")
	cmd.Flags().BoolVar(&renormalize, "renormalize", false, "renormalize the quaternion after each step")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	// CLI flags override preset and file values.
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("renormalize") {
		cfg.Renormalize = renormalize
	}
	if cmd.Flags().Changed("mavlink") {
		cfg.Mavlink = mavlinkAddr
	}
	if cmd.Flags().Changed("fps") {
		cfg.FrameRate = frameRate
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}

	return cfg, cfg.Validate()
}

func buildEnv(cfg *config.Config, logger *zap.SugaredLogger) (*env.Env, func(), error) {
	params := cfg.Params()

	var ctrl env.Controller
	switch controllerName {
	case "geometric":
		ctrl = control.NewGeometric(cfg.Gains(), params.Gravity)
	case "hover":
		ctrl = control.NewHover(params)
	default:
		return nil, nil, fmt.Errorf("unknown controller: %s", controllerName)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	e := env.New(params, ctrl, cfg.Reference(), rng, env.WithLogger(logger))

	cleanup := func() {}
	if cfg.Mavlink != "" {
		pub, err := telemetry.NewPosePublisher(cfg.Mavlink, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("mavlink publisher: %w", err)
		}
		e.AddObserver(pub)
		cleanup = pub.Close
	}

	return e, cleanup, nil
}

func runEpisodes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	zl, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer zl.Sync()
	logger := zl.Sugar()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	if parallel && episodes > 1 {
		return runParallel(cfg, st)
	}

	e, cleanup, err := buildEnv(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	e.AddMetric(metrics.NewEpisodeReturn())
	e.AddMetric(metrics.NewTrackingError())
	e.AddMetric(metrics.NewControlEffort())

	for i := 0; i < episodes; i++ {
		start := time.Now()
		result, err := env.RunEpisode(context.Background(), e, cfg.Steps)
		if err != nil {
			return err
		}

		id, err := st.Save(controllerName, cfg.Dt, cfg.Seed, result)
		if err != nil {
			return err
		}

		fmt.Printf("episode %d/%d completed in %v\n", i+1, episodes, time.Since(start))
		fmt.Printf("  id: %s\n", id)
		fmt.Printf("  steps: %d  terminated: %v  return: %.4f\n",
			result.StepsTaken, result.Terminated, result.Return)
		for name, val := range result.Metrics {
			fmt.Printf("  %s: %.6f\n", name, val)
		}
	}

	return nil
}

func runParallel(cfg *config.Config, st *storage.Store) error {
	if controllerName != "geometric" && controllerName != "hover" {
		return fmt.Errorf("unknown controller: %s", controllerName)
	}
	params := cfg.Params()

	factory := func(seed int64) *env.Env {
		ctrl := env.Controller(control.NewGeometric(cfg.Gains(), params.Gravity))
		if controllerName == "hover" {
			ctrl = control.NewHover(params)
		}
		e := env.New(params, ctrl, cfg.Reference(), rand.New(rand.NewSource(seed)))
		e.AddMetric(metrics.NewEpisodeReturn())
		e.AddMetric(metrics.NewTrackingError())
		return e
	}

	start := time.Now()
	results, err := env.NewEnsemble(factory, episodes, cfg.Seed, cfg.Steps).Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("%d parallel episodes completed in %v\n", episodes, time.Since(start))
	for i, result := range results {
		id, err := st.Save(controllerName, cfg.Dt, cfg.Seed+int64(i), result)
		if err != nil {
			return err
		}
		fmt.Printf("  %s  steps: %d  return: %.4f  terminated: %v\n",
			id, result.StepsTaken, result.Return, result.Terminated)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	e, cleanup, err := buildEnv(cfg, zap.NewNop().Sugar())
	if err != nil {
		return err
	}
	defer cleanup()

	return viz.Run(viz.NewModel(e, cfg.Steps, cfg.FrameRate))
}

func listEpisodes(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	eps, err := st.List()
	if err != nil {
		return err
	}
	if len(eps) == 0 {
		fmt.Println("no episodes stored")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCONTROLLER\tSTEPS\tRETURN\tTERMINATED\tWHEN")
	for _, ep := range eps {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.3f\t%v\t%s\n",
			ep.ID, ep.Controller, ep.Steps, ep.Return, ep.Terminated,
			ep.Timestamp.Format(time.RFC3339))
	}
	return w.Flush()
}

func plotEpisode(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	rows, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	columns := make(map[string][]float64)
	for i, name := range storage.Columns() {
		series := make([]float64, 0, len(rows))
		for _, row := range rows {
			if i < len(row) {
				series = append(series, row[i])
			}
		}
		columns[name] = series
	}

	fmt.Print(viz.PlotColumns(columns, plotFields, 70, 10))
	return nil
}

func exportEpisode(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rows, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	out := struct {
		Metadata *storage.EpisodeMetadata `json:"metadata"`
		Columns  []string                 `json:"columns"`
		Times    []float64                `json:"times"`
		Rows     [][]float64              `json:"rows"`
	}{meta, storage.Columns(), times, rows}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
