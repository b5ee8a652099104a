package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/rowsim/internal/analysis"
	"github.com/san-kum/rowsim/internal/config"
	"github.com/san-kum/rowsim/internal/metrics"
	"github.com/san-kum/rowsim/internal/rowstate"
	"github.com/san-kum/rowsim/internal/sim"
	"github.com/san-kum/rowsim/internal/storage"
	"github.com/san-kum/rowsim/internal/tui"
)

var (
	steps       int
	preset      string
	live        bool
	frameRate   int
	save        bool
	runName     string
	metricNames []string
	panelIndex  int
	outPath     string
	xRow        string
	yRow        string
	cycleLimit  int
)

func runCommands() []*cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "tick every panel headlessly and report metrics",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&steps, "steps", 100, "number of ticks")
	runCmd.Flags().StringVar(&preset, "preset", "", "use a preset panel layout")
	runCmd.Flags().BoolVar(&live, "live", false, "print every tick at the autoplay interval")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --live")
	runCmd.Flags().BoolVar(&save, "save", true, "store the run in the data directory")
	runCmd.Flags().StringVar(&runName, "name", "", "run name")
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to collect (default all)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot row positions of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&panelIndex, "panel", 0, "panel index")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outPath, "out", "", "output file (default <run_id>.json)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "row statistics and phase portrait of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&panelIndex, "panel", 0, "panel index")
	analyzeCmd.Flags().StringVar(&xRow, "x-row", "top", "row on the x axis")
	analyzeCmd.Flags().StringVar(&yRow, "y-row", "mid", "row on the y axis")

	cycleCmd := &cobra.Command{
		Use:   "cycle",
		Short: "find where each configured panel becomes periodic",
		Args:  cobra.NoArgs,
		RunE:  findCycles,
	}
	cycleCmd.Flags().StringVar(&preset, "preset", "", "use a preset panel layout")
	cycleCmd.Flags().IntVar(&cycleLimit, "limit", 10000, "maximum ticks to search")

	return []*cobra.Command{runCmd, listCmd, plotCmd, exportJSONCmd, analyzeCmd, cycleCmd}
}

func applyPreset() error {
	if preset == "" {
		return nil
	}
	if !cfg.ApplyPreset(preset) {
		return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	return nil
}

func sessionOptions() ([]sim.Option, error) {
	if len(metricNames) == 0 {
		var opts []sim.Option
		for _, m := range metrics.Default() {
			opts = append(opts, sim.WithMetric(m))
		}
		return opts, nil
	}
	opts := make([]sim.Option, 0, len(metricNames))
	for _, name := range metricNames {
		m, err := metrics.New(name)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sim.WithMetric(m))
	}
	return opts, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	if err := applyPreset(); err != nil {
		return err
	}
	sc, err := cfg.Session()
	if err != nil {
		return err
	}
	opts, err := sessionOptions()
	if err != nil {
		return err
	}

	var renderer *tui.LiveRenderer
	if live {
		names := make([]string, len(sc.Panels))
		for i, p := range sc.Panels {
			names[i] = p.Name
		}
		renderer = tui.NewLiveRenderer(os.Stdout, names, frameRate)
		opts = append(opts, sim.WithObserver(renderer))
	}

	s := sim.NewSession(sc, opts...)
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("running", "panels", len(sc.Panels), "steps", steps, "live", live)
	start := time.Now()

	var result *sim.Result
	if renderer != nil {
		renderer.Start()
		result, err = s.RunPaced(ctx, steps, cfg.Interval())
		renderer.Stop()
	} else {
		result, err = s.Run(ctx, steps)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if result == nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed %d ticks in %v\n", result.Ticks, elapsed)
	for i, st := range result.Final() {
		fmt.Printf("  %-10s %s\n", result.Panels[i], st)
	}
	fmt.Printf("panels agree: %v\n", result.Matches[len(result.Matches)-1])

	if save {
		st := storage.New(cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		name := runName
		if name == "" {
			name = preset
		}
		runID, err := st.Save(storage.RunMetadata{
			Name:       name,
			Ticks:      result.Ticks,
			IntervalMS: cfg.Autoplay.IntervalMS,
			Panels:     storage.PanelsFromSpecs(sc.Panels),
		}, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	if len(result.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		for _, name := range metrics.Names() {
			if v, ok := result.Metrics[name]; ok {
				fmt.Printf("  %s: %.6f\n", name, v)
			}
		}
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tTICKS\tPANELS\tAGREEMENT")

	for _, run := range runs {
		names := make([]string, len(run.Panels))
		for i, p := range run.Panels {
			names[i] = p.Name
		}
		agreement := "-"
		if v, ok := run.Metrics["agreement"]; ok {
			agreement = fmt.Sprintf("%.2f", v)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			strings.Join(names, ","),
			agreement,
		)
	}

	return w.Flush()
}

func loadTrajectory(runID string) (*storage.RunMetadata, *sim.Result, []rowstate.State, error) {
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	result, err := st.LoadResult(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	if panelIndex < 0 || panelIndex >= len(result.Panels) {
		return nil, nil, nil, fmt.Errorf("%w: %d", sim.ErrNoSuchPanel, panelIndex)
	}
	traj := result.Trajectory(sim.PanelID(panelIndex))
	if len(traj) == 0 {
		return nil, nil, nil, fmt.Errorf("no data to plot")
	}
	return meta, result, traj, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, traj, err := loadTrajectory(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("panel: %s\n", result.Panels[panelIndex])
	fmt.Printf("ticks: %d\n\n", result.Ticks)

	for _, row := range []rowstate.Row{rowstate.Top, rowstate.Mid, rowstate.Btm} {
		data := make([]float64, len(traj))
		for i, s := range traj {
			data[i] = float64(s.Get(row, rowstate.Pos))
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s position", row)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	result, err := st.LoadResult(runID)
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = runID + ".json"
	}
	if err := storage.ExportJSON(path, *meta, result); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	x, err := rowstate.ParseRow(xRow)
	if err != nil {
		return err
	}
	y, err := rowstate.ParseRow(yRow)
	if err != nil {
		return err
	}
	meta, result, traj, err := loadTrajectory(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s  panel: %s  states: %d\n\n", meta.ID, result.Panels[panelIndex], len(traj))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROW\tMEAN\tSTD\tMIN\tMAX\tOUT OF BOUNDS")
	for _, s := range analysis.Summarize(traj) {
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.0f\t%.0f\t%d\n",
			s.Row, s.Mean, s.StdDev, s.Min, s.Max, s.OutOfBounds)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nphase portrait (%s vs %s):\n", x, y)
	fmt.Println(analysis.NewPhasePortrait(traj, x, y).ASCII())
	return nil
}

func findCycles(cmd *cobra.Command, args []string) error {
	if err := applyPreset(); err != nil {
		return err
	}
	sc, err := cfg.Session()
	if err != nil {
		return err
	}

	for _, p := range sc.Panels {
		c, err := analysis.DetectCycle(p.Init, p.Coupling, cycleLimit)
		if errors.Is(err, analysis.ErrNoCycle) {
			fmt.Printf("  %-10s %s  no cycle within %d ticks\n", p.Name, p.Coupling, cycleLimit)
			continue
		}
		if err != nil {
			return err
		}
		fmt.Printf("  %-10s %s  %s\n", p.Name, p.Coupling, c)
	}
	return nil
}
