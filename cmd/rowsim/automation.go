package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/rowsim/internal/automation"
	"github.com/san-kum/rowsim/internal/rowstate"
)

var (
	jsonOut    bool
	sweepRow   string
	sweepField string
	sweepMin   int
	sweepMax   int
	trials     int
	seed       int64
	workers    int
	coupling   string
)

func automationCommands() []*cobra.Command {
	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&jsonOut, "json", false, "print step results as JSON")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "vary one field of the first panel and compare outcomes",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepRow, "row", "mid", "row to vary")
	sweepCmd.Flags().StringVar(&sweepField, "field", "pos", "field to vary")
	sweepCmd.Flags().IntVar(&sweepMin, "min", -2, "first value")
	sweepCmd.Flags().IntVar(&sweepMax, "max", 2, "last value")
	sweepCmd.Flags().IntVar(&steps, "steps", 100, "ticks per value")
	sweepCmd.Flags().StringVar(&coupling, "coupling", "", "override the panel coupling")
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use a preset panel layout")
	sweepCmd.Flags().BoolVar(&jsonOut, "json", false, "print results as JSON")

	mcCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run trials from random in-bounds positions of the first panel",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	mcCmd.Flags().IntVar(&trials, "trials", 100, "number of trials")
	mcCmd.Flags().IntVar(&steps, "steps", 100, "ticks per trial")
	mcCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default time based)")
	mcCmd.Flags().IntVar(&workers, "workers", 0, "parallel trials (default NumCPU)")
	mcCmd.Flags().StringVar(&coupling, "coupling", "", "override the panel coupling")
	mcCmd.Flags().StringVar(&preset, "preset", "", "use a preset panel layout")
	mcCmd.Flags().BoolVar(&jsonOut, "json", false, "print results as JSON")

	return []*cobra.Command{scenarioCmd, sweepCmd, mcCmd}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, runErr := automation.RunScenario(ctx, sc)
	if jsonOut {
		if err := printJSON(results); err != nil {
			return err
		}
		return runErr
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("  %s\n", sc.Description)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tACTION\tTICKS\tMATCH\tAUTOPLAY")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%v\n", r.Index+1, r.Action, r.Ticks, r.Match, r.Autoplay)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	fmt.Printf("%d steps passed\n", len(results))
	return nil
}

// basePanel returns the first configured panel and its coupling, honouring
// --preset and --coupling.
func basePanel() (rowstate.State, rowstate.Coupling, error) {
	if err := applyPreset(); err != nil {
		return rowstate.State{}, rowstate.Coupling{}, err
	}
	sc, err := cfg.Session()
	if err != nil {
		return rowstate.State{}, rowstate.Coupling{}, err
	}
	if len(sc.Panels) == 0 {
		return rowstate.State{}, rowstate.Coupling{}, fmt.Errorf("no panels configured")
	}
	p := sc.Panels[0]
	if coupling != "" {
		c, err := rowstate.ParseCoupling(coupling)
		if err != nil {
			return rowstate.State{}, rowstate.Coupling{}, err
		}
		p.Coupling = c
	}
	return p.Init, p.Coupling, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	row, err := rowstate.ParseRow(sweepRow)
	if err != nil {
		return err
	}
	field, err := rowstate.ParseField(sweepField)
	if err != nil {
		return err
	}
	base, c, err := basePanel()
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Base:     base,
		Coupling: c,
		Row:      row,
		Field:    field,
		Min:      sweepMin,
		Max:      sweepMax,
		Ticks:    steps,
	})
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(results)
	}

	fmt.Printf("sweep %s.%s from %d to %d, %d ticks, %s\n\n", row, field, sweepMin, sweepMax, steps, c)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VALUE\tFINAL\tCYCLE\tBOUNDS\tTOP DRIFT")
	for _, r := range results {
		cycle := "-"
		if r.Cycle.Period > 0 {
			cycle = r.Cycle.String()
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.3f\t%.0f\n", r.Value, r.FinalState, cycle, r.Bounds, r.TopDrift)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	base, c, err := basePanel()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:      base,
		Coupling:  c,
		NumTrials: trials,
		Ticks:     steps,
		Seed:      seed,
		Workers:   workers,
	})
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(results)
	}

	in, out := automation.MonteCarloStats(results)
	fmt.Printf("%d trials, %d ticks each, %s\n", len(results), steps, c)
	fmt.Printf("  in bounds:     %d\n", in)
	fmt.Printf("  out of bounds: %d\n", out)

	hist := automation.PeriodHistogram(results)
	periods := make([]int, 0, len(hist))
	for p := range hist {
		periods = append(periods, p)
	}
	sort.Ints(periods)
	fmt.Println("\ncycle periods:")
	for _, p := range periods {
		label := fmt.Sprintf("%d", p)
		if p == 0 {
			label = "none"
		}
		fmt.Printf("  %-6s %d\n", label, hist[p])
	}
	return nil
}
