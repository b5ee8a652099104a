package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/san-kum/rowsim/internal/config"
	"github.com/san-kum/rowsim/internal/logging"
	"github.com/san-kum/rowsim/internal/sim"
	"github.com/san-kum/rowsim/internal/viz"
)

var (
	configFile string
	dataDir    string
	logLevel   string
	logFile    string

	// loaded by the root PersistentPreRunE
	cfg       *config.Config
	logCloser io.Closer
)

// main registers the rowsim commands and runs the interactive TUI when no
// subcommand is given. It exits with status 1 if a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "rowsim",
		Short:        "coupled bounded-row simulator and static blog helpers",
		SilenceUsage: true,
		RunE:         runTUI,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				logCloser.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "rowsim.yaml", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append logs to this file")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal panels",
		RunE:  runTUI,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list panel presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				panels := config.GetPreset(name)
				fmt.Printf("  %-8s %d panel(s)\n", name, len(panels))
			}
			return nil
		},
	}

	rootCmd.AddCommand(tuiCmd, presetsCmd)
	rootCmd.AddCommand(runCommands()...)
	rootCmd.AddCommand(renderCommand())
	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(siteCommands()...)
	rootCmd.AddCommand(automationCommands()...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the config file, applies the global flag overrides and
// installs the logger. The TUI owns the terminal, so its logs always go to
// a file.
func setup(cmd *cobra.Command) error {
	c, err := config.Load(configFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("data") || c.DataDir == "" {
		c.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		c.Log.Level = logLevel
	}
	if flags.Changed("log-file") {
		c.Log.File = logFile
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	lc := logging.Config{Level: c.Log.Level, File: c.Log.File}
	if lc.File == "" && ownsTerminal(cmd) {
		lc.File = filepath.Join(c.DataDir, "rowsim.log")
	}
	closer, err := logging.Setup(lc)
	if err != nil {
		return err
	}

	cfg, logCloser = c, closer
	return nil
}

func ownsTerminal(cmd *cobra.Command) bool {
	return cmd.Name() == "tui" || !cmd.HasParent()
}

func runTUI(cmd *cobra.Command, args []string) error {
	sc, err := cfg.Session()
	if err != nil {
		return err
	}
	s := sim.NewSession(sc)
	defer s.Close()

	return viz.Run(s, viz.Options{
		Theme:       cfg.Render.Theme,
		MinMS:       cfg.Autoplay.MinMS,
		MaxMS:       cfg.Autoplay.MaxMS,
		StepMS:      cfg.Autoplay.StepMS,
		SnapshotDir: cfg.DataDir,
		Layout:      layout(),
	})
}
