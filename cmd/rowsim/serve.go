package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/rowsim/internal/manifest"
	"github.com/san-kum/rowsim/internal/server"
	"github.com/san-kum/rowsim/internal/sim"
)

var (
	serveAddr     string
	serveStatic   string
	serveManifest string
	serveAutoplay bool
)

func serveCommand() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the panels over HTTP with a websocket tick stream",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().StringVar(&serveStatic, "static", "", "directory served at /")
	serveCmd.Flags().StringVar(&serveManifest, "manifest", "", "manifest URL or file for /nav and /index")
	serveCmd.Flags().BoolVar(&serveAutoplay, "autoplay", false, "start with autoplay running")
	serveCmd.Flags().StringVar(&preset, "preset", "", "use a preset panel layout")
	return serveCmd
}

func manifestLoader(flagValue string) *manifest.Loader {
	location := flagValue
	if location == "" {
		location = cfg.Site.Manifest
	}
	if location == "" {
		return nil
	}
	return manifest.NewLoader(manifest.SourceFor(location))
}

func serve(cmd *cobra.Command, args []string) error {
	if err := applyPreset(); err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Site.Addr = serveAddr
	}
	if cmd.Flags().Changed("static") {
		cfg.Site.Dir = serveStatic
	}

	sc, err := cfg.Session()
	if err != nil {
		return err
	}
	opts, err := sessionOptions()
	if err != nil {
		return err
	}
	s := sim.NewSession(sc, opts...)
	defer s.Close()

	srv := server.New(server.Config{
		Addr:      cfg.Site.Addr,
		AllowAll:  true,
		StaticDir: cfg.Site.Dir,
		MinMS:     cfg.Autoplay.MinMS,
		MaxMS:     cfg.Autoplay.MaxMS,
		Layout:    layout(),
	}, s, manifestLoader(serveManifest))

	if serveAutoplay {
		s.ToggleAutoplay()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "rowsim server starting on %s\n", cfg.Site.Addr)
	fmt.Fprintf(os.Stderr, "  Panels: %d\n", len(sc.Panels))
	if cfg.Site.Dir != "" {
		fmt.Fprintf(os.Stderr, "  Static: %s\n", cfg.Site.Dir)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Start()
	})

	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "err", err)
		return err
	}
	return nil
}
