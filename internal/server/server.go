// Package server exposes a session over HTTP: a JSON control API, panel
// images, a websocket tick stream and the site's manifest listings.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/san-kum/rowsim/internal/manifest"
	"github.com/san-kum/rowsim/internal/render"
	"github.com/san-kum/rowsim/internal/sim"
)

type Config struct {
	Addr      string
	AllowAll  bool   // allow all CORS origins
	StaticDir string // served at / when set
	MinMS     int
	MaxMS     int
	Layout    render.Layout
}

type Server struct {
	cfg        Config
	session    *sim.Session
	manifest   *manifest.Loader
	hub        *Hub
	router     chi.Router
	httpServer *http.Server
}

// New builds a server around session. loader may be nil, in which case
// the nav and index routes report the manifest as unavailable.
func New(cfg Config, session *sim.Session, loader *manifest.Loader) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.MinMS <= 0 {
		cfg.MinMS = 100
	}
	if cfg.MaxMS <= 0 {
		cfg.MaxMS = 2000
	}
	if cfg.Layout.Width == 0 {
		cfg.Layout = render.DefaultLayout()
	}

	s := &Server{
		cfg:      cfg,
		session:  session,
		manifest: loader,
		hub:      NewHub(),
	}
	session.AddObserver(s.hub)
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// the stream outlives any request timeout
	r.Get("/ws", s.handleWS)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Route("/api", func(r chi.Router) {
			r.Get("/state", s.handleState)
			r.Post("/tick", s.handleTick)
			r.Post("/reset", s.handleReset)
			r.Post("/autoplay/toggle", s.handleToggle)
			r.Put("/autoplay/interval", s.handleInterval)
			r.Put("/panels/{panel}/{row}/{field}", s.handleSetField)
		})

		r.Get("/panels/{panel}.png", s.handlePNG)
		r.Get("/panels/{panel}.svg", s.handleSVG)

		r.Get("/nav/{slug}", s.handleNav)
		r.Get("/index", s.handleIndex)

		if s.cfg.StaticDir != "" {
			r.Handle("/*", http.FileServer(http.Dir(s.cfg.StaticDir)))
		}
	})

	return r
}

func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the websocket broadcaster attached to the session.
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info("rowsim server listening", "addr", s.cfg.Addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and closes every stream.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
