package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/san-kum/rowsim/internal/autoplay"
	"github.com/san-kum/rowsim/internal/manifest"
	"github.com/san-kum/rowsim/internal/render"
	"github.com/san-kum/rowsim/internal/rowstate"
	"github.com/san-kum/rowsim/internal/sim"
)

type intervalRequest struct {
	MS int `json:"ms"`
}

type fieldRequest struct {
	Value string `json:"value"`
}

type fieldResponse struct {
	Applied bool      `json:"applied"`
	State   StateView `json:"state"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateView(s.session))
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	s.session.TickAll()
	writeJSON(w, http.StatusOK, stateView(s.session))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.session.Reset()
	writeJSON(w, http.StatusOK, stateView(s.session))
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.session.ToggleAutoplay()
	writeJSON(w, http.StatusOK, stateView(s.session))
}

func (s *Server) handleInterval(w http.ResponseWriter, r *http.Request) {
	var req intervalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MS < s.cfg.MinMS || req.MS > s.cfg.MaxMS {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("interval must be between %d and %d ms", s.cfg.MinMS, s.cfg.MaxMS))
		return
	}
	if err := s.session.SetInterval(req.MS); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stateView(s.session))
}

// handleSetField applies text the same way a panel input does: text with
// no leading integer is ignored and reported as not applied.
func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	id, err := panelParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req fieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	applied, err := s.session.SetField(id, chi.URLParam(r, "row"), chi.URLParam(r, "field"), req.Value)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, fieldResponse{Applied: applied, State: stateView(s.session)})
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	info, ok := s.panelInfo(w, r)
	if !ok {
		return
	}
	l := s.cfg.Layout
	raster := render.NewRaster(l.Width, l.Height)
	render.Frame(raster, info.State, s.session.AllMatch(), l)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := raster.EncodePNG(w); err != nil {
		log.Error("encode png", "panel", info.ID, "err", err)
	}
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	info, ok := s.panelInfo(w, r)
	if !ok {
		return
	}
	l := s.cfg.Layout
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	v := render.NewVector(w, l.Width, l.Height)
	render.Frame(v, info.State, s.session.AllMatch(), l)
	v.Close()
}

func (s *Server) panelInfo(w http.ResponseWriter, r *http.Request) (sim.PanelInfo, bool) {
	id, err := panelParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return sim.PanelInfo{}, false
	}
	info, err := s.session.Panel(id)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return sim.PanelInfo{}, false
	}
	return info, true
}

func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadManifest(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := manifest.RenderNav(w, m, chi.URLParam(r, "slug")); err != nil {
		log.Error("render nav", "err", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadManifest(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := manifest.RenderIndex(w, m); err != nil {
		log.Error("render index", "err", err)
	}
}

func (s *Server) loadManifest(w http.ResponseWriter, r *http.Request) (*manifest.Manifest, bool) {
	if s.manifest == nil {
		writeError(w, http.StatusNotFound, manifest.ErrNoManifest.Error())
		return nil, false
	}
	m, err := s.manifest.Load(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return m, true
}

func panelParam(r *http.Request) (sim.PanelID, error) {
	raw := chi.URLParam(r, "panel")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid panel %q", raw)
	}
	return sim.PanelID(n), nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, sim.ErrNoSuchPanel):
		return http.StatusNotFound
	case errors.Is(err, rowstate.ErrUnknownRow),
		errors.Is(err, rowstate.ErrUnknownField),
		errors.Is(err, autoplay.ErrInvalidInterval):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
