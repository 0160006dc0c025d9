package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	orrery "github.com/lek-tom2/onelast-mission-sub001"
)

// Server exposes the orrery engine over HTTP. All planet positions come from
// the shared element engine driven by the simulation clock; NEO endpoints go
// through the caching NeoWs client.
type Server struct {
	cfg     orrery.Config
	logger  log.Logger
	clock   *orrery.Clock
	neos    *orrery.NeoClient
	metrics *MetricsCollector

	httpServer *http.Server
}

func NewServer(cfg orrery.Config, logger log.Logger) *Server {
	return &Server{
		cfg:     cfg,
		logger:  logger,
		clock:   orrery.NewClock(time.Now()),
		neos:    orrery.NewNeoClient(cfg, logger),
		metrics: NewMetricsCollector(),
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/positions", s.instrument("positions", s.handlePositions))
	mux.HandleFunc("/trajectory/", s.instrument("trajectory", s.handleTrajectory))
	mux.HandleFunc("/neo_data_all/", s.instrument("neo_data_all", s.handleNeoAll))
	mux.HandleFunc("/neo_data_one/", s.instrument("neo_data_one", s.handleNeoOne))
	mux.HandleFunc("/neo_data_per_object/", s.instrument("neo_data_per_object", s.handleNeoPerObject))
	mux.HandleFunc("/neo_position/", s.instrument("neo_position", s.handleNeoPosition))
	mux.HandleFunc("/neo_trajectory/", s.instrument("neo_trajectory", s.handleNeoTrajectory))
	mux.HandleFunc("/impact/estimate", s.instrument("impact_estimate", s.handleImpactEstimate))
	mux.HandleFunc("/time/current", s.instrument("time_current", s.handleTimeCurrent))
	mux.HandleFunc("/time/start", s.instrument("time_start", s.handleTimeStart))
	mux.HandleFunc("/time/stop", s.instrument("time_stop", s.handleTimeStop))
	mux.HandleFunc("/time/speed/", s.instrument("time_speed", s.handleTimeSpeed))
	mux.HandleFunc("/time/ws", s.handleTimeWS)
	mux.Handle("/metrics", s.metrics.Handler())
	return mux
}

// instrument wraps a handler with request duration and count metrics.
func (s *Server) instrument(endpoint string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		h(sw, r)
		s.metrics.RecordRequest(endpoint, strconv.Itoa(sw.status), time.Since(start))
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		level.Error(s.logger).Log("msg", "response encoding failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// jdParam returns the requested Julian Date, defaulting to the simulation
// clock when the query parameter is absent.
func (s *Server) jdParam(r *http.Request) (float64, error) {
	raw := r.URL.Query().Get("jd")
	if raw == "" {
		return s.clock.JD(), nil
	}
	jd, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid jd %q: %w", raw, err)
	}
	return jd, nil
}

func (s *Server) samplesParam(r *http.Request, fallback int) (int, error) {
	raw := r.URL.Query().Get("samples")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid samples %q", raw)
	}
	return n, nil
}

// dateRangeParams returns the feed date range. An absent start defaults to
// the current simulated date, and an absent end to the start.
func (s *Server) dateRangeParams(r *http.Request) (string, string) {
	q := r.URL.Query()
	start, end := q.Get("start_date"), q.Get("end_date")
	if start == "" {
		start = s.clock.Now().Format("2006-01-02")
	}
	if end == "" {
		end = start
	}
	return start, end
}

// handlePositions returns the heliocentric ecliptic position of every catalog
// body at the requested (or simulated) Julian Date.
func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	jd, err := s.jdParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	positions := make(map[string]orrery.State)
	for _, b := range orrery.Catalog() {
		positions[strings.ToLower(b.Name)] = b.Orbit.Position(jd)
	}
	s.writeJSON(w, map[string]interface{}{
		"jd":        jd,
		"positions": positions,
	})
}

func (s *Server) handleTrajectory(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/trajectory/")
	body, err := orrery.BodyFromString(name)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	n, err := s.samplesParam(r, s.cfg.TrajectorySamples)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, map[string]interface{}{
		"body":   body.Name,
		"points": body.Orbit.Trajectory(n),
	})
}

func (s *Server) handleNeoAll(w http.ResponseWriter, r *http.Request) {
	start, end := s.dateRangeParams(r)
	feed, err := s.neos.Feed(r.Context(), start, end)
	if err != nil {
		s.metrics.RecordNeoFetch("error")
		s.writeError(w, http.StatusBadGateway, err)
		return
	}
	s.metrics.RecordNeoFetch("ok")
	s.writeJSON(w, feed)
}

func (s *Server) handleNeoOne(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/neo_data_one/")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("missing NEO id"))
		return
	}
	neo, err := s.neos.Lookup(r.Context(), id)
	if err != nil {
		s.metrics.RecordNeoFetch("error")
		s.writeError(w, http.StatusBadGateway, err)
		return
	}
	s.metrics.RecordNeoFetch("ok")
	s.writeJSON(w, neo)
}

func (s *Server) handleNeoPerObject(w http.ResponseWriter, r *http.Request) {
	start, end := s.dateRangeParams(r)
	objects, err := s.neos.PerObject(r.Context(), start, end)
	if err != nil {
		s.metrics.RecordNeoFetch("error")
		s.writeError(w, http.StatusBadGateway, err)
		return
	}
	s.metrics.RecordNeoFetch("ok")
	s.writeJSON(w, objects)
}

// lookupNeoElements resolves a NEO id to canonical orbital elements,
// rejecting records whose orbital data is missing or malformed.
func (s *Server) lookupNeoElements(r *http.Request, id string) (orrery.Elements, *orrery.NEO, error) {
	neo, err := s.neos.Lookup(r.Context(), id)
	if err != nil {
		return orrery.Elements{}, nil, err
	}
	if neo.OrbitalData == nil {
		return orrery.Elements{}, nil, fmt.Errorf("NEO %s has no orbital data", id)
	}
	el, err := neo.OrbitalData.Elements()
	if err != nil {
		return orrery.Elements{}, nil, err
	}
	return el, neo, nil
}

func (s *Server) handleNeoPosition(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/neo_position/")
	jd, err := s.jdParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	el, neo, err := s.lookupNeoElements(r, id)
	if err != nil {
		s.metrics.RecordNeoFetch("error")
		s.writeError(w, http.StatusBadGateway, err)
		return
	}
	s.metrics.RecordNeoFetch("ok")
	s.writeJSON(w, map[string]interface{}{
		"id":       neo.ID,
		"name":     neo.Name,
		"jd":       jd,
		"position": el.Position(jd),
	})
}

func (s *Server) handleNeoTrajectory(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/neo_trajectory/")
	n, err := s.samplesParam(r, orrery.FocusedTrajectorySamples)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	el, neo, err := s.lookupNeoElements(r, id)
	if err != nil {
		s.metrics.RecordNeoFetch("error")
		s.writeError(w, http.StatusBadGateway, err)
		return
	}
	s.metrics.RecordNeoFetch("ok")
	s.writeJSON(w, map[string]interface{}{
		"id":     neo.ID,
		"name":   neo.Name,
		"points": el.Trajectory(n),
	})
}

func (s *Server) handleImpactEstimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("POST required"))
		return
	}
	var scenario orrery.ImpactScenario
	if err := json.NewDecoder(r.Body).Decode(&scenario); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid scenario: %w", err))
		return
	}
	est, err := orrery.EstimateImpact(scenario)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, est)
}

func (s *Server) handleTimeCurrent(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.clock.State())
}

func (s *Server) handleTimeStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("POST required"))
		return
	}
	s.clock.Start()
	s.writeJSON(w, map[string]string{"status": "started"})
}

func (s *Server) handleTimeStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("POST required"))
		return
	}
	s.clock.Stop()
	s.writeJSON(w, map[string]string{"status": "stopped"})
}

func (s *Server) handleTimeSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("POST required"))
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, "/time/speed/")
	speed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid speed %q: %w", raw, err))
		return
	}
	s.clock.SetRate(speed)
	s.writeJSON(w, map[string]interface{}{"status": "speed_set", "speed": s.clock.Rate()})
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s.routes(),
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}
	level.Info(s.logger).Log("msg", "listening", "addr", s.cfg.ListenAddr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
