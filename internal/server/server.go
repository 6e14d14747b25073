// Package server serves the JSON city collection the terminal client
// synchronizes with.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ngmaloney/travel-terminal/internal/models"
)

// Server exposes a Repository over HTTP.
type Server struct {
	repo     *Repository
	logger   *slog.Logger
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// New creates a server for repo.
func New(repo *Repository, logger *slog.Logger) *Server {
	s := &Server{
		repo:     repo,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cityserver_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cityserver_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
	s.registry.MustRegister(s.requests, s.latency)
	return s
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/cities", s.listCities)
	r.Post("/cities", s.createCity)
	r.Get("/cities/{id}", s.getCity)
	r.Delete("/cities/{id}", s.deleteCity)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		s.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		s.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
		s.logger.Info("request",
			slog.String("method", r.Method),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) listCities(w http.ResponseWriter, r *http.Request) {
	cities, err := s.repo.List(r.Context())
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, cities)
}

func (s *Server) getCity(w http.ResponseWriter, r *http.Request) {
	city, err := s.repo.Get(r.Context(), models.ID(chi.URLParam(r, "id")))
	if errors.Is(err, ErrNotFound) {
		s.fail(w, r, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, city)
}

func (s *Server) createCity(w http.ResponseWriter, r *http.Request) {
	var draft models.City
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		s.fail(w, r, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}
	if draft.CityName == "" {
		s.fail(w, r, http.StatusBadRequest, errors.New("cityName is required"))
		return
	}
	if draft.Date.IsZero() {
		s.fail(w, r, http.StatusBadRequest, errors.New("date is required"))
		return
	}

	city, err := s.repo.Create(r.Context(), draft.Draft())
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, city)
}

func (s *Server) deleteCity(w http.ResponseWriter, r *http.Request) {
	err := s.repo.Delete(r.Context(), models.ID(chi.URLParam(r, "id")))
	if errors.Is(err, ErrNotFound) {
		s.fail(w, r, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
