// Package server exposes the itinerary service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tripsmith/tripsmith/pkg/errmodel"
	"github.com/tripsmith/tripsmith/pkg/trip"
)

const defaultRequestTimeout = 2 * time.Minute

// Config holds the server's tunables.
type Config struct {
	// AllowedOrigins is passed to the CORS middleware. Empty disables CORS.
	AllowedOrigins []string
	// RequestTimeout bounds itinerary generation. Zero means the default.
	RequestTimeout time.Duration
}

// Server handles itinerary requests.
type Server struct {
	svc *trip.Service
	cfg Config
}

// New creates a Server around the trip service.
func New(svc *trip.Service, cfg Config) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	return &Server{svc: svc, cfg: cfg}
}

// Handler returns the full middleware-wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/v1/itineraries", s.handleItinerary)

	var h http.Handler = mux
	h = requestID(h)
	if len(s.cfg.AllowedOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins:   s.cfg.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
		}).Handler(h)
	}
	return otelhttp.NewHandler(h, "tripsmith.http")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleItinerary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		errmodel.WriteHTTP(w, r, errmodel.Validation("method_not_allowed", "use POST", nil))
		return
	}
	var req trip.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errmodel.WriteHTTP(w, r, errmodel.Validation("bad_json", "request body is not valid JSON", map[string]any{"error": err.Error()}))
		return
	}
	if err := req.Validate(); err != nil {
		errmodel.WriteHTTP(w, r, err)
		return
	}
	if err := req.CheckDates(); err != nil {
		errmodel.WriteHTTP(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	it, err := s.svc.Plan(ctx, &req)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"from": req.FromLocation,
			"to":   req.ToLocation,
		}).Error("itinerary generation failed")
		errmodel.WriteHTTP(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(it)
}

// requestID tags each request with an X-Request-ID if the client sent none.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}
