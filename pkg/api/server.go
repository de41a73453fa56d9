// Package api exposes the Pipeline Orchestrator over REST/JSON, the
// HTTP surface spec §1 treats as an external collaborator. Grounded on
// the teacher's sibling API-gateway example's mux.Router + CORS
// middleware shape (Generativebots-ocx-backend-go-svc's APIServer).
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/pipeline"
)

// Server exposes the intelligence pipeline's single scan operation
// plus a health endpoint.
type Server struct {
	orch *pipeline.Orchestrator
	log  zerolog.Logger
}

// NewServer builds a Server bound to an already-constructed Orchestrator.
func NewServer(orch *pipeline.Orchestrator, log zerolog.Logger) *Server {
	return &Server{orch: orch, log: log.With().Str("component", "api").Logger()}
}

// Router builds the mux.Router exposing every route, with permissive
// CORS for the dashboard consumer named in spec §1.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(corsMiddleware)

	r.HandleFunc("/api/intelligence/scan", s.handleScan).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	return r
}

// ListenAndServe starts the HTTP server on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.log.Info().Str("addr", addr).Msg("api server starting")
	return http.ListenAndServe(addr, s.Router())
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleScan binds POST /api/intelligence/scan to Orchestrator.Process
// (spec §6.1). A malformed body or empty location is rejected before
// the pipeline is invoked; every other failure mode is absorbed by the
// orchestrator itself into a degraded response.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req model.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Location == "" {
		http.Error(w, "location is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	resp := s.orch.Process(ctx, req)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error().Err(err).Msg("failed to encode scan response")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok"}`)
}
