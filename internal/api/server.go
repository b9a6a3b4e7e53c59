// Package api serves the read-side query endpoints over stored metrics.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"runeScope/internal/model"
	"runeScope/internal/storage"
)

// DepthReader is the slice of the store the read service needs.
type DepthReader interface {
	DepthHistory(ctx context.Context, pool model.Pool, q storage.DepthQuery) ([]model.DepthRow, error)
}

// Server handles read-only queries. It never writes; the ingestion driver
// is the sole writer.
type Server struct {
	store  DepthReader
	pools  model.Pools
	logger *zap.Logger
}

// NewServer builds a read-side server over the given store and pool set.
func NewServer(store DepthReader, pools model.Pools, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{store: store, pools: pools, logger: logger}
}

// NewRouter returns the service's route table.
func (s *Server) NewRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.HandleHealth).Methods(http.MethodGet)
	r.HandleFunc("/depths", s.HandleDepths).Methods(http.MethodGet)
	return r
}

// HandleHealth reports database connectivity when the store supports pings.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if pinger, ok := s.store.(interface{ Ping(context.Context) error }); ok {
		if err := pinger.Ping(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "database connection error")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
