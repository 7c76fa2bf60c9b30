package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kmarsden/relayd/internal/logging"
)

// Snapshot is one point-in-time view of daemon health, serialized as the
// stats endpoint's JSON body.
type Snapshot struct {
	Version          string `json:"version"`
	UptimeSeconds    int64  `json:"uptime"`
	LogLevel         int    `json:"log_level"`
	LogLevelName     string `json:"log_level_name"`
	LogErrors        uint64 `json:"log_errors"`
	CurrConnections  int64  `json:"curr_connections"`
	TotalConnections uint64 `json:"total_connections"`
}

// Server serves GET /stats with a Snapshot produced by the collect
// callback.
type Server struct {
	addr    string
	collect func() Snapshot
	httpSrv *http.Server
}

// New creates a stats server bound to addr. collect is called once per
// request.
func New(addr string, collect func() Snapshot) *Server {
	s := &Server{addr: addr, collect: collect}
	mux := http.NewServeMux()
	mux.HandleFunc("/stats", s.handleStats)
	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving stats requests until Shutdown.
func (s *Server) ListenAndServe() error {
	logging.Noticef("stats endpoint listening on %s", s.addr)
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("stats endpoint on %s failed: %w", s.addr, err)
}

// Shutdown stops the stats server, waiting for in-flight requests until
// ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.collect()); err != nil {
		logging.Debugf(logging.Debug, "encoding stats response failed: %v", err)
	}
}
