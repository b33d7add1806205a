package preview

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// buildStatus tracks the last rebuild for the status endpoint.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastBuild    time.Time
	hasGoodBuild bool
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	bs.lastBuild = time.Now()
}

func (bs *buildStatus) setSuccess() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.lastBuild = time.Now()
	bs.hasGoodBuild = true
}

type statusResponse struct {
	OK           bool       `json:"ok"`
	Error        string     `json:"error,omitempty"`
	HasGoodBuild bool       `json:"has_good_build"`
	LastBuild    *time.Time `json:"last_build,omitempty"`
}

func (bs *buildStatus) snapshot() statusResponse {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	resp := statusResponse{OK: bs.lastError == nil, HasGoodBuild: bs.hasGoodBuild}
	if bs.lastError != nil {
		resp.Error = bs.lastError.Error()
	}
	if !bs.lastBuild.IsZero() {
		t := bs.lastBuild
		resp.LastBuild = &t
	}
	return resp
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := s.status.snapshot()
	w.Header().Set("Content-Type", "application/json")
	if !resp.OK {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}
