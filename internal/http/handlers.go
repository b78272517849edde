package http

import (
	"net/http"

	"spendwise/internal/cache"
	applog "spendwise/internal/log"
	"spendwise/internal/middleware/ratelimit"
	"spendwise/internal/middleware/trace"
)

type readiness struct {
	Status       string           `json:"status"`
	Transactions int              `json:"transactions"`
	Revision     uint64           `json:"revision"`
	Requests     trace.Metrics    `json:"requests"`
	Cache        *cache.Stats     `json:"cache,omitempty"`
	RateLimit    *ratelimit.Stats `json:"rate_limit,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ready := readiness{
		Status:       "ready",
		Transactions: s.repo.Len(),
		Revision:     s.repo.Revision(),
		Requests:     s.Metrics(),
	}
	if stats, ok := s.engine.CacheStats(); ok {
		ready.Cache = &stats
	}
	if s.limiter != nil {
		stats := s.limiter.Stats()
		ready.RateLimit = &stats
	}
	writeJSON(w, r, http.StatusOK, ready)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	u := s.sessions.GetUser(r.Context())
	if u == nil {
		writeError(w, r, http.StatusNotFound, "not signed in")
		return
	}
	writeJSON(w, r, http.StatusOK, u)
}

func (s *Server) handlePutSession(w http.ResponseWriter, r *http.Request) {
	name, err := ParseSessionName(w, r)
	if err != nil {
		writeRequestError(w, r, err)
		return
	}
	if err := s.sessions.SetUser(r.Context(), name); err != nil {
		writeInternalError(w, r, "set_user", err)
		return
	}
	noContent(w)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.ClearUser(r.Context()); err != nil {
		writeInternalError(w, r, "clear_user", err)
		return
	}
	noContent(w)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, trace.ClientIP(r))
	writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded, retry later")
}
