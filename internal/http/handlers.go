package http

import (
	"context"
	"net/http"
	"time"

	applog "budgetpace/internal/log"
)

type healthBody struct {
	Status        string `json:"status"`
	Requests      int64  `json:"requests"`
	ServerErrors  int64  `json:"server_errors"`
	RateLimited   int64  `json:"rate_limited"`
	Suspicious    int64  `json:"suspicious"`
	ActiveClients int    `json:"active_clients"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	m := s.tracer.GetMetrics()
	NewJSONResponse().Body(healthBody{
		Status:        "ok",
		Requests:      m.TotalRequests,
		ServerErrors:  m.ServerErrors,
		RateLimited:   s.limiter.Limited(),
		Suspicious:    s.detector.SuspiciousCount(),
		ActiveClients: s.limiter.ActiveClients(),
	}).Write(w)
}

// handleReady pings the database.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.Ready.Ping(ctx); err != nil {
			applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed",
				applog.FieldErrorType, applog.ErrorTypeDatabase,
				applog.FieldError, err.Error())
			ErrorResponse(http.StatusServiceUnavailable, "database unavailable").Write(w)
			return
		}
	}
	NewJSONResponse().Body(map[string]string{"status": "ready"}).Write(w)
}
