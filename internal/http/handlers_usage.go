package http

import (
	"net/http"

	applog "budgetpace/internal/log"
	"budgetpace/internal/services"
)

// handleUsageStatus reports the counter for ?month= (default: this month).
func (s *Server) handleUsageStatus(w http.ResponseWriter, r *http.Request) {
	kind, err := services.ParseUsageKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	st, err := s.deps.Usage.Status(r.Context(), owner(r), kind, r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	NewJSONResponse().Body(st).Write(w)
}

// handleApplyUsage reserves or releases quota. An exhausted quota is a 200
// with allowed=false.
func (s *Server) handleApplyUsage(w http.ResponseWriter, r *http.Request) {
	kind, err := services.ParseUsageKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, r, applog.OpReserve, err)
		return
	}
	var req usageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, applog.OpReserve, err)
		return
	}
	st, err := s.deps.Usage.Apply(r.Context(), owner(r), kind, req.MonthKey, req.Delta)
	if err != nil {
		writeError(w, r, applog.OpReserve, err)
		return
	}
	NewJSONResponse().Body(st).Write(w)
}
