package http

import (
	"net/http"

	applog "budgetpace/internal/log"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	st, err := s.deps.Settings.Get(r.Context(), owner(r))
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	NewJSONResponse().Body(toSettingsJSON(st)).Write(w)
}

// handleUpdateSettings applies a partial update; an empty body returns the
// current settings.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	st, err := s.deps.Settings.Update(r.Context(), owner(r), req.toPatch())
	if err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	NewJSONResponse().Body(toSettingsJSON(st)).Write(w)
}
