package http

import (
	"net/http"

	applog "budgetpace/internal/log"
)

// handleDeleteAccount erases all of the caller's data.
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	o := owner(r)
	n, err := s.deps.Account.Delete(r.Context(), o)
	if err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Account data deleted",
		applog.FieldOperation, applog.OpDelete,
		"transactions", n)
	NewJSONResponse().Body(map[string]any{"success": true}).Write(w)
}
