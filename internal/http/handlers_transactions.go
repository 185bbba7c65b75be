package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"budgetpace/internal/core"
	applog "budgetpace/internal/log"
)

type transactionListBody struct {
	Items []transactionJSON `json:"items"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	items, err := s.deps.Transactions.List(r.Context(), owner(r), parseLimit(r.URL.Query()))
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	NewJSONResponse().Body(transactionListBody{Items: mapSlice(items, toTransactionJSON)}).Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.deps.Transactions.Get(r.Context(), owner(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	NewJSONResponse().Body(toTransactionJSON(t)).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	in, err := req.toNew()
	if err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}

	t, err := s.deps.Transactions.Create(r.Context(), owner(r), in)
	if err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	s.logTransaction(r, applog.OpCreate, t)
	NewJSONResponse().Body(toTransactionJSON(t)).Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}

	t, err := s.deps.Transactions.Update(r.Context(), owner(r), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	s.logTransaction(r, applog.OpUpdate, t)
	NewJSONResponse().Body(toTransactionJSON(t)).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.deps.Transactions.Delete(r.Context(), owner(r), id); err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	s.logTransaction(r, applog.OpDelete, core.Transaction{ID: id, Owner: owner(r)})
	NewJSONResponse().Body(map[string]any{"ok": true, "id": id}).Write(w)
}

// handleExportTransactions renders the whole CSV before writing, so a
// store failure never leaves a truncated download.
func (s *Server) handleExportTransactions(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.deps.Transactions.Export(r.Context(), owner(r), &buf); err != nil {
		writeError(w, r, applog.OpExport, err)
		return
	}

	filename := fmt.Sprintf("transactions_%s.csv", s.now().UTC().Format(time.DateOnly))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) logTransaction(r *http.Request, op string, t core.Transaction) {
	ctx := r.Context()
	applog.NewStructuredLogger(applog.FromContext(ctx).WithComponent(applog.ComponentLedger)).
		LogTransaction(ctx, op, t.Owner, t.ID, string(t.Type), t.Category, t.Amount.Cents)
}
