package http

import (
	"net/http"

	"budgetpace/internal/core"
	applog "budgetpace/internal/log"
)

type categoryListBody struct {
	Categories []categoryJSON `json:"categories"`
}

// handleListCategories lists custom categories, optionally of one type.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	items, err := s.deps.Categories.List(r.Context(), owner(r), queryTxType(r.URL.Query(), ""))
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	NewJSONResponse().Body(categoryListBody{Categories: mapSlice(items, toCategoryJSON)}).Write(w)
}

type catalogBody struct {
	Type       core.TxType         `json:"type"`
	Categories []core.CatalogEntry `json:"categories"`
}

func (s *Server) handleCategoryCatalog(w http.ResponseWriter, r *http.Request) {
	t := queryTxType(r.URL.Query(), core.Expense)
	entries, err := s.deps.Categories.Catalog(r.Context(), owner(r), t)
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	NewJSONResponse().Body(catalogBody{Type: t, Categories: entries}).Write(w)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := s.deps.Categories.Get(r.Context(), owner(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	NewJSONResponse().Body(toCategoryJSON(c)).Write(w)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	c, err := s.deps.Categories.Create(r.Context(), owner(r), req.toNew())
	if err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	NewJSONResponse().Body(toCategoryJSON(c)).Write(w)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	c, err := s.deps.Categories.Update(r.Context(), owner(r), r.PathValue("id"), req.toPatch())
	if err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	NewJSONResponse().Body(toCategoryJSON(c)).Write(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.deps.Categories.Delete(r.Context(), owner(r), id); err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	NewJSONResponse().Body(map[string]any{"success": true, "id": id}).Write(w)
}
