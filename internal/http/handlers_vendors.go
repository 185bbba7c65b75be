package http

import (
	"net/http"

	applog "budgetpace/internal/log"
	"budgetpace/internal/services"
)

type vendorListBody struct {
	Vendors []vendorJSON `json:"vendors"`
}

func (s *Server) handleListVendors(w http.ResponseWriter, r *http.Request) {
	items, err := s.deps.Vendors.Known(r.Context(), owner(r))
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	NewJSONResponse().Body(vendorListBody{Vendors: mapSlice(items, toVendorJSON)}).Write(w)
}

type suggestionBody struct {
	Vendor     string               `json:"vendor"`
	Found      bool                 `json:"found"`
	Suggestion *services.Suggestion `json:"suggestion"`
}

// handleSuggestVendor answers found=false rather than 404 when no remembered
// vendor is close enough.
func (s *Server) handleSuggestVendor(w http.ResponseWriter, r *http.Request) {
	vendor := r.URL.Query().Get("vendor")
	sug, ok, err := s.deps.Vendors.Suggest(r.Context(), owner(r), vendor)
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	body := suggestionBody{Vendor: vendor, Found: ok}
	if ok {
		body.Suggestion = &sug
	}
	NewJSONResponse().Body(body).Write(w)
}
