package http

import (
	"net/http"
	"strings"
	"time"

	"budgetpace/internal/cache"
	"budgetpace/internal/core"
	applog "budgetpace/internal/log"
)

const headerCache = "X-Cache"

// handleStats serves the weekly or monthly analytics payload. Results are
// cached per owner, period, window and calendar day; any write by the owner
// drops them.
func (s *Server) handleStats(period core.BudgetPeriod) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		custom, ok, err := core.ParseCustomWindow(strings.TrimSpace(q.Get("startDate")), strings.TrimSpace(q.Get("endDate")))
		if err != nil {
			writeError(w, r, applog.OpCompose, err)
			return
		}

		var window *core.Window
		windowKey := "current"
		if ok {
			window = &custom
			windowKey = custom.Start.Format(time.DateOnly) + ".." + custom.End.Format(time.DateOnly)
		}

		o := owner(r)
		key := cache.OwnerKey(o, string(period), windowKey, s.now().UTC().Format(time.DateOnly))
		gen := s.generation(o)
		if s.deps.Payloads != nil {
			if p, hit := s.deps.Payloads.Get(key); hit {
				NewJSONResponse().Header(headerCache, "HIT").Body(p).Write(w)
				return
			}
		}

		p, err := s.deps.Stats.Compose(r.Context(), o, period, window)
		if err != nil {
			writeError(w, r, applog.OpCompose, err)
			return
		}
		if s.deps.Payloads != nil {
			storeResult(s.deps.Caches, s.deps.Payloads, o, gen, key, p)
		}
		NewJSONResponse().Header(headerCache, "MISS").Body(p).Write(w)
	}
}

type categoryStatsBody struct {
	Type            core.TxType           `json:"type"`
	CategoryBuckets []core.CategoryBucket `json:"category_buckets"`
}

// handleCategoryStats serves all-time merged category totals for one type.
func (s *Server) handleCategoryStats(w http.ResponseWriter, r *http.Request) {
	t := queryTxType(r.URL.Query(), core.Expense)
	o := owner(r)
	key := cache.OwnerKey(o, "categories", string(t))
	gen := s.generation(o)

	if s.deps.Buckets != nil {
		if b, hit := s.deps.Buckets.Get(key); hit {
			NewJSONResponse().Header(headerCache, "HIT").Body(categoryStatsBody{Type: t, CategoryBuckets: b}).Write(w)
			return
		}
	}

	buckets, err := s.deps.Stats.Categories(r.Context(), o, t)
	if err != nil {
		writeError(w, r, applog.OpCompose, err)
		return
	}
	if buckets == nil {
		buckets = []core.CategoryBucket{}
	}
	if s.deps.Buckets != nil {
		storeResult(s.deps.Caches, s.deps.Buckets, o, gen, key, buckets)
	}
	NewJSONResponse().Header(headerCache, "MISS").Body(categoryStatsBody{Type: t, CategoryBuckets: buckets}).Write(w)
}

func (s *Server) generation(owner string) uint64 {
	if s.deps.Caches == nil {
		return 0
	}
	return s.deps.Caches.Generation(owner)
}

// storeResult caches v unless a write by the owner landed while it was being
// computed.
func storeResult[T any](m *cache.Manager, c cache.Cache[T], owner string, gen uint64, key string, v T) {
	if m == nil {
		c.Set(key, v)
		return
	}
	cache.StoreIfCurrent(m, c, owner, gen, key, v)
}
