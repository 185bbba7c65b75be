package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"budgetpace/internal/auth"
	"budgetpace/internal/cache"
	"budgetpace/internal/core"
	applog "budgetpace/internal/log"
	"budgetpace/internal/middleware/ratelimit"
	"budgetpace/internal/middleware/security"
	"budgetpace/internal/middleware/trace"
	"budgetpace/internal/services"
	"budgetpace/internal/stats"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the handlers call. The caches are optional;
// without them every stats request is composed from the store.
type Deps struct {
	Stats        *stats.Composer
	Transactions *services.TransactionService
	Categories   *services.CategoryService
	Settings     *services.SettingsService
	Usage        *services.UsageService
	Vendors      *services.VendorSuggester
	Account      *services.AccountService
	Auth         *auth.Resolver
	Ready        Pinger
	Logger       *applog.Logger

	Payloads cache.Cache[stats.Payload]
	Buckets  cache.Cache[[]core.CategoryBucket]
	Caches   *cache.Manager
}

type Options struct {
	TrustedProxies []string
	RateLimitRPM   int
	// Now drives the day component of stats cache keys.
	Now func() time.Time
}

type Server struct {
	http.Server

	deps     Deps
	now      func() time.Time
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, deps Deps, opts Options) (*Server, error) {
	detector, err := security.NewDetector(opts.TrustedProxies...)
	if err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	if deps.Logger == nil {
		deps.Logger = applog.New(applog.DefaultConfig())
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		deps:     deps,
		now:      now,
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitRPM}),
		detector: detector,
		tracer:   trace.NewMiddleware(deps.Logger, detector.ExtractClientIP),
	}

	api := http.NewServeMux()
	api.HandleFunc("GET /api/stats/weekly", s.handleStats(core.PeriodWeekly))
	api.HandleFunc("GET /api/stats/monthly", s.handleStats(core.PeriodMonthly))
	api.HandleFunc("GET /api/stats/categories", s.handleCategoryStats)

	api.HandleFunc("GET /api/transactions", s.handleListTransactions)
	api.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	api.HandleFunc("GET /api/transactions/export", s.handleExportTransactions)
	api.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	api.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	api.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	api.HandleFunc("GET /api/categories", s.handleListCategories)
	api.HandleFunc("POST /api/categories", s.handleCreateCategory)
	api.HandleFunc("GET /api/categories/catalog", s.handleCategoryCatalog)
	api.HandleFunc("GET /api/categories/{id}", s.handleGetCategory)
	api.HandleFunc("PUT /api/categories/{id}", s.handleUpdateCategory)
	api.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	api.HandleFunc("GET /api/settings", s.handleGetSettings)
	api.HandleFunc("PUT /api/settings", s.handleUpdateSettings)

	api.HandleFunc("GET /api/usage/{kind}", s.handleUsageStatus)
	api.HandleFunc("POST /api/usage/{kind}", s.handleApplyUsage)

	api.HandleFunc("GET /api/vendors", s.handleListVendors)
	api.HandleFunc("GET /api/vendors/suggest", s.handleSuggestVendor)

	api.HandleFunc("DELETE /api/account", s.handleDeleteAccount)
	api.HandleFunc("DELETE /api/user/account", s.handleDeleteAccount)

	mux := http.NewServeMux()
	mux.Handle("/api/", deps.Auth.Middleware(unauthorized)(withOwnerLogger(api)))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.limiter.Middleware(detector.ExtractClientIP, tooManyRequests)

	var handler http.Handler = mux
	handler = limit(handler)
	handler = headers.Middleware(handler)
	handler = detector.Middleware(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

// withOwnerLogger tags the request logger with the resolved owner.
func withOwnerLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if o, ok := auth.OwnerFromContext(ctx); ok {
			ctx = applog.NewContext(ctx, applog.FromContext(ctx).WithOwner(o))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		if s.deps.Caches != nil {
			s.deps.Caches.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
