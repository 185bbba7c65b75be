package http

import (
	"errors"
	"net/http"

	"budgetpace/internal/auth"
	"budgetpace/internal/core"
	applog "budgetpace/internal/log"
	"budgetpace/internal/storage"
)

// owner returns the identity stored by the auth middleware. Routes under
// /api/ are only reachable through it, so a missing owner is a wiring bug.
func owner(r *http.Request) string {
	o, _ := auth.OwnerFromContext(r.Context())
	return o
}

// writeError maps service errors onto status codes. Only unexpected errors
// are logged; the access log already records client errors.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var ve *core.ValidationError
	switch {
	case errors.As(err, &ve):
		FieldError(ve.Field, ve.Error()).Write(w)
	case errors.Is(err, storage.ErrNotFound):
		NotFoundError().Write(w)
	case errors.Is(err, storage.ErrConflict):
		ConflictError("category already exists").Write(w)
	case errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, auth.ErrInvalidToken):
		UnauthorizedError().Write(w)
	default:
		ctx := r.Context()
		applog.NewStructuredLogger(applog.FromContext(ctx)).LogError(ctx, "Request failed", err,
			applog.ErrorTypeInternal, op,
			applog.NewFields().WithOwner(owner(r)).WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, ""))
		InternalServerError().Write(w)
	}
}

// unauthorized is the auth middleware's rejection handler.
func unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Request rejected",
		applog.FieldErrorType, applog.ErrorTypeAuth,
		applog.FieldError, err.Error())
	UnauthorizedError().Write(w)
}

func tooManyRequests(w http.ResponseWriter, _ *http.Request) {
	TooManyRequestsError().Write(w)
}
