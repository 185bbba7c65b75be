package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestResolve(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	good, _ := IssueToken(testSecret, "abc", time.Hour, now)
	expired, _ := IssueToken(testSecret, "abc", time.Hour, now.Add(-2*time.Hour))
	wrongKey, _ := IssueToken("another-secret-another-secret-xx", "abc", time.Hour, now)
	noSub, _ := IssueToken(testSecret, "", time.Hour, now)
	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject: "abc", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte(testSecret))

	tests := []struct {
		name        string
		allowDevice bool
		authz       string
		device      string
		want        string
		wantErr     error
	}{
		{name: "valid token", authz: "Bearer " + good, want: "user:abc"},
		{name: "lowercase scheme", authz: "bearer " + good, want: "user:abc"},
		{name: "token wins over device", allowDevice: true, authz: "Bearer " + good, device: "d1", want: "user:abc"},
		{name: "expired", authz: "Bearer " + expired, wantErr: ErrInvalidToken},
		{name: "wrong key", authz: "Bearer " + wrongKey, wantErr: ErrInvalidToken},
		{name: "missing sub", authz: "Bearer " + noSub, wantErr: ErrInvalidToken},
		{name: "unexpected algorithm", authz: "Bearer " + hs512, wantErr: ErrInvalidToken},
		{name: "basic scheme", authz: "Basic Zm9vOmJhcg==", wantErr: ErrInvalidToken},
		{name: "invalid token does not fall back", allowDevice: true, authz: "Bearer junk", device: "d1", wantErr: ErrInvalidToken},
		{name: "device allowed", allowDevice: true, device: " d1 ", want: "device:d1"},
		{name: "device disabled", device: "d1", wantErr: ErrUnauthenticated},
		{name: "nothing", allowDevice: true, wantErr: ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewResolver(testSecret, tt.allowDevice)
			res.now = func() time.Time { return now }

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authz != "" {
				r.Header.Set("Authorization", tt.authz)
			}
			if tt.device != "" {
				r.Header.Set(HeaderDeviceID, tt.device)
			}

			got, err := res.Resolve(r)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("Resolve() = %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	res := NewResolver("", true)
	var owner string
	h := res.Middleware(func(w http.ResponseWriter, r *http.Request, err error) {
		w.WriteHeader(http.StatusUnauthorized)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner, _ = OwnerFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(HeaderDeviceID, "phone")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK || owner != "device:phone" {
		t.Fatalf("status = %d owner = %q", rec.Code, owner)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer anything")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	if rec.Code != http.StatusUnauthorized {
		t.Fatal("tokens must be rejected when no secret is configured")
	}
}
