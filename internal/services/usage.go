package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

type UsageKind string

const (
	KindVoice UsageKind = "voice"
	KindScan  UsageKind = "scan"
)

var (
	ErrUnknownUsageKind = errors.New("unknown usage kind")
	ErrInvalidMonthKey  = errors.New("month key must be YYYY-MM")

	monthKeyPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
)

func ParseUsageKind(s string) (UsageKind, error) {
	switch k := UsageKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindVoice, KindScan:
		return k, nil
	}
	return "", fieldError("kind", ErrUnknownUsageKind)
}

// UsageStore is the atomic counter table keyed by owner, kind and month.
type UsageStore interface {
	ReserveUsage(ctx context.Context, owner, kind, monthKey string, delta, limit int64) (int64, bool, error)
	ReleaseUsage(ctx context.Context, owner, kind, monthKey string, delta int64) (int64, error)
	UsageCount(ctx context.Context, owner, kind, monthKey string) (int64, error)
}

// UsageStatus reports a counter. Allowed is only set by Apply.
type UsageStatus struct {
	Allowed   *bool  `json:"allowed,omitempty"`
	Kind      string `json:"kind"`
	MonthKey  string `json:"month_key"`
	Used      int64  `json:"used"`
	Limit     int64  `json:"limit"`
	Remaining int64  `json:"remaining"`
}

// UsageService meters the monthly free quota of metered features.
type UsageService struct {
	store  UsageStore
	limits map[UsageKind]int64
	now    func() time.Time
}

func NewUsageService(store UsageStore, voiceLimit, scanLimit int64) *UsageService {
	return &UsageService{
		store:  store,
		limits: map[UsageKind]int64{KindVoice: voiceLimit, KindScan: scanLimit},
		now:    time.Now,
	}
}

// MonthKey is the UTC calendar month of t.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

func (s *UsageService) monthKey(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return MonthKey(s.now()), nil
	}
	if !monthKeyPattern.MatchString(raw) {
		return "", fieldError("month_key", ErrInvalidMonthKey)
	}
	return raw, nil
}

func (s *UsageService) Status(ctx context.Context, owner string, kind UsageKind, monthKey string) (UsageStatus, error) {
	key, err := s.monthKey(monthKey)
	if err != nil {
		return UsageStatus{}, err
	}
	used, err := s.store.UsageCount(ctx, owner, string(kind), key)
	if err != nil {
		return UsageStatus{}, fmt.Errorf("usage status: %w", err)
	}
	return s.status(kind, key, used), nil
}

// Apply reserves delta slots when delta is positive and releases |delta|
// slots otherwise. A nil delta reserves one. Running out of quota is
// reported through Allowed, not as an error.
func (s *UsageService) Apply(ctx context.Context, owner string, kind UsageKind, monthKey string, delta *int64) (UsageStatus, error) {
	key, err := s.monthKey(monthKey)
	if err != nil {
		return UsageStatus{}, err
	}
	d := int64(1)
	if delta != nil {
		d = *delta
	}

	if d > 0 {
		used, allowed, err := s.store.ReserveUsage(ctx, owner, string(kind), key, d, s.limits[kind])
		if err != nil {
			return UsageStatus{}, fmt.Errorf("reserve usage: %w", err)
		}
		if !allowed {
			slog.InfoContext(ctx, "Usage quota exhausted",
				"component", "usage",
				"owner", owner,
				"usage_kind", string(kind),
				"month_key", key,
				"used", used)
		}
		st := s.status(kind, key, used)
		st.Allowed = &allowed
		return st, nil
	}

	if d < 0 {
		d = -d
	}
	used, err := s.store.ReleaseUsage(ctx, owner, string(kind), key, d)
	if err != nil {
		return UsageStatus{}, fmt.Errorf("release usage: %w", err)
	}
	allowed := true
	st := s.status(kind, key, used)
	st.Allowed = &allowed
	return st, nil
}

func (s *UsageService) status(kind UsageKind, key string, used int64) UsageStatus {
	limit := s.limits[kind]
	return UsageStatus{
		Kind:      string(kind),
		MonthKey:  key,
		Used:      used,
		Limit:     limit,
		Remaining: max(0, limit-used),
	}
}
