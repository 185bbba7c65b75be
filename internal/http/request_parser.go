// Package http provides HTTP server and handler implementations.
//
// This file implements decoding of JSON request bodies and query values into
// service inputs. Absent JSON fields stay nil so edits can be partial.

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"budgetpace/internal/core"
	"budgetpace/internal/services"
)

const maxBodyBytes = 1 << 20

var (
	errMalformedBody = errors.New("malformed JSON body")
	errInvalidValue  = errors.New("invalid value")
)

// decodeJSON fills dst from the request body. An empty body leaves dst
// untouched. Type mismatches name the offending field.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return &core.ValidationError{Field: "body", Err: err}
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &core.ValidationError{Field: typeErr.Field, Err: errInvalidValue}
		}
		return &core.ValidationError{Field: "body", Err: errMalformedBody}
	}
	return nil
}

// parseTimestamp accepts RFC 3339 timestamps and plain YYYY-MM-DD days.
func parseTimestamp(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t = t.UTC()
		return &t, nil
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return nil, &core.ValidationError{Field: field, Err: core.ErrInvalidDate}
	}
	t := d.Time.UTC()
	return &t, nil
}

// transactionRequest is the body of POST and PUT /api/transactions. Amount
// may be given in cents or as a decimal string in major units.
type transactionRequest struct {
	AmountCents         *int64  `json:"amount_cents"`
	Amount              *string `json:"amount"`
	Category            *string `json:"category"`
	Vendor              *string `json:"vendor"`
	Note                *string `json:"note"`
	OccurredAt          *string `json:"occurred_at"`
	Type                *string `json:"type"`
	IsRecurring         *bool   `json:"is_recurring"`
	RecurrenceFrequency *string `json:"recurrence_frequency"`
}

func (req transactionRequest) amountCents() (*int64, error) {
	if req.AmountCents != nil || req.Amount == nil {
		return req.AmountCents, nil
	}
	cents, err := core.ParseDecimalToCents(*req.Amount)
	if err != nil {
		return nil, &core.ValidationError{Field: "amount", Err: err}
	}
	return &cents, nil
}

func (req transactionRequest) occurredAt() (*time.Time, error) {
	if req.OccurredAt == nil || strings.TrimSpace(*req.OccurredAt) == "" {
		return nil, nil
	}
	return parseTimestamp("occurred_at", *req.OccurredAt)
}

func (req transactionRequest) toNew() (services.NewTransaction, error) {
	amount, err := req.amountCents()
	if err != nil {
		return services.NewTransaction{}, err
	}
	occurred, err := req.occurredAt()
	if err != nil {
		return services.NewTransaction{}, err
	}
	in := services.NewTransaction{
		Category:    deref(req.Category),
		Vendor:      deref(req.Vendor),
		Note:        deref(req.Note),
		OccurredAt:  occurred,
		Type:        deref(req.Type),
		IsRecurring: req.IsRecurring != nil && *req.IsRecurring,
		Frequency:   deref(req.RecurrenceFrequency),
	}
	if amount != nil {
		in.AmountCents = *amount
	}
	return in, nil
}

func (req transactionRequest) toPatch() (services.TransactionPatch, error) {
	amount, err := req.amountCents()
	if err != nil {
		return services.TransactionPatch{}, err
	}
	occurred, err := req.occurredAt()
	if err != nil {
		return services.TransactionPatch{}, err
	}
	return services.TransactionPatch{
		AmountCents: amount,
		Category:    req.Category,
		Vendor:      req.Vendor,
		Note:        req.Note,
		OccurredAt:  occurred,
		Type:        req.Type,
		IsRecurring: req.IsRecurring,
		Frequency:   req.RecurrenceFrequency,
	}, nil
}

type categoryRequest struct {
	Name  *string `json:"category_name"`
	Icon  *string `json:"icon"`
	Color *string `json:"color"`
	Type  *string `json:"type"`
}

func (req categoryRequest) toNew() services.NewCategory {
	return services.NewCategory{
		Name:  deref(req.Name),
		Icon:  deref(req.Icon),
		Color: deref(req.Color),
		Type:  deref(req.Type),
	}
}

func (req categoryRequest) toPatch() services.CategoryPatch {
	return services.CategoryPatch{Name: req.Name, Icon: req.Icon, Color: req.Color, Type: req.Type}
}

type settingsRequest struct {
	CurrencyCode       *string `json:"currency_code"`
	WeeklyBudgetCents  *int64  `json:"weekly_budget_cents"`
	MonthlyBudgetCents *int64  `json:"monthly_budget_cents"`
	BudgetPeriod       *string `json:"budget_period"`
	WeekStart          *int    `json:"week_start"`
}

func (req settingsRequest) toPatch() services.SettingsPatch {
	return services.SettingsPatch{
		CurrencyCode:       req.CurrencyCode,
		WeeklyBudgetCents:  req.WeeklyBudgetCents,
		MonthlyBudgetCents: req.MonthlyBudgetCents,
		BudgetPeriod:       req.BudgetPeriod,
		WeekStart:          req.WeekStart,
	}
}

type usageRequest struct {
	Delta    *int64 `json:"delta"`
	MonthKey string `json:"month_key"`
}

// parseLimit reads ?limit=. Anything that is not an integer means "use the
// default" and is resolved by services.ClampLimit.
func parseLimit(query url.Values) int {
	n, err := strconv.Atoi(strings.TrimSpace(query.Get("limit")))
	if err != nil {
		return 0
	}
	return n
}

// queryTxType reads ?type=. Unknown values fall back to fallback, so a
// stale client filter never turns into an error.
func queryTxType(query url.Values, fallback core.TxType) core.TxType {
	switch t := core.TxType(strings.ToLower(strings.TrimSpace(query.Get("type")))); t {
	case core.Expense, core.Income:
		return t
	}
	return fallback
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
