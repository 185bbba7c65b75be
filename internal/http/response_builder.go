// Package http provides HTTP server and handler implementations.
//
// This file implements the Builder Pattern for JSON responses and the wire
// shapes of the resources the API returns.

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"budgetpace/internal/core"
)

// Timestamps are ISO-8601 UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	body       any
	headers    map[string]string
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the value encoded as the response body.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Write encodes the body before touching the writer, so an encoding failure
// still produces a clean 500.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	var payload []byte
	if b.body != nil {
		var err error
		payload, err = json.Marshal(b.body)
		if err != nil {
			slog.Error("Failed to encode response", "component", "http", "error", err)
			b.statusCode = http.StatusInternalServerError
			payload = []byte(`{"error":"internal error"}`)
		}
	}

	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	if len(payload) > 0 {
		_, _ = w.Write(append(payload, '\n'))
	}
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// ErrorResponse creates a standard JSON error response.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Body(errorBody{Error: message})
}

// FieldError creates a 400 naming the offending request field.
func FieldError(field, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(http.StatusBadRequest).Body(errorBody{Error: message, Field: field})
}

func UnauthorizedError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusUnauthorized, "unauthorized")
}

func NotFoundError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, "not found")
}

func ConflictError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusConflict, message)
}

func TooManyRequestsError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, retry later")
}

func InternalServerError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, "internal error")
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// nullable maps the empty string to JSON null.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type transactionJSON struct {
	ID                  string  `json:"id"`
	AmountCents         int64   `json:"amount_cents"`
	Vendor              *string `json:"vendor"`
	Category            string  `json:"category"`
	Note                *string `json:"note"`
	OccurredAt          string  `json:"occurred_at"`
	CreatedAt           string  `json:"created_at"`
	Type                string  `json:"type"`
	IsRecurring         bool    `json:"is_recurring"`
	RecurrenceFrequency *string `json:"recurrence_frequency"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:                  t.ID,
		AmountCents:         t.Amount.Cents,
		Vendor:              nullable(t.Vendor),
		Category:            t.Category,
		Note:                nullable(t.Note),
		OccurredAt:          formatTimestamp(t.OccurredAt),
		CreatedAt:           formatTimestamp(t.CreatedAt),
		Type:                string(t.Type),
		IsRecurring:         t.IsRecurring,
		RecurrenceFrequency: nullable(string(t.Frequency)),
	}
}

type categoryJSON struct {
	ID        string `json:"id"`
	Name      string `json:"category_name"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
}

func toCategoryJSON(c core.CustomCategory) categoryJSON {
	return categoryJSON{
		ID:        c.ID,
		Name:      c.Name,
		Icon:      c.Icon,
		Color:     c.Color,
		Type:      string(c.Type),
		CreatedAt: formatTimestamp(c.CreatedAt),
	}
}

type settingsJSON struct {
	CurrencyCode       string `json:"currency_code"`
	WeeklyBudgetCents  int64  `json:"weekly_budget_cents"`
	MonthlyBudgetCents int64  `json:"monthly_budget_cents"`
	BudgetPeriod       string `json:"budget_period"`
	WeekStart          int    `json:"week_start"`
	UpdatedAt          string `json:"updated_at"`
}

func toSettingsJSON(s core.BudgetSettings) settingsJSON {
	return settingsJSON{
		CurrencyCode:       s.CurrencyCode,
		WeeklyBudgetCents:  s.WeeklyBudget.Cents,
		MonthlyBudgetCents: s.MonthlyBudget.Cents,
		BudgetPeriod:       string(s.Period),
		WeekStart:          s.WeekStart,
		UpdatedAt:          formatTimestamp(s.UpdatedAt),
	}
}

type vendorJSON struct {
	VendorKey string `json:"vendor_key"`
	Category  string `json:"category"`
	UpdatedAt string `json:"updated_at"`
}

func toVendorJSON(v core.VendorCategory) vendorJSON {
	return vendorJSON{VendorKey: v.VendorKey, Category: v.Category, UpdatedAt: formatTimestamp(v.UpdatedAt)}
}

// mapSlice converts every element with fn and never returns nil.
func mapSlice[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
