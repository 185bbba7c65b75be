package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	Expense TxType = "expense"
	Income  TxType = "income"
)

const (
	Weekly    Frequency = "weekly"
	Biweekly  Frequency = "biweekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Annually  Frequency = "annually"
)

const (
	PeriodWeekly  BudgetPeriod = "weekly"
	PeriodMonthly BudgetPeriod = "monthly"
)

const (
	DefaultCurrency  = "USD"
	DefaultWeekStart = 1 // ISO weekday, Monday

	maxVendorLength   = 200
	maxNoteLength     = 500
	maxCategoryLength = 60
)

type (
	TxType       string
	Frequency    string
	BudgetPeriod string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is one dated expense or income entry. Category is free
	// text; it is normalized on read, never constrained on write.
	Transaction struct {
		ID          string
		Owner       string
		Amount      Money
		Category    string
		Vendor      string
		Note        string
		OccurredAt  time.Time
		CreatedAt   time.Time
		Type        TxType
		IsRecurring bool
		Frequency   Frequency // empty unless IsRecurring
	}

	CustomCategory struct {
		ID        string
		Owner     string
		Name      string
		Icon      string
		Color     string
		Type      TxType
		CreatedAt time.Time
	}

	BudgetSettings struct {
		Owner         string
		CurrencyCode  string
		WeeklyBudget  Money
		MonthlyBudget Money
		Period        BudgetPeriod
		WeekStart     int
		UpdatedAt     time.Time
	}

	// VendorCategory remembers the last category an owner used for a vendor.
	VendorCategory struct {
		VendorKey string
		Category  string
		UpdatedAt time.Time
	}
)

var (
	ErrInvalidDay        = errors.New("invalid day")
	ErrInvalidMonth      = errors.New("invalid month")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyCategory     = errors.New("empty category")
	ErrCategoryTooLong   = errors.New("category too long")
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrInvalidFrequency  = errors.New("invalid recurrence frequency")
	ErrFrequencyRequired = errors.New("recurring transaction needs a frequency")
	ErrTooLong           = errors.New("value too long")
	ErrInvalidPeriod     = errors.New("invalid budget period")
	ErrInvalidWeekStart  = errors.New("week start must be an ISO weekday 1-7")
	ErrInvalidCurrency   = errors.New("invalid currency code")
	ErrInvalidColor      = errors.New("invalid color")
	ErrInvalidRange      = errors.New("invalid date range")
	ErrNoFields          = errors.New("no fields to update")
)

// ValidationError ties a validation failure to the request field that caused it.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

var (
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	colorPattern    = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// NewDate creates a new Date from year, month, day at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a calendar day in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t TxType) Valid() bool {
	return t == Expense || t == Income
}

// ParseTxType maps an optional request value to a type; empty means expense.
func ParseTxType(s string) (TxType, error) {
	switch TxType(strings.ToLower(strings.TrimSpace(s))) {
	case "", Expense:
		return Expense, nil
	case Income:
		return Income, nil
	}
	return "", ErrInvalidType
}

func (f Frequency) Valid() bool {
	switch f {
	case Weekly, Biweekly, Monthly, Quarterly, Annually:
		return true
	}
	return false
}

func (p BudgetPeriod) Valid() bool {
	return p == PeriodWeekly || p == PeriodMonthly
}

func (tx Transaction) Validate() error {
	if err := tx.Amount.Validate(); err != nil {
		return invalid("amount_cents", err)
	}
	category := strings.TrimSpace(tx.Category)
	if category == "" {
		return invalid("category", ErrEmptyCategory)
	}
	if len(category) > maxCategoryLength {
		return invalid("category", ErrCategoryTooLong)
	}
	if !tx.Type.Valid() {
		return invalid("type", ErrInvalidType)
	}
	if tx.OccurredAt.IsZero() {
		return invalid("occurred_at", ErrInvalidDate)
	}
	if len(tx.Vendor) > maxVendorLength {
		return invalid("vendor", ErrTooLong)
	}
	if len(tx.Note) > maxNoteLength {
		return invalid("note", ErrTooLong)
	}
	switch {
	case tx.IsRecurring && tx.Frequency == "":
		return invalid("recurrence_frequency", ErrFrequencyRequired)
	case tx.IsRecurring && !tx.Frequency.Valid():
		return invalid("recurrence_frequency", ErrInvalidFrequency)
	case !tx.IsRecurring && tx.Frequency != "":
		return invalid("recurrence_frequency", ErrInvalidFrequency)
	}
	return nil
}

func (c CustomCategory) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return invalid("category_name", ErrEmptyCategory)
	}
	if len(name) > maxCategoryLength {
		return invalid("category_name", ErrCategoryTooLong)
	}
	if !c.Type.Valid() {
		return invalid("type", ErrInvalidType)
	}
	if c.Color != "" && !colorPattern.MatchString(c.Color) {
		return invalid("color", ErrInvalidColor)
	}
	return nil
}

// WithDefaults fills the icon and color a custom category gets when the
// user does not pick one.
func (c CustomCategory) WithDefaults() CustomCategory {
	c.Name = strings.TrimSpace(c.Name)
	if c.Icon == "" {
		c.Icon = DefaultCustomIcon
	}
	if c.Color == "" {
		c.Color = DefaultCustomColor
	}
	if c.Type == "" {
		c.Type = Expense
	}
	return c
}

// DefaultSettings returns the settings row created lazily for a new owner.
func DefaultSettings(owner string) BudgetSettings {
	return BudgetSettings{
		Owner:        owner,
		CurrencyCode: DefaultCurrency,
		Period:       PeriodWeekly,
		WeekStart:    DefaultWeekStart,
	}
}

func (s BudgetSettings) Validate() error {
	if s.WeeklyBudget.Cents < 0 {
		return invalid("weekly_budget_cents", ErrInvalidAmount)
	}
	if s.MonthlyBudget.Cents < 0 {
		return invalid("monthly_budget_cents", ErrInvalidAmount)
	}
	if !s.Period.Valid() {
		return invalid("budget_period", ErrInvalidPeriod)
	}
	if s.WeekStart < 1 || s.WeekStart > 7 {
		return invalid("week_start", ErrInvalidWeekStart)
	}
	if !currencyPattern.MatchString(s.CurrencyCode) {
		return invalid("currency_code", ErrInvalidCurrency)
	}
	return nil
}

// ActiveBudget returns the stored budget for the configured period.
func (s BudgetSettings) ActiveBudget() Money {
	if s.Period == PeriodMonthly {
		return s.MonthlyBudget
	}
	return s.WeeklyBudget
}
