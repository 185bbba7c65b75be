package core

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	DefaultExpenseCategory = "Other"
	DefaultIncomeCategory  = "Other Income"

	DefaultCustomIcon  = "✨"
	DefaultCustomColor = "#F6F6F6"
	customGradientEnd  = "#E5E7EB"
)

// CategoryStyle is the display metadata attached to a category name.
type CategoryStyle struct {
	Icon     string    `json:"icon"`
	Accent   string    `json:"accent"`
	Gradient [2]string `json:"gradient"`
}

// CategoryBucket is a category label with the sum of its amounts.
type CategoryBucket struct {
	Category   string `json:"category"`
	TotalCents int64  `json:"total_cents"`
}

// CatalogEntry is one selectable category for a transaction type.
type CatalogEntry struct {
	Name   string        `json:"name"`
	Type   TxType        `json:"type"`
	Custom bool          `json:"custom"`
	ID     string        `json:"id,omitempty"`
	Style  CategoryStyle `json:"style"`
}

var expenseCategories = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Bills & Utilities",
	"Entertainment",
	"Health & Fitness",
	"Travel",
	"Subscriptions",
	"Personal Care",
	"Education",
	"Gifts & Donations",
	DefaultExpenseCategory,
}

var incomeCategories = []string{
	"Salary/Wages",
	"Freelance/Gig",
	"Investment/Dividends",
	"Rental Income",
	"Business Income",
	"Gift Received",
	"Refund",
	"Side Hustle",
	DefaultIncomeCategory,
}

var expenseStyles = map[string]CategoryStyle{
	"Food & Dining":        {Icon: "🍽️", Accent: "#FFB8F3", Gradient: [2]string{"#FFB8F3", "#FFDCD5"}},
	"Transportation":       {Icon: "🚗", Accent: "#BFD4FF", Gradient: [2]string{"#BFD4FF", "#E5EFFF"}},
	"Shopping":             {Icon: "🛍️", Accent: "#D8CCFF", Gradient: [2]string{"#D8CCFF", "#BCF3EF"}},
	"Bills & Utilities":    {Icon: "🧾", Accent: "#FEF0B8", Gradient: [2]string{"#FEF0B8", "#FAD899"}},
	"Entertainment":        {Icon: "🎬", Accent: "#BCF3EF", Gradient: [2]string{"#BCF3EF", "#BFD4FF"}},
	"Health & Fitness":     {Icon: "🩺", Accent: "#FFDCD5", Gradient: [2]string{"#FFDCD5", "#FEF0B8"}},
	"Travel":               {Icon: "✈️", Accent: "#BCF3EF", Gradient: [2]string{"#BCF3EF", "#D8CCFF"}},
	"Subscriptions":        {Icon: "📱", Accent: "#FAD899", Gradient: [2]string{"#FAD899", "#FEF0B8"}},
	"Personal Care":        {Icon: "💅", Accent: "#FFDCD5", Gradient: [2]string{"#FFDCD5", "#FFB8F3"}},
	"Education":            {Icon: "📚", Accent: "#CBFACF", Gradient: [2]string{"#CBFACF", "#E9FFE9"}},
	"Gifts & Donations":    {Icon: "🎁", Accent: "#D8CCFF", Gradient: [2]string{"#D8CCFF", "#FEF0B8"}},
	DefaultExpenseCategory: {Icon: "✨", Accent: "#F6F6F6", Gradient: [2]string{"#F6F6F6", "#E5E7EB"}},
}

var incomeStyles = map[string]CategoryStyle{
	"Salary/Wages":         {Icon: "💰", Accent: "#10B981", Gradient: [2]string{"#10B981", "#34D399"}},
	"Freelance/Gig":        {Icon: "💼", Accent: "#3B82F6", Gradient: [2]string{"#3B82F6", "#60A5FA"}},
	"Investment/Dividends": {Icon: "📈", Accent: "#F59E0B", Gradient: [2]string{"#F59E0B", "#FBBF24"}},
	"Rental Income":        {Icon: "🏠", Accent: "#8B5CF6", Gradient: [2]string{"#8B5CF6", "#A78BFA"}},
	"Business Income":      {Icon: "🏢", Accent: "#06B6D4", Gradient: [2]string{"#06B6D4", "#22D3EE"}},
	"Gift Received":        {Icon: "🎁", Accent: "#EC4899", Gradient: [2]string{"#EC4899", "#F472B6"}},
	"Refund":               {Icon: "↩️", Accent: "#14B8A6", Gradient: [2]string{"#14B8A6", "#5EEAD4"}},
	"Side Hustle":          {Icon: "⚡", Accent: "#F97316", Gradient: [2]string{"#F97316", "#FB923C"}},
	DefaultIncomeCategory:  {Icon: "✨", Accent: "#6B7280", Gradient: [2]string{"#6B7280", "#9CA3AF"}},
}

// Categories returns the built-in category names for a type.
func Categories(t TxType) []string {
	src := expenseCategories
	if t == Income {
		src = incomeCategories
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// DefaultCategory is what an empty label normalizes to.
func DefaultCategory(t TxType) string {
	if t == Income {
		return DefaultIncomeCategory
	}
	return DefaultExpenseCategory
}

// Normalize maps a raw label onto its canonical spelling. Custom categories
// of the same type win over built-ins; unknown labels come back trimmed but
// otherwise untouched.
func Normalize(raw string, custom []CustomCategory, t TxType) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DefaultCategory(t)
	}
	if c, ok := findCustom(trimmed, custom, t); ok {
		return c.Name
	}
	for _, name := range builtins(t) {
		if strings.EqualFold(name, trimmed) {
			return name
		}
	}
	return trimmed
}

// MergeBuckets collapses buckets whose labels normalize to the same name and
// orders the result by total descending, then by name. Case variants of an
// ad-hoc label are shown with one spelling regardless of input order: a
// title-case variant if any, else the variant with the largest total.
func MergeBuckets(raw []CategoryBucket, custom []CustomCategory, t TxType) []CategoryBucket {
	index := make(map[string]int, len(raw))
	merged := make([]CategoryBucket, 0, len(raw))
	shown := make([]CategoryBucket, 0, len(raw))
	for _, b := range raw {
		name := Normalize(b.Category, custom, t)
		variant := CategoryBucket{Category: name, TotalCents: b.TotalCents}
		key := strings.ToLower(name)
		if i, ok := index[key]; ok {
			merged[i].TotalCents += b.TotalCents
			if preferSpelling(variant, shown[i]) {
				shown[i] = variant
				merged[i].Category = name
			}
			continue
		}
		index[key] = len(merged)
		merged = append(merged, variant)
		shown = append(shown, variant)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].TotalCents != merged[j].TotalCents {
			return merged[i].TotalCents > merged[j].TotalCents
		}
		return merged[i].Category < merged[j].Category
	})
	return merged
}

func preferSpelling(a, b CategoryBucket) bool {
	if ta, tb := isTitleCase(a.Category), isTitleCase(b.Category); ta != tb {
		return ta
	}
	if a.TotalCents != b.TotalCents {
		return a.TotalCents > b.TotalCents
	}
	return a.Category < b.Category
}

// isTitleCase reports whether every word starts upper case and continues
// lower case, e.g. "Food" or "Pet Supplies".
func isTitleCase(s string) bool {
	for _, w := range strings.Fields(s) {
		r, size := utf8.DecodeRuneInString(w)
		if unicode.IsLower(r) || strings.ToLower(w[size:]) != w[size:] {
			return false
		}
	}
	return s != ""
}

// StyleFor resolves icon and colors for a category name.
func StyleFor(name string, custom []CustomCategory, t TxType) CategoryStyle {
	if c, ok := findCustom(name, custom, t); ok {
		return customStyle(c)
	}
	styles := expenseStyles
	if t == Income {
		styles = incomeStyles
	}
	if s, ok := styles[name]; ok {
		return s
	}
	return styles[DefaultCategory(t)]
}

// Catalog lists built-in categories followed by the owner's custom ones.
func Catalog(custom []CustomCategory, t TxType) []CatalogEntry {
	out := make([]CatalogEntry, 0, len(builtins(t))+len(custom))
	for _, name := range builtins(t) {
		out = append(out, CatalogEntry{Name: name, Type: t, Style: StyleFor(name, nil, t)})
	}
	for _, c := range custom {
		if c.Type != t {
			continue
		}
		out = append(out, CatalogEntry{Name: c.Name, Type: t, Custom: true, ID: c.ID, Style: customStyle(c)})
	}
	return out
}

func builtins(t TxType) []string {
	if t == Income {
		return incomeCategories
	}
	return expenseCategories
}

func findCustom(name string, custom []CustomCategory, t TxType) (CustomCategory, bool) {
	name = strings.TrimSpace(name)
	for _, c := range custom {
		if c.Type == t && c.Name != "" && strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return CustomCategory{}, false
}

func customStyle(c CustomCategory) CategoryStyle {
	color := c.Color
	end := color
	if color == "" {
		color = DefaultCustomColor
		end = customGradientEnd
	}
	icon := c.Icon
	if icon == "" {
		icon = DefaultCustomIcon
	}
	return CategoryStyle{Icon: icon, Accent: color, Gradient: [2]string{color, end}}
}
