package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
)

var (
	strict   = bluemonday.StrictPolicy()
	maxPrice = decimal.New(1, 8)
)

// cleanText strips markup from free text; escaping is left to the templates.
func cleanText(s string) string {
	return html.UnescapeString(strict.Sanitize(s))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ParsePrice treats blank as zero and rejects anything that is not a non-negative number.
func ParsePrice(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() || d.GreaterThanOrEqual(maxPrice) {
		return decimal.Zero, false
	}
	return d.Round(2), true
}
