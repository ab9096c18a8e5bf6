package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Prices cross the wire inconsistently (sometimes a JSON number, sometimes a
// quoted string). They are normalized to an int64 in the smallest currency
// unit exactly once, at ingestion, and never re-parsed from display text.

// ParsePrice converts a wire-format price string into the smallest currency
// unit. The value must be a non-negative whole number of units.
func ParsePrice(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("unparseable price %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative price %q", s)
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("price %q has a fractional smallest unit", s)
	}
	// IntPart truncates silently past int64 range
	if d.Cmp(decimal.NewFromInt(1).Shift(18)) >= 0 {
		return 0, fmt.Errorf("price %q out of range", s)
	}
	return d.IntPart(), nil
}

// FormatPrice renders a smallest-unit price for display.
func FormatPrice(price int64) string {
	return decimal.NewFromInt(price).String()
}
