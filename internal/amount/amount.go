package amount

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Converter translates between the ledger's integer minor-unit amounts
// (NQT) and human-readable major-unit decimals. All arithmetic is exact
// decimal arithmetic; binary floats would lose precision above 2^53 NQT.
type Converter struct {
	decimals int32
}

// NewConverter builds a converter for a fixed number of decimal places.
// The scale factor is 10^decimals (8 for NQT).
func NewConverter(decimals int32) *Converter {
	return &Converter{decimals: decimals}
}

// ToMajor converts a minor-unit string ("150000000") to its major-unit
// representation ("1.5").
func (c *Converter) ToMajor(minor string) (string, error) {
	d, err := decimal.NewFromString(minor)
	if err != nil {
		return "", fmt.Errorf("invalid minor amount %q: %w", minor, err)
	}
	if d.IsNegative() {
		return "", fmt.Errorf("negative amount %q not allowed", minor)
	}
	if !d.Equal(d.Truncate(0)) {
		return "", fmt.Errorf("minor amount %q must be an integer", minor)
	}
	return trimFraction(d.Shift(-c.decimals).String()), nil
}

// trimFraction strips trailing fractional zeros ("1.50000000" -> "1.5",
// "2.00000000" -> "2"); decimal.String preserves the shifted exponent.
func trimFraction(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// ToMinor converts a major-unit string ("1.5") to its minor-unit
// representation ("150000000"). Input with more than `decimals`
// fractional digits is rejected rather than silently truncated.
func (c *Converter) ToMinor(major string) (string, error) {
	d, err := decimal.NewFromString(major)
	if err != nil {
		return "", fmt.Errorf("invalid major amount %q: %w", major, err)
	}
	if d.IsNegative() {
		return "", fmt.Errorf("negative amount %q not allowed", major)
	}
	minor := d.Shift(c.decimals)
	if !minor.Equal(minor.Truncate(0)) {
		return "", fmt.Errorf("amount %q has more than %d decimal places", major, c.decimals)
	}
	return minor.Truncate(0).String(), nil
}
