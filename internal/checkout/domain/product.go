package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Product is the authoritative price record held by the data store.
type Product struct {
	ID         string
	PriceCents int64
}

var maxCents = decimal.NewFromInt(math.MaxInt64)

// PriceToCents converts a stored major-unit price such as "20.00" into
// minor units. Prices finer than one cent are rejected rather than rounded.
func PriceToCents(price string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(price))
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", price, err)
	}
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("price %q has sub-cent precision", price)
	}
	if cents.Abs().GreaterThan(maxCents) {
		return 0, fmt.Errorf("price %q out of range", price)
	}
	return cents.IntPart(), nil
}
