package model

import (
	"bytes"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value that decodes from JSON numbers or numeric
// strings. Anything else decodes to zero.
type Amount struct {
	decimal.Decimal
}

func NewAmount(f float64) *Amount {
	return &Amount{Decimal: decimal.NewFromFloat(f)}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = d
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.StringFixed(2)), nil
}

// Value returns the amount or zero for a nil pointer.
func (a *Amount) Value() decimal.Decimal {
	if a == nil {
		return decimal.Zero
	}
	return a.Decimal
}
