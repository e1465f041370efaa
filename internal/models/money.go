package models

import (
	"bytes"

	"github.com/shopspring/decimal"
)

// Money is a fixed-point decimal amount. It behaves like decimal.Decimal
// everywhere except JSON, where it always renders with exactly two
// fractional digits, matching the wire format of every monetary field.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// MarshalJSON renders the amount as a plain JSON number with two
// fractional digits, e.g. 150.50.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(2)), nil
}

// UnmarshalJSON accepts both a JSON number and a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return err
	}
	m.Decimal = d
	return nil
}
