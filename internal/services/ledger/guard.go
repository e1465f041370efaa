package ledger

import (
	"github.com/shopspring/decimal"

	apperrors "payvault/internal/errors"
)

// CheckAmount enforces the monetary invariant on every engine entry
// point: strictly positive and representable with at most two fractional
// digits.
func CheckAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	if amount.Exponent() < -2 && !amount.Equal(amount.Truncate(2)) {
		return apperrors.ErrInvalidAmount
	}
	return nil
}
