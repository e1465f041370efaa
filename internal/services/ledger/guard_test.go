package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCheckAmount(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{"10", false},
		{"10.5", false},
		{"10.55", false},
		{"0.01", false},
		{"150.50", false},
		{"10.550", false}, // trailing zeros are still two significant decimals
		{"0", true},
		{"0.00", true},
		{"-5", true},
		{"-0.01", true},
		{"10.555", true},
		{"0.001", true},
	}
	for _, tt := range tests {
		err := CheckAmount(decimal.RequireFromString(tt.raw))
		if tt.wantErr {
			assert.Error(t, err, "amount %s", tt.raw)
		} else {
			assert.NoError(t, err, "amount %s", tt.raw)
		}
	}
}
