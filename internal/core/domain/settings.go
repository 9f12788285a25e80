package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlatformSettings is the singleton platform configuration row.
// Read on every settlement operation, mutated rarely by admin tooling.
type PlatformSettings struct {
	CommissionPercentage    decimal.Decimal `json:"commission_percentage"`     // [0, 100]
	MinimumWithdrawalAmount decimal.Decimal `json:"minimum_withdrawal_amount"` // >= 0
	UpdatedAt               time.Time       `json:"updated_at"`
}

// DefaultPlatformSettings returns the documented defaults applied when the
// settings row has never been written: 10% commission, 5000 minimum withdrawal.
func DefaultPlatformSettings() PlatformSettings {
	return PlatformSettings{
		CommissionPercentage:    decimal.NewFromInt(10),
		MinimumWithdrawalAmount: decimal.NewFromInt(5000),
	}
}
