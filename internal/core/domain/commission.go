package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidRate is returned when a commission rate makes a computation
// undefined (rate outside [0, 100], or rate = 100 when inverting net revenue).
var ErrInvalidRate = errors.New("commission rate must be in [0, 100) for this operation")

var oneHundred = decimal.NewFromInt(100)

// CommissionBreakdown is the result of applying the platform commission rate
// to a gross amount. CommissionAmount + NetAmount always equals GrossAmount.
type CommissionBreakdown struct {
	GrossAmount      decimal.Decimal `json:"gross_amount"`
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	NetAmount        decimal.Decimal `json:"net_amount"`
}

// CalculateCommission applies rate (a percentage) to gross.
// Inputs are validated upstream: gross >= 0 and 0 <= rate <= 100.
// The commission is rounded to two decimal places; the net amount is derived
// by subtraction so the breakdown always sums back to the gross.
func CalculateCommission(gross, rate decimal.Decimal) CommissionBreakdown {
	commission := gross.Mul(rate).Div(oneHundred).Round(2)
	return CommissionBreakdown{
		GrossAmount:      gross,
		CommissionRate:   rate,
		CommissionAmount: commission,
		NetAmount:        gross.Sub(commission),
	}
}

// NetRevenue returns gross * (1 - rate/100).
func NetRevenue(gross, rate decimal.Decimal) decimal.Decimal {
	return CalculateCommission(gross, rate).NetAmount
}

// GrossFromNet inverts NetRevenue: net / (1 - rate/100).
// Returns ErrInvalidRate when rate = 100 (the inversion is undefined) or when
// rate lies outside [0, 100].
func GrossFromNet(net, rate decimal.Decimal) (decimal.Decimal, error) {
	if rate.IsNegative() || rate.GreaterThanOrEqual(oneHundred) {
		return decimal.Zero, ErrInvalidRate
	}
	factor := decimal.NewFromInt(1).Sub(rate.Div(oneHundred))
	return net.Div(factor), nil
}
