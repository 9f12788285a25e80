package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Business-rule violations on withdrawal submission. The HTTP layer maps
// these to structured responses.
var (
	ErrInsufficientBalance = errors.New("amount exceeds available balance")
	ErrBelowMinimum        = errors.New("amount is below the minimum withdrawal")
)

// VendorLedger is the derived settlement view for one vendor. It is computed
// from the order and withdrawal collections on every request, never stored.
type VendorLedger struct {
	VendorID         uuid.UUID           `json:"vendor_id"`
	GrossRevenue     decimal.Decimal     `json:"gross_revenue"`
	AvailableBalance decimal.Decimal     `json:"available_balance"` // gross - approved
	ApprovedTotal    decimal.Decimal     `json:"approved_total"`
	PendingTotal     decimal.Decimal     `json:"pending_total"`
	History          []WithdrawalRequest `json:"history"`
}

// BuildVendorLedger folds the vendor's orders and withdrawal requests into
// the derived ledger view. Only orders whose payment status counts toward
// revenue contribute; withdrawal amounts are grouped by status. With no data
// all totals are zero, never negative or undefined.
func BuildVendorLedger(vendorID uuid.UUID, orders []Order, withdrawals []WithdrawalRequest) VendorLedger {
	gross := decimal.Zero
	for _, o := range orders {
		if o.PaymentStatus.CountsTowardRevenue() {
			gross = gross.Add(o.TotalAmount)
		}
	}

	approved := decimal.Zero
	pending := decimal.Zero
	for _, w := range withdrawals {
		switch w.Status {
		case WithdrawalStatusApproved:
			approved = approved.Add(w.Amount)
		case WithdrawalStatusPending:
			pending = pending.Add(w.Amount)
		}
	}

	return VendorLedger{
		VendorID:         vendorID,
		GrossRevenue:     gross,
		AvailableBalance: gross.Sub(approved),
		ApprovedTotal:    approved,
		PendingTotal:     pending,
		History:          withdrawals,
	}
}

// Spendable is the balance a new withdrawal request may claim. Pending
// requests reserve funds, so spendable = gross - approved - pending. This is
// stricter than AvailableBalance, which only subtracts money already paid out.
func (l VendorLedger) Spendable() decimal.Decimal {
	return l.GrossRevenue.Sub(l.ApprovedTotal).Sub(l.PendingTotal)
}

// CanWithdraw validates a prospective withdrawal amount against the ledger
// and platform settings. It reports the first violated rule.
func (l VendorLedger) CanWithdraw(amount decimal.Decimal, settings PlatformSettings) error {
	if amount.LessThan(settings.MinimumWithdrawalAmount) {
		return ErrBelowMinimum
	}
	if amount.GreaterThan(l.Spendable()) {
		return ErrInsufficientBalance
	}
	return nil
}
