package service

import (
	"context"
	"fmt"

	"vendor-settlement-service/internal/core/domain"
	"vendor-settlement-service/internal/core/ports"
	"vendor-settlement-service/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LedgerServiceImpl implements ports.LedgerService. The ledger is derived
// from the order and withdrawal collections on every call, never stored.
type LedgerServiceImpl struct {
	vendorRepo     ports.VendorRepository
	orderRepo      ports.OrderRepository
	withdrawalRepo ports.WithdrawalRepository
	settingsSvc    ports.SettingsService
	log            zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	vendorRepo ports.VendorRepository,
	orderRepo ports.OrderRepository,
	withdrawalRepo ports.WithdrawalRepository,
	settingsSvc ports.SettingsService,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		vendorRepo:     vendorRepo,
		orderRepo:      orderRepo,
		withdrawalRepo: withdrawalRepo,
		settingsSvc:    settingsSvc,
		log:            log,
	}
}

// GetVendorLedger computes the vendor's settlement view: gross revenue,
// balances, withdrawal history and the commission breakdown at the current
// platform rate.
func (s *LedgerServiceImpl) GetVendorLedger(ctx context.Context, vendorID uuid.UUID) (*ports.LedgerView, error) {
	vendor, err := s.vendorRepo.GetByID(ctx, vendorID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get vendor: %w", err))
	}
	if vendor == nil {
		return nil, apperror.ErrNotFound("vendor")
	}

	orders, err := s.orderRepo.ListPaidByVendor(ctx, vendorID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list paid orders: %w", err))
	}

	withdrawals, err := s.withdrawalRepo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list withdrawals: %w", err))
	}

	settings, err := s.settingsSvc.Get(ctx)
	if err != nil {
		return nil, err
	}

	ledger := domain.BuildVendorLedger(vendorID, orders, withdrawals)
	breakdown := domain.CalculateCommission(ledger.GrossRevenue, settings.CommissionPercentage)

	return &ports.LedgerView{
		Ledger:     ledger,
		Commission: breakdown,
		Settings:   settings,
	}, nil
}
