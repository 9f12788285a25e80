package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vendor-settlement-service/internal/core/domain"
	"vendor-settlement-service/internal/core/ports"
	"vendor-settlement-service/pkg/apperror"
	"vendor-settlement-service/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Withdrawal event types published to the settlement stream.
const (
	EventWithdrawalRequested = "withdrawal.requested"
	EventWithdrawalApproved  = "withdrawal.approved"
	EventWithdrawalRejected  = "withdrawal.rejected"
)

// WithdrawalServiceImpl implements ports.WithdrawalService.
//
// Submission runs inside a database transaction holding the vendor row lock,
// so two concurrent requests against the same balance serialize and the
// second one sees the first one's pending reservation. Review relies on a
// conditional UPDATE instead: the status predicate makes the transition
// atomic without locking.
type WithdrawalServiceImpl struct {
	vendorRepo     ports.VendorRepository
	orderRepo      ports.OrderRepository
	withdrawalRepo ports.WithdrawalRepository
	settingsSvc    ports.SettingsService
	transactor     ports.DBTransactor
	notifier       ports.NotificationSender
	publisher      ports.EventPublisher
	log            zerolog.Logger
}

// NewWithdrawalService creates a new WithdrawalServiceImpl.
func NewWithdrawalService(
	vendorRepo ports.VendorRepository,
	orderRepo ports.OrderRepository,
	withdrawalRepo ports.WithdrawalRepository,
	settingsSvc ports.SettingsService,
	transactor ports.DBTransactor,
	notifier ports.NotificationSender,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) *WithdrawalServiceImpl {
	return &WithdrawalServiceImpl{
		vendorRepo:     vendorRepo,
		orderRepo:      orderRepo,
		withdrawalRepo: withdrawalRepo,
		settingsSvc:    settingsSvc,
		transactor:     transactor,
		notifier:       notifier,
		publisher:      publisher,
		log:            log,
	}
}

// Submit validates a withdrawal request against the vendor's spendable
// balance and records it as pending.
func (s *WithdrawalServiceImpl) Submit(ctx context.Context, req ports.SubmitWithdrawalRequest) (*domain.WithdrawalRequest, error) {
	if !domain.ValidateAmount(req.Amount) {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.BankName == "" || req.AccountNumber == "" || req.AccountName == "" {
		return nil, apperror.Validation("bank_name, account_number and account_name are required")
	}

	settings, err := s.settingsSvc.Get(ctx)
	if err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock the vendor row: concurrent submissions for this vendor serialize here.
	vendor, err := s.vendorRepo.GetByIDForUpdate(ctx, dbTx, req.VendorID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock vendor: %w", err))
	}
	if vendor == nil {
		return nil, apperror.ErrNotFound("vendor")
	}
	if !vendor.IsActive() {
		return nil, apperror.ErrVendorSuspended()
	}

	gross, err := s.orderRepo.SumPaidByVendor(ctx, dbTx, req.VendorID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("sum revenue: %w", err))
	}
	approved, pending, err := s.withdrawalRepo.SumByStatus(ctx, dbTx, req.VendorID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("sum withdrawals: %w", err))
	}

	ledger := domain.VendorLedger{
		VendorID:         req.VendorID,
		GrossRevenue:     gross,
		AvailableBalance: gross.Sub(approved),
		ApprovedTotal:    approved,
		PendingTotal:     pending,
	}
	if err := ledger.CanWithdraw(req.Amount, settings); err != nil {
		switch {
		case errors.Is(err, domain.ErrBelowMinimum):
			return nil, apperror.ErrBelowMinimum(settings.MinimumWithdrawalAmount.String())
		case errors.Is(err, domain.ErrInsufficientBalance):
			return nil, apperror.ErrInsufficientBalance()
		default:
			return nil, apperror.InternalError(err)
		}
	}

	now := time.Now().UTC()
	w := &domain.WithdrawalRequest{
		ID:            uuid.New(),
		VendorID:      req.VendorID,
		Amount:        req.Amount,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
		Status:        domain.WithdrawalStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.withdrawalRepo.Create(ctx, dbTx, w); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create withdrawal: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.publishEvent(ctx, EventWithdrawalRequested, w)
	metrics.RecordWithdrawalSubmitted(w.Amount)

	s.log.Info().
		Str("request_id", w.ID.String()).
		Str("vendor_id", w.VendorID.String()).
		Str("amount", w.Amount.String()).
		Msg("withdrawal request submitted")

	return w, nil
}

// Review applies an admin decision to a pending request. The transition is
// idempotent: reviewing a request that already carries the requested terminal
// status returns it unchanged, while a different terminal status conflicts.
func (s *WithdrawalServiceImpl) Review(ctx context.Context, req ports.ReviewWithdrawalRequest) (*domain.WithdrawalRequest, error) {
	if !domain.CanTransition(domain.WithdrawalStatusPending, req.Status) {
		return nil, apperror.Validation("status must be approved or rejected")
	}

	updated, err := s.withdrawalRepo.UpdateStatusIfPending(ctx, req.RequestID, req.Status, req.AdminNotes, req.AdminID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update withdrawal status: %w", err))
	}

	w, err := s.withdrawalRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("reload withdrawal: %w", err))
	}
	if w == nil {
		return nil, apperror.ErrNotFound("withdrawal request")
	}

	if !updated {
		if w.Status == req.Status {
			// A retry of the same decision. Nothing changed, report success.
			return w, nil
		}
		return nil, apperror.ErrAlreadyReviewed()
	}

	s.notifyReviewed(ctx, w)

	eventType := EventWithdrawalApproved
	if w.Status == domain.WithdrawalStatusRejected {
		eventType = EventWithdrawalRejected
	}
	s.publishEvent(ctx, eventType, w)
	metrics.RecordWithdrawalReviewed(string(w.Status), w.Amount)

	s.log.Info().
		Str("request_id", w.ID.String()).
		Str("admin_id", req.AdminID.String()).
		Str("status", string(w.Status)).
		Msg("withdrawal request reviewed")

	return w, nil
}

// ListForVendor returns the vendor's own requests, scoped regardless of the
// filter the caller supplies.
func (s *WithdrawalServiceImpl) ListForVendor(ctx context.Context, vendorID uuid.UUID, params ports.WithdrawalListParams) ([]domain.WithdrawalRequest, int64, error) {
	params.VendorID = &vendorID
	normalizeListParams(&params)

	list, total, err := s.withdrawalRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list withdrawals: %w", err))
	}
	return list, total, nil
}

// ListForReview returns the admin queue across all vendors.
func (s *WithdrawalServiceImpl) ListForReview(ctx context.Context, params ports.WithdrawalListParams) ([]domain.WithdrawalRequest, int64, error) {
	normalizeListParams(&params)

	list, total, err := s.withdrawalRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list withdrawals: %w", err))
	}
	return list, total, nil
}

// notifyReviewed sends the vendor a notification about the decision.
// Best-effort: failures are logged and never surface to the admin.
func (s *WithdrawalServiceImpl) notifyReviewed(ctx context.Context, w *domain.WithdrawalRequest) {
	vendor, err := s.vendorRepo.GetByID(ctx, w.VendorID)
	if err != nil || vendor == nil {
		s.log.Warn().Err(err).Str("vendor_id", w.VendorID.String()).Msg("notification skipped: vendor lookup failed")
		return
	}

	n := ports.WithdrawalNotification{
		VendorName:    vendor.Name,
		VendorEmail:   vendor.Email,
		Amount:        w.Amount,
		Status:        w.Status,
		BankName:      w.BankName,
		AccountNumber: w.MaskedAccountNumber(),
		AdminNotes:    w.AdminNotes,
	}
	if err := s.notifier.SendWithdrawalReviewed(ctx, n); err != nil {
		s.log.Warn().Err(err).Str("request_id", w.ID.String()).Msg("failed to send review notification")
	}
}

// publishEvent publishes a withdrawal lifecycle event. Best-effort.
func (s *WithdrawalServiceImpl) publishEvent(ctx context.Context, eventType string, w *domain.WithdrawalRequest) {
	evt := ports.WithdrawalEvent{
		Type:       eventType,
		RequestID:  w.ID,
		VendorID:   w.VendorID,
		Amount:     w.Amount,
		Status:     string(w.Status),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishWithdrawalEvent(ctx, evt); err != nil {
		s.log.Warn().Err(err).Str("request_id", w.ID.String()).Str("type", eventType).Msg("failed to publish withdrawal event")
	}
}

func normalizeListParams(p *ports.WithdrawalListParams) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > maxPageSize {
		p.PageSize = defaultPageSize
	}
}
