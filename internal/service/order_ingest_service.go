package service

import (
	"context"
	"fmt"
	"time"

	"vendor-settlement-service/internal/core/domain"
	"vendor-settlement-service/internal/core/ports"
	"vendor-settlement-service/pkg/apperror"
	"vendor-settlement-service/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderIngestServiceImpl implements ports.OrderIngestService. Payment events
// arrive from the gateway collaborator; ingestion is idempotent on event ID,
// so gateway redeliveries never double-count revenue.
type OrderIngestServiceImpl struct {
	orderRepo  ports.OrderRepository
	vendorRepo ports.VendorRepository
	log        zerolog.Logger
}

// NewOrderIngestService creates a new OrderIngestServiceImpl.
func NewOrderIngestService(orderRepo ports.OrderRepository, vendorRepo ports.VendorRepository, log zerolog.Logger) *OrderIngestServiceImpl {
	return &OrderIngestServiceImpl{
		orderRepo:  orderRepo,
		vendorRepo: vendorRepo,
		log:        log,
	}
}

// RecordPaymentEvent records an order from a verified payment event.
// Replayed events return the already-recorded order.
func (s *OrderIngestServiceImpl) RecordPaymentEvent(ctx context.Context, req ports.PaymentEventRequest) (*domain.Order, error) {
	if req.EventID == "" {
		return nil, apperror.Validation("event_id is required")
	}
	if !req.TotalAmount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if !req.Status.Valid() {
		return nil, apperror.Validation("unknown payment status")
	}

	existing, err := s.orderRepo.GetByEventID(ctx, req.EventID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("event replay check: %w", err))
	}
	if existing != nil {
		s.log.Debug().Str("event_id", req.EventID).Msg("payment event already recorded, returning existing order")
		return existing, nil
	}

	vendor, err := s.vendorRepo.GetByID(ctx, req.VendorID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get vendor: %w", err))
	}
	if vendor == nil {
		return nil, apperror.ErrNotFound("vendor")
	}

	createdAt := req.OccurredAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	order := &domain.Order{
		ID:            uuid.New(),
		EventID:       req.EventID,
		VendorID:      req.VendorID,
		TotalAmount:   req.TotalAmount,
		PaymentStatus: req.Status,
		CreatedAt:     createdAt,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create order: %w", err))
	}

	metrics.RecordOrderRecorded(order.TotalAmount)

	s.log.Info().
		Str("order_id", order.ID.String()).
		Str("event_id", order.EventID).
		Str("vendor_id", order.VendorID.String()).
		Str("amount", order.TotalAmount.String()).
		Str("status", string(order.PaymentStatus)).
		Msg("payment event recorded")

	return order, nil
}
