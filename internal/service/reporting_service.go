package service

import (
	"context"
	"fmt"

	"vendor-settlement-service/internal/core/ports"
	"vendor-settlement-service/pkg/apperror"

	"github.com/rs/zerolog"
)

// ReportingServiceImpl implements ports.ReportingService.
type ReportingServiceImpl struct {
	orderRepo ports.OrderRepository
	log       zerolog.Logger
}

// NewReportingService creates a new ReportingServiceImpl.
func NewReportingService(orderRepo ports.OrderRepository, log zerolog.Logger) *ReportingServiceImpl {
	return &ReportingServiceImpl{orderRepo: orderRepo, log: log}
}

// GetPlatformReport aggregates all paid orders platform-wide: total revenue
// and order count, per-store revenue and UTC month buckets.
func (s *ReportingServiceImpl) GetPlatformReport(ctx context.Context) (*ports.PlatformReport, error) {
	stats, err := s.orderRepo.GetPlatformStats(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("platform stats: %w", err))
	}

	byStore, err := s.orderRepo.RevenueByStore(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("revenue by store: %w", err))
	}

	byMonth, err := s.orderRepo.RevenueByMonth(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("revenue by month: %w", err))
	}

	return &ports.PlatformReport{
		TotalRevenue:   stats.TotalRevenue,
		TotalOrders:    stats.TotalOrders,
		RevenueByStore: byStore,
		RevenueByMonth: byMonth,
	}, nil
}
