package handler

import (
	"time"

	"vendor-settlement-service/internal/adapter/http/dto"
	"vendor-settlement-service/internal/core/domain"
	"vendor-settlement-service/internal/core/ports"
)

func toWithdrawalResponse(w domain.WithdrawalRequest) dto.WithdrawalResponse {
	resp := dto.WithdrawalResponse{
		ID:            w.ID.String(),
		VendorID:      w.VendorID.String(),
		Amount:        w.Amount.String(),
		BankName:      w.BankName,
		AccountNumber: w.MaskedAccountNumber(),
		AccountName:   w.AccountName,
		Status:        string(w.Status),
		AdminNotes:    w.AdminNotes,
		CreatedAt:     w.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     w.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if w.ReviewedBy != nil {
		s := w.ReviewedBy.String()
		resp.ReviewedBy = &s
	}
	if w.ReviewedAt != nil {
		s := w.ReviewedAt.UTC().Format(time.RFC3339)
		resp.ReviewedAt = &s
	}
	return resp
}

func toWithdrawalResponses(ws []domain.WithdrawalRequest) []dto.WithdrawalResponse {
	out := make([]dto.WithdrawalResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, toWithdrawalResponse(w))
	}
	return out
}

func toWithdrawalListResponse(ws []domain.WithdrawalRequest, total int64, page, pageSize int) dto.WithdrawalListResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return dto.WithdrawalListResponse{
		Items:      toWithdrawalResponses(ws),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

func toCommissionResponse(b domain.CommissionBreakdown) dto.CommissionResponse {
	return dto.CommissionResponse{
		GrossAmount:      b.GrossAmount.String(),
		CommissionRate:   b.CommissionRate.String(),
		CommissionAmount: b.CommissionAmount.String(),
		NetAmount:        b.NetAmount.String(),
	}
}

func toLedgerResponse(v ports.LedgerView) dto.LedgerResponse {
	return dto.LedgerResponse{
		VendorID:          v.Ledger.VendorID.String(),
		GrossRevenue:      v.Ledger.GrossRevenue.String(),
		AvailableBalance:  v.Ledger.AvailableBalance.String(),
		PendingTotal:      v.Ledger.PendingTotal.String(),
		ApprovedTotal:     v.Ledger.ApprovedTotal.String(),
		Commission:        toCommissionResponse(v.Commission),
		MinimumWithdrawal: v.Settings.MinimumWithdrawalAmount.String(),
		History:           toWithdrawalResponses(v.Ledger.History),
	}
}

func toReportResponse(r ports.PlatformReport) dto.PlatformReportResponse {
	stores := make([]dto.StoreRevenueResponse, 0, len(r.RevenueByStore))
	for _, s := range r.RevenueByStore {
		stores = append(stores, dto.StoreRevenueResponse{
			VendorID:   s.VendorID.String(),
			StoreName:  s.StoreName,
			Revenue:    s.Revenue.String(),
			OrderCount: s.OrderCount,
		})
	}
	months := make(map[string]string, len(r.RevenueByMonth))
	for k, v := range r.RevenueByMonth {
		months[k] = v.String()
	}
	return dto.PlatformReportResponse{
		TotalRevenue:   r.TotalRevenue.String(),
		TotalOrders:    r.TotalOrders,
		RevenueByStore: stores,
		RevenueByMonth: months,
	}
}

func toOrderResponse(o domain.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:            o.ID.String(),
		EventID:       o.EventID,
		VendorID:      o.VendorID.String(),
		TotalAmount:   o.TotalAmount.String(),
		PaymentStatus: string(o.PaymentStatus),
		CreatedAt:     o.CreatedAt.UTC().Format(time.RFC3339),
	}
}
