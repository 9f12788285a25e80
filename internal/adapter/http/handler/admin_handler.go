package handler

import (
	"vendor-settlement-service/internal/adapter/http/dto"
	"vendor-settlement-service/internal/adapter/http/middleware"
	"vendor-settlement-service/internal/core/domain"
	"vendor-settlement-service/internal/core/ports"
	"vendor-settlement-service/pkg/apperror"
	"vendor-settlement-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler serves the admin review and reporting endpoints.
type AdminHandler struct {
	withdrawalSvc ports.WithdrawalService
	reportingSvc  ports.ReportingService
}

func NewAdminHandler(withdrawalSvc ports.WithdrawalService, reportingSvc ports.ReportingService) *AdminHandler {
	return &AdminHandler{
		withdrawalSvc: withdrawalSvc,
		reportingSvc:  reportingSvc,
	}
}

// ListWithdrawals handles GET /api/v1/admin/withdrawals. Admins see all
// vendors, optionally filtered by vendor_id and status.
func (h *AdminHandler) ListWithdrawals(c *gin.Context) {
	params, err := parseListParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if raw := c.Query("vendor_id"); raw != "" {
		vendorID, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, apperror.Validation("vendor_id must be a UUID"))
			return
		}
		params.VendorID = &vendorID
	}

	items, total, err := h.withdrawalSvc.ListForReview(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWithdrawalListResponse(items, total, pageOrDefault(params.Page), params.PageSize))
}

// ReviewWithdrawal handles PATCH /api/v1/admin/withdrawals/:id. The decision
// is final: a reviewed request cannot be reviewed again.
func (h *AdminHandler) ReviewWithdrawal(c *gin.Context) {
	adminID, ok := middleware.SubjectID(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthenticated())
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("withdrawal id must be a UUID"))
		return
	}

	var req dto.ReviewWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation("Invalid request body: "+err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	w, err := h.withdrawalSvc.Review(c.Request.Context(), ports.ReviewWithdrawalRequest{
		RequestID:  requestID,
		AdminID:    adminID,
		Status:     domain.WithdrawalStatus(req.Status),
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWithdrawalResponse(*w))
}

// GetRevenueReport handles GET /api/v1/admin/reports.
func (h *AdminHandler) GetRevenueReport(c *gin.Context) {
	report, err := h.reportingSvc.GetPlatformReport(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toReportResponse(*report))
}
