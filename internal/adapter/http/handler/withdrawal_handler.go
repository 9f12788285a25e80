package handler

import (
	"strconv"

	"vendor-settlement-service/internal/adapter/http/dto"
	"vendor-settlement-service/internal/adapter/http/middleware"
	"vendor-settlement-service/internal/core/domain"
	"vendor-settlement-service/internal/core/ports"
	"vendor-settlement-service/pkg/apperror"
	"vendor-settlement-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// WithdrawalHandler serves the vendor-facing withdrawal endpoints.
type WithdrawalHandler struct {
	withdrawalSvc ports.WithdrawalService
}

func NewWithdrawalHandler(withdrawalSvc ports.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalSvc: withdrawalSvc}
}

// Submit handles POST /api/v1/withdrawals.
func (h *WithdrawalHandler) Submit(c *gin.Context) {
	vendorID, ok := middleware.SubjectID(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthenticated())
		return
	}

	var req dto.SubmitWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation("Invalid request body: "+err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	w, err := h.withdrawalSvc.Submit(c.Request.Context(), ports.SubmitWithdrawalRequest{
		VendorID:      vendorID,
		Amount:        amount,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toWithdrawalResponse(*w))
}

// List handles GET /api/v1/withdrawals. Results are always scoped to the
// authenticated vendor.
func (h *WithdrawalHandler) List(c *gin.Context) {
	vendorID, ok := middleware.SubjectID(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthenticated())
		return
	}

	params, err := parseListParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	items, total, err := h.withdrawalSvc.ListForVendor(c.Request.Context(), vendorID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWithdrawalListResponse(items, total, pageOrDefault(params.Page), params.PageSize))
}

// parseListParams reads the shared pagination and status-filter query
// parameters.
func parseListParams(c *gin.Context) (ports.WithdrawalListParams, error) {
	var params ports.WithdrawalListParams

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return params, apperror.Validation("page must be a positive integer")
		}
		params.Page = page
	}
	if raw := c.Query("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return params, apperror.Validation("page_size must be a positive integer")
		}
		params.PageSize = size
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.WithdrawalStatus(raw)
		if !status.Valid() {
			return params, apperror.Validation("status must be pending, approved, or rejected")
		}
		params.Status = &status
	}

	return params, nil
}

func pageOrDefault(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
