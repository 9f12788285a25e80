package handler

import (
	"vendor-settlement-service/internal/adapter/http/middleware"
	"vendor-settlement-service/internal/core/ports"
	"vendor-settlement-service/pkg/apperror"
	"vendor-settlement-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// LedgerHandler serves the vendor settlement view.
type LedgerHandler struct {
	ledgerSvc ports.LedgerService
}

func NewLedgerHandler(ledgerSvc ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

// GetLedger handles GET /api/v1/ledger. The view is always computed for the
// authenticated vendor.
func (h *LedgerHandler) GetLedger(c *gin.Context) {
	vendorID, ok := middleware.SubjectID(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthenticated())
		return
	}

	view, err := h.ledgerSvc.GetVendorLedger(c.Request.Context(), vendorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toLedgerResponse(*view))
}
