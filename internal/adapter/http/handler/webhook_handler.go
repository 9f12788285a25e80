package handler

import (
	"time"

	"vendor-settlement-service/internal/adapter/http/dto"
	"vendor-settlement-service/internal/core/domain"
	"vendor-settlement-service/internal/core/ports"
	"vendor-settlement-service/pkg/apperror"
	"vendor-settlement-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WebhookHandler ingests verified payment events from the gateway. Signature
// verification happens in middleware before this handler runs.
type WebhookHandler struct {
	ingestSvc ports.OrderIngestService
}

func NewWebhookHandler(ingestSvc ports.OrderIngestService) *WebhookHandler {
	return &WebhookHandler{ingestSvc: ingestSvc}
}

// PaymentEvent handles POST /api/v1/webhooks/payment. Replayed events return
// the previously recorded order, so gateway retries are safe.
func (h *WebhookHandler) PaymentEvent(c *gin.Context) {
	var req dto.PaymentEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation("Invalid request body: "+err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		response.Error(c, apperror.Validation("vendor_id must be a UUID"))
		return
	}

	amount, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	var occurredAt time.Time
	if req.OccurredAt != "" {
		occurredAt, err = time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			response.Error(c, apperror.Validation("occurred_at must be RFC3339"))
			return
		}
	}

	order, err := h.ingestSvc.RecordPaymentEvent(c.Request.Context(), ports.PaymentEventRequest{
		EventID:     req.EventID,
		VendorID:    vendorID,
		TotalAmount: amount,
		Status:      domain.PaymentStatus(req.Status),
		OccurredAt:  occurredAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toOrderResponse(*order))
}
