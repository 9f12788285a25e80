package handler

import (
	"vendor-settlement-service/internal/core/ports"
	"vendor-settlement-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// SettingsHandler serves the public platform settings.
type SettingsHandler struct {
	settingsSvc ports.SettingsService
}

func NewSettingsHandler(settingsSvc ports.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsSvc: settingsSvc}
}

// GetPlatformSettings handles GET /api/v1/platform-settings, returning the
// effective settings with defaults applied. Vendors read this before
// submitting a withdrawal; there is nothing sensitive in it.
func (h *SettingsHandler) GetPlatformSettings(c *gin.Context) {
	settings, err := h.settingsSvc.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{
		"commission_percentage":     settings.CommissionPercentage.String(),
		"minimum_withdrawal_amount": settings.MinimumWithdrawalAmount.String(),
	})
}
