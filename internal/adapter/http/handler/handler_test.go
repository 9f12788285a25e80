package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vendor-settlement-service/internal/adapter/http/dto"
	"vendor-settlement-service/internal/adapter/http/middleware"
	"vendor-settlement-service/internal/core/domain"
	"vendor-settlement-service/internal/core/ports"
	"vendor-settlement-service/internal/core/ports/mocks"
	"vendor-settlement-service/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func pendingWithdrawal(vendorID uuid.UUID) *domain.WithdrawalRequest {
	now := time.Now().UTC()
	return &domain.WithdrawalRequest{
		ID:            uuid.New(),
		VendorID:      vendorID,
		Amount:        decimal.RequireFromString("10000"),
		BankName:      "Vietcombank",
		AccountNumber: "0123456789",
		AccountName:   "LAN PHAM",
		Status:        domain.WithdrawalStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// --- Withdrawal Handler Tests ---

func TestSubmitWithdrawal_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWithdrawal := mocks.NewMockWithdrawalService(ctrl)
	h := NewWithdrawalHandler(mockWithdrawal)

	vendorID := uuid.New()
	created := pendingWithdrawal(vendorID)

	mockWithdrawal.EXPECT().Submit(gomock.Any(), ports.SubmitWithdrawalRequest{
		VendorID:      vendorID,
		Amount:        decimal.RequireFromString("10000"),
		BankName:      "Vietcombank",
		AccountNumber: "0123456789",
		AccountName:   "LAN PHAM",
	}).Return(created, nil)

	body, _ := json.Marshal(dto.SubmitWithdrawalRequest{
		Amount:        "10000",
		BankName:      "Vietcombank",
		AccountNumber: "0123456789",
		AccountName:   "LAN PHAM",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxSubjectID, vendorID)

	h.Submit(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, created.ID.String(), data["id"])
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "0123****6789", data["account_number"])
}

func TestSubmitWithdrawal_MissingSubject(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewWithdrawalHandler(mocks.NewMockWithdrawalService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	h.Submit(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitWithdrawal_BindingError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewWithdrawalHandler(mocks.NewMockWithdrawalService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxSubjectID, uuid.New())

	h.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VAL_001")
}

func TestSubmitWithdrawal_NonNumericAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewWithdrawalHandler(mocks.NewMockWithdrawalService(ctrl))

	body, _ := json.Marshal(dto.SubmitWithdrawalRequest{
		Amount:        "ten-thousand",
		BankName:      "Vietcombank",
		AccountNumber: "0123456789",
		AccountName:   "LAN PHAM",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxSubjectID, uuid.New())

	h.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "WDR_005")
}

func TestSubmitWithdrawal_InsufficientBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWithdrawal := mocks.NewMockWithdrawalService(ctrl)
	h := NewWithdrawalHandler(mockWithdrawal)

	mockWithdrawal.EXPECT().Submit(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInsufficientBalance())

	body, _ := json.Marshal(dto.SubmitWithdrawalRequest{
		Amount:        "999999",
		BankName:      "Vietcombank",
		AccountNumber: "0123456789",
		AccountName:   "LAN PHAM",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxSubjectID, uuid.New())

	h.Submit(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "WDR_001")
}

func TestListWithdrawals_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWithdrawal := mocks.NewMockWithdrawalService(ctrl)
	h := NewWithdrawalHandler(mockWithdrawal)

	vendorID := uuid.New()
	mockWithdrawal.EXPECT().
		ListForVendor(gomock.Any(), vendorID, gomock.Any()).
		Return([]domain.WithdrawalRequest{*pendingWithdrawal(vendorID)}, int64(1), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=1&page_size=20", nil)
	c.Set(middleware.CtxSubjectID, vendorID)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	assert.Len(t, items, 1)
	assert.Equal(t, float64(1), data["total"])
	assert.Equal(t, float64(1), data["total_pages"])
}

func TestListWithdrawals_InvalidStatusFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewWithdrawalHandler(mocks.NewMockWithdrawalService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?status=frozen", nil)
	c.Set(middleware.CtxSubjectID, uuid.New())

	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Ledger Handler Tests ---

func TestGetLedger_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	vendorID := uuid.New()
	gross := decimal.RequireFromString("50000")
	settings := domain.DefaultPlatformSettings()

	mockLedger.EXPECT().GetVendorLedger(gomock.Any(), vendorID).Return(&ports.LedgerView{
		Ledger: domain.VendorLedger{
			VendorID:         vendorID,
			GrossRevenue:     gross,
			AvailableBalance: decimal.RequireFromString("40000"),
			ApprovedTotal:    decimal.RequireFromString("10000"),
			PendingTotal:     decimal.RequireFromString("5000"),
		},
		Commission: domain.CalculateCommission(gross, settings.CommissionPercentage),
		Settings:   settings,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.CtxSubjectID, vendorID)

	h.GetLedger(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "50000", data["gross_revenue"])
	assert.Equal(t, "40000", data["available_balance"])
	assert.Equal(t, "5000", data["pending_total"])
	assert.Equal(t, "5000", data["minimum_withdrawal"])
	commission := data["commission"].(map[string]interface{})
	assert.Equal(t, "5000", commission["commission_amount"])
	assert.Equal(t, "45000", commission["net_amount"])
}

func TestGetLedger_VendorNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	vendorID := uuid.New()
	mockLedger.EXPECT().GetVendorLedger(gomock.Any(), vendorID).
		Return(nil, apperror.ErrNotFound("Vendor"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.CtxSubjectID, vendorID)

	h.GetLedger(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "WDR_004")
}

// --- Admin Handler Tests ---

func TestAdminListWithdrawals_VendorFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWithdrawal := mocks.NewMockWithdrawalService(ctrl)
	h := NewAdminHandler(mockWithdrawal, mocks.NewMockReportingService(ctrl))

	vendorID := uuid.New()
	mockWithdrawal.EXPECT().
		ListForReview(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params ports.WithdrawalListParams) ([]domain.WithdrawalRequest, int64, error) {
			require.NotNil(t, params.VendorID)
			assert.Equal(t, vendorID, *params.VendorID)
			require.NotNil(t, params.Status)
			assert.Equal(t, domain.WithdrawalStatusPending, *params.Status)
			return []domain.WithdrawalRequest{*pendingWithdrawal(vendorID)}, 1, nil
		})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?vendor_id="+vendorID.String()+"&status=pending", nil)
	c.Set(middleware.CtxSubjectID, uuid.New())

	h.ListWithdrawals(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminListWithdrawals_BadVendorID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAdminHandler(mocks.NewMockWithdrawalService(ctrl), mocks.NewMockReportingService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?vendor_id=not-a-uuid", nil)
	c.Set(middleware.CtxSubjectID, uuid.New())

	h.ListWithdrawals(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewWithdrawal_Approve(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWithdrawal := mocks.NewMockWithdrawalService(ctrl)
	h := NewAdminHandler(mockWithdrawal, mocks.NewMockReportingService(ctrl))

	adminID := uuid.New()
	vendorID := uuid.New()
	reviewed := pendingWithdrawal(vendorID)
	reviewed.Status = domain.WithdrawalStatusApproved
	reviewed.ReviewedBy = &adminID
	now := time.Now().UTC()
	reviewed.ReviewedAt = &now

	mockWithdrawal.EXPECT().Review(gomock.Any(), ports.ReviewWithdrawalRequest{
		RequestID: reviewed.ID,
		AdminID:   adminID,
		Status:    domain.WithdrawalStatusApproved,
	}).Return(reviewed, nil)

	body, _ := json.Marshal(dto.ReviewWithdrawalRequest{Status: "approved"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: reviewed.ID.String()}}
	c.Set(middleware.CtxSubjectID, adminID)

	h.ReviewWithdrawal(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "approved", data["status"])
	assert.Equal(t, adminID.String(), data["reviewed_by"])
}

func TestReviewWithdrawal_InvalidStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAdminHandler(mocks.NewMockWithdrawalService(ctrl), mocks.NewMockReportingService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/", bytes.NewReader([]byte(`{"status":"pending"}`)))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	c.Set(middleware.CtxSubjectID, uuid.New())

	h.ReviewWithdrawal(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewWithdrawal_AlreadyReviewed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWithdrawal := mocks.NewMockWithdrawalService(ctrl)
	h := NewAdminHandler(mockWithdrawal, mocks.NewMockReportingService(ctrl))

	mockWithdrawal.EXPECT().Review(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrAlreadyReviewed())

	body, _ := json.Marshal(dto.ReviewWithdrawalRequest{Status: "rejected"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	c.Set(middleware.CtxSubjectID, uuid.New())

	h.ReviewWithdrawal(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "WDR_003")
}

func TestGetRevenueReport_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewAdminHandler(mocks.NewMockWithdrawalService(ctrl), mockReporting)

	vendorID := uuid.New()
	mockReporting.EXPECT().GetPlatformReport(gomock.Any()).Return(&ports.PlatformReport{
		TotalRevenue: decimal.RequireFromString("150000"),
		TotalOrders:  42,
		RevenueByStore: []ports.StoreRevenue{
			{VendorID: vendorID, StoreName: "Green Grocer", Revenue: decimal.RequireFromString("90000"), OrderCount: 30},
		},
		RevenueByMonth: map[string]decimal.Decimal{
			"2026-08": decimal.RequireFromString("150000"),
		},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.CtxSubjectID, uuid.New())

	h.GetRevenueReport(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "150000", data["total_revenue"])
	assert.Equal(t, float64(42), data["total_orders"])
	months := data["revenue_by_month"].(map[string]interface{})
	assert.Equal(t, "150000", months["2026-08"])
}

func TestGetPlatformSettings_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSettings := mocks.NewMockSettingsService(ctrl)
	h := NewSettingsHandler(mockSettings)

	mockSettings.EXPECT().Get(gomock.Any()).Return(domain.DefaultPlatformSettings(), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.GetPlatformSettings(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "10", data["commission_percentage"])
	assert.Equal(t, "5000", data["minimum_withdrawal_amount"])
}

// --- Webhook Handler Tests ---

func TestPaymentEvent_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockIngest := mocks.NewMockOrderIngestService(ctrl)
	h := NewWebhookHandler(mockIngest)

	vendorID := uuid.New()
	orderID := uuid.New()
	occurredAt := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	mockIngest.EXPECT().RecordPaymentEvent(gomock.Any(), ports.PaymentEventRequest{
		EventID:     "evt-2026-001",
		VendorID:    vendorID,
		TotalAmount: decimal.RequireFromString("25000"),
		Status:      domain.PaymentStatusPaid,
		OccurredAt:  occurredAt,
	}).Return(&domain.Order{
		ID:            orderID,
		EventID:       "evt-2026-001",
		VendorID:      vendorID,
		TotalAmount:   decimal.RequireFromString("25000"),
		PaymentStatus: domain.PaymentStatusPaid,
		CreatedAt:     occurredAt,
	}, nil)

	body, _ := json.Marshal(dto.PaymentEventRequest{
		EventID:     "evt-2026-001",
		VendorID:    vendorID.String(),
		TotalAmount: "25000",
		Status:      "paid",
		OccurredAt:  occurredAt.Format(time.RFC3339),
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.PaymentEvent(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, orderID.String(), data["id"])
	assert.Equal(t, "evt-2026-001", data["event_id"])
}

func TestPaymentEvent_BadTimestamp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewWebhookHandler(mocks.NewMockOrderIngestService(ctrl))

	body, _ := json.Marshal(dto.PaymentEventRequest{
		EventID:     "evt-2026-001",
		VendorID:    uuid.New().String(),
		TotalAmount: "25000",
		Status:      "paid",
		OccurredAt:  "yesterday",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.PaymentEvent(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentEvent_ServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockIngest := mocks.NewMockOrderIngestService(ctrl)
	h := NewWebhookHandler(mockIngest)

	mockIngest.EXPECT().RecordPaymentEvent(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrDatabaseError(errors.New("db down")))

	body, _ := json.Marshal(dto.PaymentEventRequest{
		EventID:     "evt-2026-001",
		VendorID:    uuid.New().String(),
		TotalAmount: "25000",
		Status:      "paid",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.PaymentEvent(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// --- Health Check Test ---

type staticChecker struct {
	name string
	err  error
}

func (s staticChecker) Ping(context.Context) error { return s.err }
func (s staticChecker) Name() string               { return s.name }

func TestHealthCheck_Healthy(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(staticChecker{name: "postgresql"}, staticChecker{name: "redis"})(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestHealthCheck_Degraded(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(
		staticChecker{name: "postgresql"},
		staticChecker{name: "redis", err: errors.New("connection refused")},
	)(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
}
