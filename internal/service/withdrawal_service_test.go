package service

import (
	"context"
	"testing"

	"vendor-settlement-service/internal/core/domain"
	"vendor-settlement-service/internal/core/ports"
	"vendor-settlement-service/internal/core/ports/mocks"
	"vendor-settlement-service/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type withdrawalTestDeps struct {
	svc            *WithdrawalServiceImpl
	vendorRepo     *mocks.MockVendorRepository
	orderRepo      *mocks.MockOrderRepository
	withdrawalRepo *mocks.MockWithdrawalRepository
	settingsSvc    *mocks.MockSettingsService
	transactor     *mocks.MockDBTransactor
	notifier       *mocks.MockNotificationSender
	publisher      *mocks.MockEventPublisher
	ctrl           *gomock.Controller
}

func setupWithdrawalService(t *testing.T) *withdrawalTestDeps {
	ctrl := gomock.NewController(t)
	d := &withdrawalTestDeps{
		vendorRepo:     mocks.NewMockVendorRepository(ctrl),
		orderRepo:      mocks.NewMockOrderRepository(ctrl),
		withdrawalRepo: mocks.NewMockWithdrawalRepository(ctrl),
		settingsSvc:    mocks.NewMockSettingsService(ctrl),
		transactor:     mocks.NewMockDBTransactor(ctrl),
		notifier:       mocks.NewMockNotificationSender(ctrl),
		publisher:      mocks.NewMockEventPublisher(ctrl),
		ctrl:           ctrl,
	}
	d.svc = NewWithdrawalService(
		d.vendorRepo, d.orderRepo, d.withdrawalRepo, d.settingsSvc,
		d.transactor, d.notifier, d.publisher, zerolog.Nop(),
	)
	return d
}

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func defaultSettings() domain.PlatformSettings {
	return domain.DefaultPlatformSettings()
}

func activeVendor(id uuid.UUID) *domain.Vendor {
	return &domain.Vendor{
		ID:        id,
		Name:      "Lan Pham",
		Email:     "lan@greengrocer.example",
		StoreName: "Green Grocer",
		Status:    domain.VendorStatusActive,
	}
}

func submitRequest(vendorID uuid.UUID, amount string) ports.SubmitWithdrawalRequest {
	return ports.SubmitWithdrawalRequest{
		VendorID:      vendorID,
		Amount:        decimal.RequireFromString(amount),
		BankName:      "Vietcombank",
		AccountNumber: "0123456789",
		AccountName:   "LAN PHAM",
	}
}

// ==================== Submit Tests ====================

func TestWithdrawalService_Submit_Success(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	vendorID := uuid.New()
	tx := &mockTx{}

	d.settingsSvc.EXPECT().Get(ctx).Return(defaultSettings(), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.vendorRepo.EXPECT().GetByIDForUpdate(ctx, tx, vendorID).Return(activeVendor(vendorID), nil)
	d.orderRepo.EXPECT().SumPaidByVendor(ctx, tx, vendorID).Return(decimal.RequireFromString("50000"), nil)
	d.withdrawalRepo.EXPECT().SumByStatus(ctx, tx, vendorID).Return(decimal.Zero, decimal.Zero, nil)
	d.withdrawalRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.publisher.EXPECT().PublishWithdrawalEvent(ctx, gomock.Any()).Return(nil)

	result, err := d.svc.Submit(ctx, submitRequest(vendorID, "50000"))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.WithdrawalStatusPending, result.Status)
	assert.Equal(t, vendorID, result.VendorID)
	assert.True(t, decimal.RequireFromString("50000").Equal(result.Amount))
	assert.Nil(t, result.ReviewedBy)
}

func TestWithdrawalService_Submit_PendingReservesBalance(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	vendorID := uuid.New()
	tx := &mockTx{}

	// gross 50000, approved 30000, pending 15000 -> spendable 5000
	d.settingsSvc.EXPECT().Get(ctx).Return(defaultSettings(), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.vendorRepo.EXPECT().GetByIDForUpdate(ctx, tx, vendorID).Return(activeVendor(vendorID), nil)
	d.orderRepo.EXPECT().SumPaidByVendor(ctx, tx, vendorID).Return(decimal.RequireFromString("50000"), nil)
	d.withdrawalRepo.EXPECT().SumByStatus(ctx, tx, vendorID).
		Return(decimal.RequireFromString("30000"), decimal.RequireFromString("15000"), nil)

	result, err := d.svc.Submit(ctx, submitRequest(vendorID, "10000"))
	assert.Nil(t, result)
	require.Error(t, err)
	assertAppError(t, err, "WDR_001")
}

func TestWithdrawalService_Submit_BelowMinimum(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	vendorID := uuid.New()
	tx := &mockTx{}

	d.settingsSvc.EXPECT().Get(ctx).Return(defaultSettings(), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.vendorRepo.EXPECT().GetByIDForUpdate(ctx, tx, vendorID).Return(activeVendor(vendorID), nil)
	d.orderRepo.EXPECT().SumPaidByVendor(ctx, tx, vendorID).Return(decimal.RequireFromString("50000"), nil)
	d.withdrawalRepo.EXPECT().SumByStatus(ctx, tx, vendorID).Return(decimal.Zero, decimal.Zero, nil)

	result, err := d.svc.Submit(ctx, submitRequest(vendorID, "4000"))
	assert.Nil(t, result)
	require.Error(t, err)
	assertAppError(t, err, "WDR_002")
}

func TestWithdrawalService_Submit_SuspendedVendor(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	vendorID := uuid.New()
	tx := &mockTx{}

	suspended := activeVendor(vendorID)
	suspended.Status = domain.VendorStatusSuspended

	d.settingsSvc.EXPECT().Get(ctx).Return(defaultSettings(), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.vendorRepo.EXPECT().GetByIDForUpdate(ctx, tx, vendorID).Return(suspended, nil)

	result, err := d.svc.Submit(ctx, submitRequest(vendorID, "10000"))
	assert.Nil(t, result)
	assertAppError(t, err, "AUTH_004")
}

func TestWithdrawalService_Submit_VendorNotFound(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	vendorID := uuid.New()
	tx := &mockTx{}

	d.settingsSvc.EXPECT().Get(ctx).Return(defaultSettings(), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.vendorRepo.EXPECT().GetByIDForUpdate(ctx, tx, vendorID).Return(nil, nil)

	result, err := d.svc.Submit(ctx, submitRequest(vendorID, "10000"))
	assert.Nil(t, result)
	assertAppError(t, err, "WDR_004")
}

func TestWithdrawalService_Submit_InvalidAmount(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	result, err := d.svc.Submit(context.Background(), submitRequest(uuid.New(), "0"))
	assert.Nil(t, result)
	assertAppError(t, err, "WDR_005")
}

func TestWithdrawalService_Submit_MissingBankDetails(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	req := submitRequest(uuid.New(), "10000")
	req.AccountNumber = ""

	result, err := d.svc.Submit(context.Background(), req)
	assert.Nil(t, result)
	assertAppError(t, err, "VAL_001")
}

// ==================== Review Tests ====================

func reviewedRequest(id, vendorID, adminID uuid.UUID, status domain.WithdrawalStatus) *domain.WithdrawalRequest {
	return &domain.WithdrawalRequest{
		ID:            id,
		VendorID:      vendorID,
		Amount:        decimal.RequireFromString("10000"),
		BankName:      "Vietcombank",
		AccountNumber: "0123456789",
		AccountName:   "LAN PHAM",
		Status:        status,
		ReviewedBy:    &adminID,
	}
}

func TestWithdrawalService_Review_Approve(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	requestID := uuid.New()
	vendorID := uuid.New()
	adminID := uuid.New()

	req := ports.ReviewWithdrawalRequest{
		RequestID: requestID,
		AdminID:   adminID,
		Status:    domain.WithdrawalStatusApproved,
	}
	approved := reviewedRequest(requestID, vendorID, adminID, domain.WithdrawalStatusApproved)

	d.withdrawalRepo.EXPECT().UpdateStatusIfPending(ctx, requestID, domain.WithdrawalStatusApproved, nil, adminID).Return(true, nil)
	d.withdrawalRepo.EXPECT().GetByID(ctx, requestID).Return(approved, nil)
	d.vendorRepo.EXPECT().GetByID(ctx, vendorID).Return(activeVendor(vendorID), nil)
	d.notifier.EXPECT().SendWithdrawalReviewed(ctx, gomock.Any()).Return(nil)
	d.publisher.EXPECT().PublishWithdrawalEvent(ctx, gomock.Any()).Return(nil)

	result, err := d.svc.Review(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.WithdrawalStatusApproved, result.Status)
	assert.Equal(t, &adminID, result.ReviewedBy)
}

func TestWithdrawalService_Review_IdempotentRetry(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	requestID := uuid.New()
	adminID := uuid.New()

	req := ports.ReviewWithdrawalRequest{
		RequestID: requestID,
		AdminID:   adminID,
		Status:    domain.WithdrawalStatusApproved,
	}
	approved := reviewedRequest(requestID, uuid.New(), adminID, domain.WithdrawalStatusApproved)

	// No row updated, but the request already carries the requested status.
	d.withdrawalRepo.EXPECT().UpdateStatusIfPending(ctx, requestID, domain.WithdrawalStatusApproved, nil, adminID).Return(false, nil)
	d.withdrawalRepo.EXPECT().GetByID(ctx, requestID).Return(approved, nil)

	result, err := d.svc.Review(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalStatusApproved, result.Status)
}

func TestWithdrawalService_Review_Conflict(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	requestID := uuid.New()
	adminID := uuid.New()

	req := ports.ReviewWithdrawalRequest{
		RequestID: requestID,
		AdminID:   adminID,
		Status:    domain.WithdrawalStatusApproved,
	}
	rejected := reviewedRequest(requestID, uuid.New(), uuid.New(), domain.WithdrawalStatusRejected)

	d.withdrawalRepo.EXPECT().UpdateStatusIfPending(ctx, requestID, domain.WithdrawalStatusApproved, nil, adminID).Return(false, nil)
	d.withdrawalRepo.EXPECT().GetByID(ctx, requestID).Return(rejected, nil)

	result, err := d.svc.Review(ctx, req)
	assert.Nil(t, result)
	assertAppError(t, err, "WDR_003")
}

func TestWithdrawalService_Review_NotFound(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	requestID := uuid.New()
	adminID := uuid.New()

	req := ports.ReviewWithdrawalRequest{
		RequestID: requestID,
		AdminID:   adminID,
		Status:    domain.WithdrawalStatusRejected,
	}

	d.withdrawalRepo.EXPECT().UpdateStatusIfPending(ctx, requestID, domain.WithdrawalStatusRejected, nil, adminID).Return(false, nil)
	d.withdrawalRepo.EXPECT().GetByID(ctx, requestID).Return(nil, nil)

	result, err := d.svc.Review(ctx, req)
	assert.Nil(t, result)
	assertAppError(t, err, "WDR_004")
}

func TestWithdrawalService_Review_InvalidTargetStatus(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	req := ports.ReviewWithdrawalRequest{
		RequestID: uuid.New(),
		AdminID:   uuid.New(),
		Status:    domain.WithdrawalStatusPending,
	}

	result, err := d.svc.Review(context.Background(), req)
	assert.Nil(t, result)
	assertAppError(t, err, "VAL_001")
}

// ==================== List Tests ====================

func TestWithdrawalService_ListForVendor_ScopesAndNormalizes(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	vendorID := uuid.New()

	d.withdrawalRepo.EXPECT().
		List(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, params ports.WithdrawalListParams) ([]domain.WithdrawalRequest, int64, error) {
			require.NotNil(t, params.VendorID)
			assert.Equal(t, vendorID, *params.VendorID)
			assert.Equal(t, 1, params.Page)
			assert.Equal(t, defaultPageSize, params.PageSize)
			return []domain.WithdrawalRequest{}, 0, nil
		})

	_, total, err := d.svc.ListForVendor(ctx, vendorID, ports.WithdrawalListParams{Page: 0, PageSize: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestWithdrawalService_ListForReview_CapsPageSize(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	status := domain.WithdrawalStatusPending

	d.withdrawalRepo.EXPECT().
		List(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, params ports.WithdrawalListParams) ([]domain.WithdrawalRequest, int64, error) {
			assert.Equal(t, defaultPageSize, params.PageSize)
			require.NotNil(t, params.Status)
			assert.Equal(t, status, *params.Status)
			return []domain.WithdrawalRequest{}, 0, nil
		})

	_, _, err := d.svc.ListForReview(ctx, ports.WithdrawalListParams{Status: &status, Page: 1, PageSize: 500})
	require.NoError(t, err)
}
