package dto

// SubmitWithdrawalRequest is the request body for a withdrawal submission.
// Amount travels as a string so values never pass through float64.
type SubmitWithdrawalRequest struct {
	Amount        string `json:"amount" binding:"required,max=32"`
	BankName      string `json:"bank_name" binding:"required,min=1,max=100"`
	AccountNumber string `json:"account_number" binding:"required,safe_id,max=34"`
	AccountName   string `json:"account_name" binding:"required,min=1,max=100"`
}

// ReviewWithdrawalRequest is the request body for an admin review decision.
type ReviewWithdrawalRequest struct {
	Status     string  `json:"status" binding:"required,oneof=approved rejected"`
	AdminNotes *string `json:"admin_notes,omitempty" binding:"omitempty,max=500"`
}

// PaymentEventRequest is the request body of the payment gateway webhook.
type PaymentEventRequest struct {
	EventID     string `json:"event_id" binding:"required,safe_id,max=100"`
	VendorID    string `json:"vendor_id" binding:"required,uuid"`
	TotalAmount string `json:"total_amount" binding:"required,max=32"`
	Status      string `json:"status" binding:"required,max=20"`
	OccurredAt  string `json:"occurred_at,omitempty"` // RFC3339, optional
}

// WithdrawalResponse is the API shape of one withdrawal request.
// The account number is always masked.
type WithdrawalResponse struct {
	ID            string  `json:"id"`
	VendorID      string  `json:"vendor_id"`
	Amount        string  `json:"amount"`
	BankName      string  `json:"bank_name"`
	AccountNumber string  `json:"account_number"`
	AccountName   string  `json:"account_name"`
	Status        string  `json:"status"`
	AdminNotes    *string `json:"admin_notes,omitempty"`
	ReviewedBy    *string `json:"reviewed_by,omitempty"`
	ReviewedAt    *string `json:"reviewed_at,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// WithdrawalListResponse wraps a paginated withdrawal list.
type WithdrawalListResponse struct {
	Items      []WithdrawalResponse `json:"items"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
}

// CommissionResponse is the commission breakdown at the current rate.
type CommissionResponse struct {
	GrossAmount      string `json:"gross_amount"`
	CommissionRate   string `json:"commission_rate"`
	CommissionAmount string `json:"commission_amount"`
	NetAmount        string `json:"net_amount"`
}

// LedgerResponse is the vendor settlement view.
type LedgerResponse struct {
	VendorID          string               `json:"vendor_id"`
	GrossRevenue      string               `json:"gross_revenue"`
	AvailableBalance  string               `json:"available_balance"`
	PendingTotal      string               `json:"pending_total"`
	ApprovedTotal     string               `json:"approved_total"`
	Commission        CommissionResponse   `json:"commission"`
	MinimumWithdrawal string               `json:"minimum_withdrawal"`
	History           []WithdrawalResponse `json:"history"`
}

// StoreRevenueResponse is one per-store bucket of the revenue report.
type StoreRevenueResponse struct {
	VendorID   string `json:"vendor_id"`
	StoreName  string `json:"store_name"`
	Revenue    string `json:"revenue"`
	OrderCount int64  `json:"order_count"`
}

// PlatformReportResponse is the admin revenue report.
type PlatformReportResponse struct {
	TotalRevenue   string                 `json:"total_revenue"`
	TotalOrders    int64                  `json:"total_orders"`
	RevenueByStore []StoreRevenueResponse `json:"revenue_by_store"`
	RevenueByMonth map[string]string      `json:"revenue_by_month"`
}

// OrderResponse is the API shape of a recorded order.
type OrderResponse struct {
	ID            string `json:"id"`
	EventID       string `json:"event_id"`
	VendorID      string `json:"vendor_id"`
	TotalAmount   string `json:"total_amount"`
	PaymentStatus string `json:"payment_status"`
	CreatedAt     string `json:"created_at"`
}
