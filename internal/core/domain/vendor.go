package domain

import (
	"time"

	"github.com/google/uuid"
)

// VendorStatus represents the state of a vendor account.
type VendorStatus string

const (
	VendorStatusActive    VendorStatus = "ACTIVE"
	VendorStatusSuspended VendorStatus = "SUSPENDED"
)

// Vendor represents a marketplace vendor (store owner).
type Vendor struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	StoreName string       `json:"store_name"`
	Status    VendorStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// IsActive returns true if the vendor account is active.
func (v *Vendor) IsActive() bool {
	return v.Status == VendorStatusActive
}
