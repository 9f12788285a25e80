package postgres

import (
	"context"
	"errors"
	"fmt"

	"vendor-settlement-service/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// SettingsRepo implements ports.SettingsRepository. Platform settings are a
// singleton row; Get returns nil when the row has never been written and
// the service layer falls back to the documented defaults.
type SettingsRepo struct {
	pool Pool
}

// NewSettingsRepo creates a new SettingsRepo.
func NewSettingsRepo(pool Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

// Get reads the platform settings singleton.
func (r *SettingsRepo) Get(ctx context.Context) (*domain.PlatformSettings, error) {
	query := `SELECT commission_percentage::text, minimum_withdrawal_amount::text, updated_at
		FROM platform_settings WHERE id = 1`

	var commission, minimum string
	s := &domain.PlatformSettings{}
	err := r.pool.QueryRow(ctx, query).Scan(&commission, &minimum, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get platform settings: %w", err)
	}
	if s.CommissionPercentage, err = decimal.NewFromString(commission); err != nil {
		return nil, fmt.Errorf("parse commission percentage: %w", err)
	}
	if s.MinimumWithdrawalAmount, err = decimal.NewFromString(minimum); err != nil {
		return nil, fmt.Errorf("parse minimum withdrawal: %w", err)
	}
	return s, nil
}
