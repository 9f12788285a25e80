package service

import (
	"context"
	"fmt"

	"vendor-settlement-service/internal/core/domain"
	"vendor-settlement-service/internal/core/ports"
	"vendor-settlement-service/pkg/apperror"

	"github.com/rs/zerolog"
)

// SettingsCache interface for testability. Implemented by the Redis adapter.
type SettingsCache interface {
	Get(ctx context.Context) (*domain.PlatformSettings, error)
	Set(ctx context.Context, s domain.PlatformSettings) error
}

// SettingsServiceImpl implements ports.SettingsService with a read-through
// cache in front of the settings singleton.
type SettingsServiceImpl struct {
	repo  ports.SettingsRepository
	cache SettingsCache
	log   zerolog.Logger
}

// NewSettingsService creates a new SettingsServiceImpl.
func NewSettingsService(repo ports.SettingsRepository, cache SettingsCache, log zerolog.Logger) *SettingsServiceImpl {
	return &SettingsServiceImpl{repo: repo, cache: cache, log: log}
}

// Get resolves the effective platform settings. A missing singleton row
// falls back to the documented defaults (10% commission, 5000 minimum).
func (s *SettingsServiceImpl) Get(ctx context.Context) (domain.PlatformSettings, error) {
	cached, err := s.cache.Get(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("settings cache read failed, falling through to DB")
	}
	if cached != nil {
		return *cached, nil
	}

	stored, err := s.repo.Get(ctx)
	if err != nil {
		return domain.PlatformSettings{}, apperror.InternalError(fmt.Errorf("load settings: %w", err))
	}

	settings := domain.DefaultPlatformSettings()
	if stored != nil {
		settings = *stored
	}

	// Best-effort cache fill
	if err := s.cache.Set(ctx, settings); err != nil {
		s.log.Warn().Err(err).Msg("failed to cache platform settings")
	}

	return settings, nil
}
