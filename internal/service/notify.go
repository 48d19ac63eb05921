package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkordes/farewatch/internal/domain"
	"github.com/pkordes/farewatch/internal/gitsync"
	"github.com/pkordes/farewatch/internal/track"
)

// ConfigService exposes the global notification settings document.
type ConfigService struct {
	store ConfigStore
	audit track.Auditor
	sync  track.Syncer
	lock  track.Locker
}

// NewConfigService constructs a ConfigService. sync and lock may be nil.
func NewConfigService(store ConfigStore, audit track.Auditor, sync track.Syncer, lock track.Locker) *ConfigService {
	return &ConfigService{store: store, audit: audit, sync: sync, lock: lock}
}

// Get returns the current notification config.
func (s *ConfigService) Get(ctx context.Context) (domain.NotificationConfig, error) {
	cfg, err := s.store.Load(ctx)
	if err != nil {
		return domain.NotificationConfig{}, fmt.Errorf("service.ConfigService.Get: %w", err)
	}
	return cfg, nil
}

// Put validates and replaces the notification config.
func (s *ConfigService) Put(ctx context.Context, cfg domain.NotificationConfig) (domain.NotificationConfig, error) {
	cfg.DefaultEmail = strings.TrimSpace(cfg.DefaultEmail)
	if cfg.Enabled && cfg.DefaultEmail == "" {
		return domain.NotificationConfig{}, fmt.Errorf("service.ConfigService.Put: %w: enabling notifications requires a default email", domain.ErrValidation)
	}
	if cfg.DefaultEmail != "" && !strings.Contains(cfg.DefaultEmail, "@") {
		return domain.NotificationConfig{}, fmt.Errorf("service.ConfigService.Put: %w: default email is not an address", domain.ErrValidation)
	}

	if s.lock != nil {
		if err := s.lock.Acquire(ctx); err != nil {
			return domain.NotificationConfig{}, fmt.Errorf("service.ConfigService.Put: %w", err)
		}
		defer s.lock.Release()
	}

	if err := s.store.Save(ctx, cfg); err != nil {
		return domain.NotificationConfig{}, fmt.Errorf("service.ConfigService.Put: %w", err)
	}

	s.audit.Appendf("notification config updated enabled=%v email=%s", cfg.Enabled, cfg.DefaultEmail)
	if s.sync != nil {
		if res := s.sync.Push(ctx); res.Outcome == gitsync.Failed {
			s.audit.Appendf("sync failed: %v", res.Err)
		}
	}
	return cfg, nil
}
