package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/farewatch/internal/domain"
)

type mockConfigStore struct {
	cfg     domain.NotificationConfig
	saved   []domain.NotificationConfig
	loadErr error
	saveErr error
}

func (m *mockConfigStore) Load(ctx context.Context) (domain.NotificationConfig, error) {
	if m.loadErr != nil {
		return domain.NotificationConfig{}, m.loadErr
	}
	return m.cfg, nil
}

func (m *mockConfigStore) Save(ctx context.Context, cfg domain.NotificationConfig) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, cfg)
	m.cfg = cfg
	return nil
}

var _ ConfigStore = (*mockConfigStore)(nil)

func TestConfigService_Get(t *testing.T) {
	store := &mockConfigStore{cfg: domain.NotificationConfig{Enabled: true, DefaultEmail: "me@example.com"}}
	svc := NewConfigService(store, &recordingAudit{}, nil, nil)

	cfg, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "me@example.com", cfg.DefaultEmail)
}

func TestConfigService_Put(t *testing.T) {
	store := &mockConfigStore{}
	audit := &recordingAudit{}
	svc := NewConfigService(store, audit, nil, nil)

	cfg, err := svc.Put(context.Background(), domain.NotificationConfig{Enabled: true, DefaultEmail: "  me@example.com  "})
	require.NoError(t, err)

	assert.Equal(t, "me@example.com", cfg.DefaultEmail, "email is trimmed")
	require.Len(t, store.saved, 1)
	assert.NotEmpty(t, audit.lines)
}

func TestConfigService_Put_validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  domain.NotificationConfig
	}{
		{"enabledWithoutEmail", domain.NotificationConfig{Enabled: true}},
		{"notAnAddress", domain.NotificationConfig{Enabled: true, DefaultEmail: "nobody"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockConfigStore{}
			svc := NewConfigService(store, &recordingAudit{}, nil, nil)

			_, err := svc.Put(context.Background(), tt.cfg)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, store.saved)
		})
	}
}

func TestConfigService_Put_disableWithoutEmail(t *testing.T) {
	store := &mockConfigStore{cfg: domain.NotificationConfig{Enabled: true, DefaultEmail: "me@example.com"}}
	svc := NewConfigService(store, &recordingAudit{}, nil, nil)

	cfg, err := svc.Put(context.Background(), domain.NotificationConfig{Enabled: false})
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
}
