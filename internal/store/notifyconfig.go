package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pkordes/farewatch/internal/domain"
)

// notifyConfigFile is the canonical name of the notification config document.
const notifyConfigFile = "notify_config.json"

// ConfigStore persists the process-wide NotificationConfig as a single JSON
// object, under the same atomic-replace and quarantine discipline as the
// route collection.
type ConfigStore struct {
	path string
	log  *slog.Logger
}

// NewConfigStore constructs a ConfigStore rooted at dataDir.
func NewConfigStore(dataDir string, log *slog.Logger) (*ConfigStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("store.NewConfigStore: %w", err)
	}
	return &ConfigStore{path: filepath.Join(dataDir, notifyConfigFile), log: log}, nil
}

// Load reads the notification config. A missing file yields the zero config
// (notifications disabled, no default recipient); an unparsable file is
// quarantined and the zero config returned.
func (s *ConfigStore) Load(ctx context.Context) (domain.NotificationConfig, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return domain.NotificationConfig{}, nil
	}
	if err != nil {
		return domain.NotificationConfig{}, fmt.Errorf("store.ConfigStore.Load: %w", err)
	}

	var cfg domain.NotificationConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		stamp := time.Now().Format(quarantineStamp)
		if qerr := quarantine(s.path, stamp); qerr != nil {
			s.log.ErrorContext(ctx, "failed to quarantine corrupt notify config",
				"path", s.path, "error", qerr)
		} else {
			s.log.WarnContext(ctx, "quarantined corrupt notify config",
				"path", s.path, "stamp", stamp, "parse_error", err)
		}
		return domain.NotificationConfig{}, nil
	}
	return cfg, nil
}

// Save atomically replaces the notification config on disk.
func (s *ConfigStore) Save(ctx context.Context, cfg domain.NotificationConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("store.ConfigStore.Save: marshal: %w", err)
	}
	data = append(data, '\n')

	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("store.ConfigStore.Save: %w: %w", domain.ErrStoreWrite, err)
	}
	return nil
}
