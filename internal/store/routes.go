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

// routesFile is the canonical name of the route collection inside the data dir.
const routesFile = "routes.json"

// quarantineStamp formats the timestamp suffix for quarantined files.
const quarantineStamp = "20060102150405"

// RouteStore persists the route collection as a pretty-printed JSON array.
// It exclusively owns the on-disk representation; callers get a working copy
// on Load and hand the whole mutated collection back to Save. Concurrent
// writers are serialized externally via Lock.
type RouteStore struct {
	path string
	log  *slog.Logger
}

// NewRouteStore constructs a RouteStore rooted at dataDir, creating the
// directory if needed.
func NewRouteStore(dataDir string, log *slog.Logger) (*RouteStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("store.NewRouteStore: %w", err)
	}
	return &RouteStore{path: filepath.Join(dataDir, routesFile), log: log}, nil
}

// Load reads and normalizes the route collection. A missing file yields an
// empty collection. An unparsable file is quarantined as
// routes.json.broken.<timestamp> and an empty collection is returned — the
// system degrades to "no routes" instead of crashing.
func (s *RouteStore) Load(ctx context.Context) ([]domain.Route, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []domain.Route{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store.RouteStore.Load: %w", err)
	}

	var routes []domain.Route
	if err := json.Unmarshal(data, &routes); err != nil {
		stamp := time.Now().Format(quarantineStamp)
		if qerr := quarantine(s.path, stamp); qerr != nil {
			s.log.ErrorContext(ctx, "failed to quarantine corrupt routes file",
				"path", s.path, "error", qerr)
		} else {
			s.log.WarnContext(ctx, "quarantined corrupt routes file",
				"path", s.path, "stamp", stamp, "parse_error", err)
		}
		return []domain.Route{}, nil
	}

	for i := range routes {
		routes[i].Normalize()
	}
	return routes, nil
}

// Save atomically replaces the route collection on disk. On error the
// previous file remains canonical and domain.ErrStoreWrite is wrapped in.
func (s *RouteStore) Save(ctx context.Context, routes []domain.Route) error {
	if routes == nil {
		routes = []domain.Route{}
	}
	data, err := json.MarshalIndent(routes, "", "  ")
	if err != nil {
		return fmt.Errorf("store.RouteStore.Save: marshal: %w", err)
	}
	data = append(data, '\n')

	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("store.RouteStore.Save: %w: %w", domain.ErrStoreWrite, err)
	}
	return nil
}
