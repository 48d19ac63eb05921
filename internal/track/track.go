// Package track orchestrates one tracking pass over the route collection:
// cadence evaluation, price fetches, history appends, notification
// evaluation, persistence, and best-effort durability sync.
//
// The external collaborators (price source, notification transport) are
// consumed through interfaces defined here; the only in-tree price source is
// the simulator the hobby deployment ran on.
package track

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pkordes/farewatch/internal/domain"
	"github.com/pkordes/farewatch/internal/gitsync"
)

// PriceSource produces one price observation for a route. Implementations
// must honor ctx cancellation; the runner imposes a per-call timeout and
// treats a failed or timed-out fetch as a skipped tick, not a failed run.
type PriceSource interface {
	Fetch(ctx context.Context, r domain.Route) (decimal.Decimal, error)
}

// Notifier delivers one alert. The returned status is transport-specific
// (e.g. an HTTP status or provider message id) and is recorded verbatim in
// the audit log.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) (status string, err error)
}

// RouteStore is the slice of the persistence layer the runner needs.
type RouteStore interface {
	Load(ctx context.Context) ([]domain.Route, error)
	Save(ctx context.Context, routes []domain.Route) error
}

// ConfigStore yields the process-wide notification config at run start.
type ConfigStore interface {
	Load(ctx context.Context) (domain.NotificationConfig, error)
}

// Syncer is the best-effort durability replication. Push never makes the run
// fail; its outcome is recorded in the report and the audit log.
type Syncer interface {
	Push(ctx context.Context) gitsync.Result
}

// Auditor appends operational event lines. Appends are best-effort by
// contract (see store.AuditLog).
type Auditor interface {
	Append(line string)
	Appendf(format string, args ...any)
}

// Locker serializes writers to the data directory across processes.
type Locker interface {
	Acquire(ctx context.Context) error
	Release() error
}
