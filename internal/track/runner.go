package track

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pkordes/farewatch/internal/cadence"
	"github.com/pkordes/farewatch/internal/domain"
	"github.com/pkordes/farewatch/internal/gitsync"
)

// Runner executes one tracking pass over the full route collection. A single
// invocation owns an exclusive working copy of the collection from load to
// save; the advisory lock extends that exclusivity across processes.
type Runner struct {
	routes   RouteStore
	cfgs     ConfigStore
	source   PriceSource
	notifier Notifier
	sync     Syncer
	audit    Auditor
	lock     Locker

	callTimeout time.Duration
	log         *slog.Logger
}

// NewRunner wires a Runner. notifier, sync and lock may be nil: a nil
// notifier suppresses delivery (evaluation still runs), a nil sync skips
// replication, a nil lock skips cross-process exclusion (tests).
func NewRunner(
	routes RouteStore,
	cfgs ConfigStore,
	source PriceSource,
	notifier Notifier,
	sync Syncer,
	audit Auditor,
	lock Locker,
	callTimeout time.Duration,
	log *slog.Logger,
) *Runner {
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	return &Runner{
		routes:      routes,
		cfgs:        cfgs,
		source:      source,
		notifier:    notifier,
		sync:        sync,
		audit:       audit,
		lock:        lock,
		callTimeout: callTimeout,
		log:         log,
	}
}

// Run performs one pass at now: for each due route, fetch the owed number of
// prices, append history, bump stats, evaluate the notification threshold on
// the last observed price, then persist the whole collection once and attempt
// the durability sync. Failures local to one route are collected in the
// report and never abort the pass; a load or save failure aborts with
// report.Err set and no on-disk change.
func (r *Runner) Run(ctx context.Context, now time.Time) domain.RunReport {
	report := domain.RunReport{StartedAt: now}
	defer func() { report.FinishedAt = time.Now() }()

	if r.lock != nil {
		if err := r.lock.Acquire(ctx); err != nil {
			report.Err = fmt.Errorf("track.Runner.Run: %w", err)
			return report
		}
		defer r.lock.Release()
	}

	routes, err := r.routes.Load(ctx)
	if err != nil {
		report.Err = fmt.Errorf("track.Runner.Run: %w", err)
		return report
	}
	report.RoutesTotal = len(routes)

	notifyCfg, err := r.cfgs.Load(ctx)
	if err != nil {
		// A broken config document only disables notifications; prices are
		// still recorded.
		r.log.WarnContext(ctx, "notification config unavailable", "error", err)
		notifyCfg = domain.NotificationConfig{}
	}

	r.audit.Appendf("run start routes=%d", len(routes))

	changed := false
	for i := range routes {
		if r.trackRoute(ctx, &routes[i], notifyCfg, now, &report) {
			changed = true
		}
	}

	if changed {
		if err := r.routes.Save(ctx, routes); err != nil {
			report.Err = fmt.Errorf("track.Runner.Run: %w", err)
			r.audit.Appendf("run failed: %v", err)
			return report
		}
	}

	if r.sync != nil {
		res := r.sync.Push(ctx)
		report.SyncOutcome = string(res.Outcome)
		if res.Outcome == gitsync.Failed {
			r.audit.Appendf("sync failed: %v", res.Err)
		}
	}

	r.audit.Appendf("run done due=%d ticks=%d notified=%d failures=%d",
		report.RoutesDue, report.Ticks, report.Notifications, len(report.Failures))
	return report
}

// trackRoute processes one route and reports whether it mutated it.
func (r *Runner) trackRoute(ctx context.Context, route *domain.Route, notifyCfg domain.NotificationConfig, now time.Time, report *domain.RunReport) bool {
	owed := cadence.Owed(*route, now)
	if owed == 0 {
		r.log.DebugContext(ctx, "route not due", "route", route.ID, "last_tracked", route.LastTrackedAt)
		return false
	}
	report.RoutesDue++

	// Backfilled ticks get strictly increasing timestamps one millisecond
	// apart, with the final tick landing exactly on now.
	base := now.Add(-time.Duration(owed-1) * time.Millisecond)

	var (
		lastPrice decimal.Decimal
		recorded  int
	)
	for i := 0; i < owed; i++ {
		ts := base.Add(time.Duration(i) * time.Millisecond)

		price, err := r.fetch(ctx, *route)
		if err != nil {
			report.Failures = append(report.Failures, domain.RouteFailure{
				RouteID: route.ID.String(), Stage: "fetch", Reason: err.Error(),
			})
			r.audit.Appendf("fetch failed %s %s->%s: %v", route.ID, route.Origin, route.Destination, err)
			continue
		}

		route.AppendObservation(ts, price)
		route.Stats.BumpUpdate(ts)
		report.Ticks++
		recorded++
		lastPrice = price
		r.audit.Appendf("updated %s %s->%s price=%s", route.ID, route.Origin, route.Destination, price)
	}

	if recorded > 0 {
		r.maybeNotify(ctx, route, notifyCfg, lastPrice, report)
	}
	return recorded > 0
}

// maybeNotify fires at most one alert per route per pass, on the last price
// observed in the pass. Delivery failure is logged and does not roll back the
// recorded history; there is no retry within the same run.
func (r *Runner) maybeNotify(ctx context.Context, route *domain.Route, cfg domain.NotificationConfig, price decimal.Decimal, report *domain.RunReport) {
	if !route.NotificationsEnabled || !cfg.Enabled {
		return
	}
	recipient := cfg.Recipient(*route)
	if recipient == "" {
		return
	}
	if price.GreaterThan(route.TargetPrice) {
		return
	}
	if r.notifier == nil {
		return
	}

	subject := fmt.Sprintf("[ALERT] %s->%s at %s", route.Origin, route.Destination, price)
	body := fmt.Sprintf("Current price: %s\nTarget: %s\nDeparture: %s",
		price, route.TargetPrice, route.DepartureDate.Format("2006-01-02"))

	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	status, err := r.notifier.Send(callCtx, recipient, subject, body)
	if err != nil {
		report.Failures = append(report.Failures, domain.RouteFailure{
			RouteID: route.ID.String(), Stage: "notify", Reason: err.Error(),
		})
		r.audit.Appendf("notify failed to=%s route=%s: %v", recipient, route.ID, err)
		return
	}

	route.Stats.BumpNotification()
	report.Notifications++
	r.audit.Appendf("notified to=%s route=%s price=%s status=%s", recipient, route.ID, price, status)
}

// fetch runs one price-source call under the per-call timeout.
func (r *Runner) fetch(ctx context.Context, route domain.Route) (decimal.Decimal, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()
	return r.source.Fetch(callCtx, route)
}
