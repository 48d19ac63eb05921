package domain

// NotificationConfig is the process-wide notification document, persisted as
// a single JSON object next to the route collection. It is loaded once at the
// start of a run or request and mutated only through an explicit save.
type NotificationConfig struct {
	// Enabled is the global kill-switch. When false no notification is sent
	// regardless of per-route settings.
	Enabled bool `json:"enabled"`

	// DefaultEmail receives alerts for routes that have no email of their own.
	DefaultEmail string `json:"email"`

	// Transport carries provider credentials (API keys, sender address). The
	// core never interprets these; they are passed through to the Notifier.
	Transport map[string]string `json:"transport,omitempty"`
}

// Recipient resolves the alert recipient for a route: the route's own email
// when set, otherwise the global default. Empty means no recipient.
func (c NotificationConfig) Recipient(r Route) string {
	if r.NotificationEmail != "" {
		return r.NotificationEmail
	}
	return c.DefaultEmail
}
