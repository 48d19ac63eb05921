package track

import (
	"context"
	"log/slog"
)

// LogNotifier is the default Notifier: it writes the alert to the structured
// log instead of delivering it. A real transport (SMTP, provider API) is
// wired in its place by supplying another Notifier implementation.
type LogNotifier struct {
	From string
	Log  *slog.Logger
}

// Send logs the alert and reports success.
func (n *LogNotifier) Send(ctx context.Context, to, subject, body string) (string, error) {
	n.Log.InfoContext(ctx, "notification",
		"from", n.From,
		"to", to,
		"subject", subject,
	)
	return "logged", nil
}
