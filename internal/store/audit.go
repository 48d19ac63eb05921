package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// auditFile is the canonical name of the audit log inside the data dir.
const auditFile = "audit.log"

// defaultAuditMaxBytes triggers rotation; the current file is renamed to
// audit.log.1 (replacing any previous one) and a fresh file is started.
const defaultAuditMaxBytes = 5 << 20 // 5 MiB

// AuditLog is the append-only, line-oriented log of operational events
// (updates, notifications, run summaries). It is a data artifact the UI reads
// back, not a process log. Writes are best-effort: a failure to append must
// never abort the caller, so Append returns nothing and reports problems via
// the process logger.
type AuditLog struct {
	mu       sync.Mutex
	path     string
	maxBytes int64
	log      *slog.Logger
}

// NewAuditLog constructs an AuditLog rooted at dataDir.
func NewAuditLog(dataDir string, log *slog.Logger) (*AuditLog, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("store.NewAuditLog: %w", err)
	}
	return &AuditLog{
		path:     filepath.Join(dataDir, auditFile),
		maxBytes: defaultAuditMaxBytes,
		log:      log,
	}, nil
}

// Append writes one newline-terminated event line prefixed with an ISO-8601
// timestamp. Best-effort: errors are logged and swallowed.
func (a *AuditLog) Append(line string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.rotateIfNeeded()

	f, err := os.OpenFile(a.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		a.log.Warn("audit append failed", "path", a.path, "error", err)
		return
	}
	defer f.Close()

	stamp := time.Now().Format(time.RFC3339)
	if _, err := fmt.Fprintf(f, "%s %s\n", stamp, line); err != nil {
		a.log.Warn("audit append failed", "path", a.path, "error", err)
	}
}

// Appendf is Append with fmt formatting.
func (a *AuditLog) Appendf(format string, args ...any) {
	a.Append(fmt.Sprintf(format, args...))
}

// rotateIfNeeded renames the log aside once it exceeds maxBytes. Only one
// rotated generation is kept. Called with the mutex held.
func (a *AuditLog) rotateIfNeeded() {
	info, err := os.Stat(a.path)
	if err != nil || info.Size() < a.maxBytes {
		return
	}
	if err := os.Rename(a.path, a.path+".1"); err != nil {
		a.log.Warn("audit rotation failed", "path", a.path, "error", err)
	}
}
