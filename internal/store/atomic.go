// Package store contains all file persistence for farewatch: the route
// collection, the notification config document, the append-only audit log,
// and the cross-process advisory lock. No business logic lives here — only
// serialization and the atomic-replace write discipline.
package store

import (
	"fmt"
	"os"
)

// writeFileAtomic writes data to path via a temp file in the same directory:
// write, fsync, then rename over the canonical path. A crash mid-write leaves
// either the previous complete file or the next complete file, never a mix.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open temp: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace: %w", err)
	}
	return nil
}

// quarantine renames a corrupt data file aside with a timestamp suffix so it
// stays available for manual recovery instead of being overwritten.
func quarantine(path, stamp string) error {
	return os.Rename(path, fmt.Sprintf("%s.broken.%s", path, stamp))
}
