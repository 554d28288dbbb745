// Package staging manages per-request temporary directories. Every
// conversion gets its own uniquely named directory so concurrent requests
// never share paths, and the whole tree is removed in one pass when the
// request finishes.
package staging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hazyhaar/morph/idgen"
	"github.com/hazyhaar/morph/sanitize"
)

// Dir is a staging directory for a single request.
type Dir struct {
	root string
	log  *slog.Logger
}

// newStageID names staging directories: time-sortable, so a dir listing
// reads in creation order when debugging leftovers.
var newStageID = idgen.Prefixed("morph-", idgen.Default)

// New creates a unique staging directory under base. When base is empty the
// OS temp dir is used.
func New(base string, log *slog.Logger) (*Dir, error) {
	if base == "" {
		base = os.TempDir()
	}
	if log == nil {
		log = slog.Default()
	}
	root := filepath.Join(base, newStageID())
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("staging: mkdir: %w", err)
	}
	return &Dir{root: root, log: log}, nil
}

// Root returns the staging directory path.
func (d *Dir) Root() string { return d.root }

// Path joins name into the staging directory, rejecting traversal attempts.
func (d *Dir) Path(name string) (string, error) {
	return sanitize.SafePath(d.root, name)
}

// WriteFile writes data to name inside the staging directory and returns
// the full path.
func (d *Dir) WriteFile(name string, data []byte) (string, error) {
	p, err := d.Path(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(p, data, 0o600); err != nil {
		return "", fmt.Errorf("staging: write %s: %w", name, err)
	}
	return p, nil
}

// Close removes the staging directory and everything in it. Removal failures
// are logged, never returned: cleanup must not mask the conversion outcome.
func (d *Dir) Close() {
	if err := os.RemoveAll(d.root); err != nil {
		d.log.Warn("staging cleanup failed", "dir", d.root, "error", err)
	}
}
