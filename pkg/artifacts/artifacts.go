// Package artifacts manages generated folder files on disk.
//
// Artifacts live in a single directory named after their job id. The
// directory is swept on startup so files from earlier runs do not pile up.
package artifacts

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/aanbieding/folder/pkg/errors"
)

// DefaultMaxAge is how long artifacts are kept by a startup sweep.
const DefaultMaxAge = 24 * time.Hour

// DefaultDir returns the default artifact directory under the OS temp dir.
func DefaultDir() string {
	return filepath.Join(os.TempDir(), "folder_artifacts")
}

// Store is a directory of generated artifacts.
type Store struct {
	dir    string
	logger *log.Logger
}

// NewStore creates dir if needed and returns a store rooted there. An empty
// dir means DefaultDir.
func NewStore(dir string, logger *log.Logger) (*Store, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create artifact dir %s", dir)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the artifact path for a job. ext includes the leading dot.
func (s *Store) Path(jobID, ext string) string {
	return filepath.Join(s.dir, jobID+ext)
}

// Remove deletes an artifact. A missing file is not an error.
func (s *Store) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeInternal, err, "remove artifact %s", path)
	}
	return nil
}

// Cleanup removes artifacts whose modification time is older than maxAge
// and returns how many were removed. Unreadable entries are skipped.
func (s *Store) Cleanup(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "read artifact dir %s", s.dir)
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(s.dir, e.Name())
			if err := os.Remove(path); err != nil {
				s.logger.Warn("failed to remove artifact", "path", path, "err", err)
				continue
			}
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("cleaned up artifacts", "removed", removed, "dir", s.dir)
	}
	return removed, nil
}
