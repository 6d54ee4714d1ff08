// Package discover locates the dataset on disk: the project root found by
// walking upward from a starting directory, and the SQLite database file
// expected directly under it.
package discover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// NotFoundError reports that a walk-up search exhausted the filesystem, or
// that an expected file is missing under the project root.
type NotFoundError struct {
	Name  string // directory or file name searched for
	Start string // where the search began
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("discover: %q not found starting from %s", e.Name, e.Start)
}

// ProjectRoot walks upward from start until it reaches a directory whose base
// name equals dirName and returns that directory's absolute path.
//
// The search inspects names only; it never stats or opens anything, so it is
// safe to call with a starting directory that does not exist yet. When the
// filesystem root is reached without a match, a *NotFoundError is returned.
func ProjectRoot(start, dirName string) (string, error) {
	cur, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("discover: resolve %s: %w", start, err)
	}
	for {
		if filepath.Base(cur) == dirName {
			return cur, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", &NotFoundError{Name: dirName, Start: start}
		}
		cur = parent
	}
}

// DatabasePath joins root and file and verifies the database file exists.
// A missing file yields a *NotFoundError so callers can distinguish "not
// there" from genuine I/O trouble via errors.As.
func DatabasePath(root, file string) (string, error) {
	path := filepath.Join(root, file)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &NotFoundError{Name: file, Start: root}
		}
		return "", fmt.Errorf("discover: stat %s: %w", path, err)
	}
	return path, nil
}
