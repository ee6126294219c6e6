package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// SetupLogFile opens a new timestamped "<name>-<time>.log" in dir and prunes
// older logs of the same name down to maxFiles. maxFiles <= 0 keeps them all.
// The caller closes the file.
func SetupLogFile(dir, name string, maxFiles int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s-%s.log", name, time.Now().Format("2006-01-02T15-04-05")))
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	if maxFiles > 0 {
		if err := pruneLogs(dir, name, maxFiles); err != nil {
			// Logging still works with stale files around
			fmt.Fprintf(os.Stderr, "warning: failed to prune old %s logs: %v\n", name, err)
		}
	}

	return f, nil
}

// pruneLogs removes the oldest "<name>-*.log" files beyond keep.
func pruneLogs(dir, name string, keep int) error {
	files, err := filepath.Glob(filepath.Join(dir, name+"-*.log"))
	if err != nil {
		return err
	}
	if len(files) <= keep {
		return nil
	}

	// Timestamps in the names sort chronologically
	sort.Strings(files)
	for _, f := range files[:len(files)-keep] {
		if err := os.Remove(f); err != nil {
			return fmt.Errorf("remove %s: %w", f, err)
		}
	}
	return nil
}
