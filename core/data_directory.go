package core

// This file contains the data directory atoms: helpers that prepare and
// probe the on-disk layout (database, logs) before anything writes to it.

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDataLayout creates the data directory and its logs subdirectory
// if they don't exist. Returns the resolved data directory path.
func EnsureDataLayout(dataDir string) (string, error) {
	if dataDir == "" {
		return "", ErrMissingConfig("PIXLAB_DATA_DIR")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", ErrInvalidDataDir(dataDir, err.Error())
	}
	if err := os.MkdirAll(filepath.Join(dataDir, "logs"), 0o755); err != nil {
		return "", ErrInvalidDataDir(dataDir, err.Error())
	}
	return dataDir, nil
}

// EnsureParentDir creates the parent directory of a file path if needed.
// Used for database and log files that may live outside the data directory.
func EnsureParentDir(filePath string) error {
	dir := filepath.Dir(filePath)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// CheckWritable verifies that the given directory accepts file writes by
// creating and removing a probe file. Returns nil when the directory is
// writable.
func CheckWritable(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	probe, err := os.CreateTemp(dir, ".pixlab-write-probe-*")
	if err != nil {
		return fmt.Errorf("cannot write to %s: %w", dir, err)
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}
