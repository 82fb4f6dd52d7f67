// Package lockfile implements .locfill.lock — a lock file in the output
// directory that keeps two concurrent runs from interleaving writes to
// the same locale files.
//
// The lock records the owning process ID and start time. A lock left
// behind by a process that no longer exists is considered stale and is
// broken automatically.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"
)

// LockFileName is the lock file name inside the output directory.
const LockFileName = ".locfill.lock"

// info is the lock file payload.
type info struct {
	PID     int       `yaml:"pid"`
	Started time.Time `yaml:"started"`
}

// Lock is a held output-directory lock.
type Lock struct {
	path string
}

// ErrHeld is wrapped into the error returned when a live process holds
// the lock.
var ErrHeld = errors.New("output directory is locked")

// Acquire takes the lock for dir, creating the directory if needed.
// A stale lock (owner process gone) is broken; a live lock is an error.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, LockFileName)

	for attempt := 0; attempt < 2; attempt++ {
		err := tryCreate(path)
		if err == nil {
			return &Lock{path: path}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("creating lock file: %w", err)
		}

		owner, readErr := readInfo(path)
		if readErr == nil && processAlive(owner.PID) {
			return nil, fmt.Errorf("%w by pid %d since %s (%s)",
				ErrHeld, owner.PID, owner.Started.Format(time.RFC3339), path)
		}
		// Unreadable or stale lock: break it and retry once.
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			return nil, fmt.Errorf("breaking stale lock: %w", rmErr)
		}
	}
	return nil, fmt.Errorf("%w: could not take %s", ErrHeld, path)
}

// Release drops the lock.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing lock file: %w", err)
	}
	return nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// tryCreate writes the lock file, failing if it already exists.
func tryCreate(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(info{PID: os.Getpid(), Started: time.Now().UTC()})
	if err == nil {
		_, err = f.Write(data)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
	}
	return err
}

func readInfo(path string) (*info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var i info
	if err := yaml.Unmarshal(data, &i); err != nil {
		return nil, err
	}
	if i.PID == 0 {
		return nil, errors.New("lock file has no pid")
	}
	return &i, nil
}

// processAlive reports whether pid refers to a running process.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
