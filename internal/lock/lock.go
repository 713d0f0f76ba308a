// Package lock guards a profile's WhatsApp device store against a second
// process opening it.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/sys/unix"
)

// Holder describes the process holding a lock.
type Holder struct {
	PID     int       `toml:"pid"`
	Purpose string    `toml:"purpose"`
	Since   time.Time `toml:"since"`
}

// LockHeldError is returned when another process holds the profile lock.
type LockHeldError struct {
	Holder Holder
	Path   string
}

func (e *LockHeldError) Error() string {
	msg := fmt.Sprintf("profile lock held by PID %d", e.Holder.PID)
	if e.Holder.Purpose != "" {
		msg += " for " + e.Holder.Purpose
	}
	return fmt.Sprintf("%s (%s): close the other mandap process first", msg, e.Path)
}

// Lock is an acquired lock file.
type Lock struct {
	file *os.File
	path string
}

// Acquire takes an exclusive lock on path, recording this process and
// purpose in the file. It fails with *LockHeldError if another process
// holds it.
func Acquire(path, purpose string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		if !errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("flock %s: %w", path, err)
		}
		h, _ := ReadHolder(path)
		return nil, &LockHeldError{Holder: h, Path: path}
	}

	h := Holder{PID: os.Getpid(), Purpose: purpose, Since: time.Now().UTC().Truncate(time.Second)}
	if err := writeHolder(f, h); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write lock file: %w", err)
	}
	return &Lock{file: f, path: path}, nil
}

// ReadHolder decodes the holder recorded in the lock file at path.
func ReadHolder(path string) (Holder, error) {
	var h Holder
	_, err := toml.DecodeFile(path, &h)
	return h, err
}

func writeHolder(f *os.File, h Holder) error {
	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	return toml.NewEncoder(f).Encode(h)
}

// Release unlocks and removes the lock file. Safe to call on a nil or
// already released lock.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	_ = os.Remove(l.path)
	err := l.file.Close()
	l.file = nil
	return err
}
