// Package lockfile provides exclusive advisory file locks shared across
// processes. Acquisition blocks until the lock is free, honoring context
// cancellation while waiting; release is a scoped-handle operation so it can
// be guaranteed on every exit path with defer.
package lockfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/cask-pm/cask/internal/messages"
)

var flockFn = unix.Flock
var lockPollEvery = 100 * time.Millisecond

// LockError reports a failure to open or acquire an advisory lock.
type LockError struct {
	Path string
	Err  error
}

func (e *LockError) Error() string {
	return fmt.Sprintf(messages.LockAcquireFmt, e.Path, e.Err)
}

func (e *LockError) Unwrap() error { return e.Err }

// FileLock is an exclusively locked open file. The lock lives until Release
// and never relies on finalization.
type FileLock struct {
	path string
	file *os.File
}

// Acquire opens or creates path and takes an exclusive advisory lock on it,
// blocking indefinitely until the lock is free or ctx is done.
func Acquire(ctx context.Context, path string) (*FileLock, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, &LockError{Path: path, Err: err}
	}
	if err := lockFile(ctx, file); err != nil {
		_ = file.Close()
		return nil, &LockError{Path: path, Err: err}
	}
	return &FileLock{path: path, file: file}, nil
}

// Path returns the locked file's path.
func (l *FileLock) Path() string { return l.path }

// File returns the locked open file. Reads and writes of the guarded
// content go through this handle.
func (l *FileLock) File() *os.File { return l.file }

// Release unlocks and closes the file. Calling Release again is a no-op.
func (l *FileLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	file := l.file
	l.file = nil
	if err := flockFn(int(file.Fd()), unix.LOCK_UN); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// lockFile polls a non-blocking exclusive flock so a blocked caller still
// observes ctx cancellation. There is no built-in timeout.
func lockFile(ctx context.Context, file *os.File) error {
	for {
		err := flockFn(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EAGAIN) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockPollEvery):
		}
	}
}
