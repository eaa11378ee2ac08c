package lockfile

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lock")
	lock, err := Acquire(context.Background(), path)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if lock.Path() != path {
		t.Fatalf("Path = %q", lock.Path())
	}
	if lock.File() == nil {
		t.Fatal("File = nil")
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
}

func TestReleaseIdempotent(t *testing.T) {
	lock, err := Acquire(context.Background(), filepath.Join(t.TempDir(), "lock"))
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}
}

func TestAcquireBlockedHonorsContext(t *testing.T) {
	old := lockPollEvery
	lockPollEvery = 5 * time.Millisecond
	defer func() { lockPollEvery = old }()

	path := filepath.Join(t.TempDir(), "lock")
	held, err := Acquire(context.Background(), path)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer func() { _ = held.Release() }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = Acquire(ctx, path)
	var lockErr *LockError
	if !errors.As(err, &lockErr) {
		t.Fatalf("got %v, want LockError", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("cause = %v, want context.DeadlineExceeded", err)
	}
}

func TestAcquireAfterRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lock")
	first, err := Acquire(context.Background(), path)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	second, err := Acquire(ctx, path)
	if err != nil {
		t.Fatalf("reacquire after release: %v", err)
	}
	_ = second.Release()
}

func TestAcquireOpenFailure(t *testing.T) {
	// The lock file's parent directory does not exist.
	path := filepath.Join(t.TempDir(), "missing", "lock")
	_, err := Acquire(context.Background(), path)
	var lockErr *LockError
	if !errors.As(err, &lockErr) {
		t.Fatalf("got %v, want LockError", err)
	}
	if lockErr.Path != path {
		t.Fatalf("LockError path = %q", lockErr.Path)
	}
}
