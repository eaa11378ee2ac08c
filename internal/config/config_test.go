package config

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cask-pm/cask/internal/lockfile"
)

func newT(t *testing.T, home string) *Config {
	t.Helper()
	t.Setenv(EnvHome, home)
	cfg, err := New(io.Discard)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return cfg
}

func TestHomeFromEnv(t *testing.T) {
	home := t.TempDir()
	cfg := newT(t, home)
	if cfg.Home() != home {
		t.Fatalf("Home = %q", cfg.Home())
	}
}

func TestResolveInstallRootPrecedence(t *testing.T) {
	home := t.TempDir()
	configRoot := filepath.Join(home, "from-config")
	data := "[install]\nroot = \"" + configRoot + "\"\n"
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := newT(t, home)

	if got := cfg.ResolveInstallRoot("/from-flag"); got != "/from-flag" {
		t.Fatalf("flag: got %q", got)
	}
	t.Setenv(EnvInstallRoot, "/from-env")
	if got := cfg.ResolveInstallRoot(""); got != "/from-env" {
		t.Fatalf("env: got %q", got)
	}
	t.Setenv(EnvInstallRoot, "")
	if got := cfg.ResolveInstallRoot(""); got != configRoot {
		t.Fatalf("config: got %q", got)
	}
}

func TestResolveInstallRootDefaultsToHome(t *testing.T) {
	home := t.TempDir()
	cfg := newT(t, home)
	t.Setenv(EnvInstallRoot, "")
	if got := cfg.ResolveInstallRoot(""); got != home {
		t.Fatalf("got %q, want %q", got, home)
	}
}

func TestNewMissingConfigFileOK(t *testing.T) {
	newT(t, filepath.Join(t.TempDir(), "does-not-exist-yet"))
}

func TestNewMalformedConfigFile(t *testing.T) {
	home := t.TempDir()
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte("install = {{"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvHome, home)
	if _, err := New(io.Discard); err == nil {
		t.Fatal("expected error for malformed config.toml")
	}
}

func TestPackageCacheLockReentrant(t *testing.T) {
	home := t.TempDir()
	cfg := newT(t, home)
	lockPath := filepath.Join(home, cacheLockName)

	outer, err := cfg.AcquirePackageCacheLock(context.Background())
	if err != nil {
		t.Fatalf("outer acquire: %v", err)
	}
	inner, err := cfg.AcquirePackageCacheLock(context.Background())
	if err != nil {
		t.Fatalf("nested acquire: %v", err)
	}

	// The file lock stays held until the last holder releases.
	inner.Release()
	if !cacheLockHeld(t, lockPath) {
		t.Fatal("file lock released while a holder remains")
	}
	outer.Release()
	if cacheLockHeld(t, lockPath) {
		t.Fatal("file lock still held after last release")
	}

	// Releasing an acquisition twice does not disturb the count.
	outer.Release()
	again, err := cfg.AcquirePackageCacheLock(context.Background())
	if err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	again.Release()
}

// cacheLockHeld probes whether the lock file is exclusively held by trying
// to take it with a short deadline.
func cacheLockHeld(t *testing.T, path string) bool {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	lock, err := lockfile.Acquire(ctx, path)
	if err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("probe: %v", err)
		}
		return true
	}
	_ = lock.Release()
	return false
}
