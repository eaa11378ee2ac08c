// Package config carries process-wide configuration for the install flow:
// cask home resolution, install-root resolution, the status shell, and the
// shared package cache lock.
package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/cask-pm/cask/internal/lockfile"
	"github.com/cask-pm/cask/internal/messages"
	"github.com/cask-pm/cask/internal/shell"
)

// EnvHome overrides the cask home directory.
const EnvHome = "CASK_HOME"

// EnvInstallRoot overrides the install root.
const EnvInstallRoot = "CASK_INSTALL_ROOT"

const (
	configFileName = "config.toml"
	cacheLockName  = ".package-cache"
)

// File is the on-disk config.toml shape.
type File struct {
	Install InstallConfig `toml:"install"`
}

// InstallConfig configures installation behavior.
type InstallConfig struct {
	// Root overrides the default install root.
	Root string `toml:"root"`
}

// Config is the per-process configuration. The package cache lock is owned
// here so nested acquisitions within one process are re-entrant.
type Config struct {
	home  string
	file  File
	shell *shell.Shell

	mu        sync.Mutex
	cacheLock *lockfile.FileLock
	cacheHeld int
}

// New resolves the cask home (EnvHome, then `.cask` under the user home
// directory) and loads <home>/config.toml when present. Status output goes
// to out.
func New(out io.Writer) (*Config, error) {
	home := os.Getenv(EnvHome)
	if home == "" {
		userHome, err := homedir.Dir()
		if err != nil {
			return nil, fmt.Errorf(messages.ConfigResolveHomeFmt, err)
		}
		home = filepath.Join(userHome, ".cask")
	}
	cfg := &Config{home: home, shell: shell.New(out)}
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile() error {
	path := filepath.Join(c.home, configFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf(messages.ConfigReadFmt, path, err)
	}
	if err := toml.Unmarshal(data, &c.file); err != nil {
		return fmt.Errorf(messages.ConfigParseFmt, path, err)
	}
	return nil
}

// Home returns the cask home directory.
func (c *Config) Home() string { return c.home }

// Shell returns the process status shell.
func (c *Config) Shell() *shell.Shell { return c.shell }

// ResolveInstallRoot determines the install root: the flag value wins, then
// EnvInstallRoot, then install.root from config.toml, then the cask home.
func (c *Config) ResolveInstallRoot(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvInstallRoot); env != "" {
		return env
	}
	if c.file.Install.Root != "" {
		return c.file.Install.Root
	}
	return c.home
}

// CacheLock is one acquisition of the package cache lock.
type CacheLock struct {
	cfg  *Config
	once sync.Once
}

// Release drops this acquisition. The underlying file lock is released when
// the last holder in the process releases. Safe to call more than once.
func (l *CacheLock) Release() {
	l.once.Do(func() { l.cfg.releaseCacheLock() })
}

// AcquirePackageCacheLock takes the cross-process lock guarding source
// update, query, and download operations, blocking until it is free or ctx
// is done. Re-entrant within the process: nested acquisitions share one
// underlying file lock.
func (c *Config) AcquirePackageCacheLock(ctx context.Context) (*CacheLock, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cacheHeld == 0 {
		path := filepath.Join(c.home, cacheLockName)
		if err := os.MkdirAll(c.home, 0o755); err != nil {
			return nil, &lockfile.LockError{Path: path, Err: err}
		}
		lock, err := lockfile.Acquire(ctx, path)
		if err != nil {
			return nil, err
		}
		c.cacheLock = lock
	}
	c.cacheHeld++
	return &CacheLock{cfg: c}, nil
}

func (c *Config) releaseCacheLock() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cacheHeld--
	if c.cacheHeld == 0 {
		_ = c.cacheLock.Release()
		c.cacheLock = nil
	}
}
