// Package testutil provides shared test helpers.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cask-pm/cask/internal/core"
)

// WriteBin writes an executable stub named name into dir, standing in for
// a previously installed binary.
// t is the active test; dir is the destination directory.
func WriteBin(t *testing.T, dir string, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write bin %s: %v", name, err)
	}
}

// RegistryID returns the registry source identity used across tests.
func RegistryID() core.SourceID {
	return core.SourceID{Kind: core.KindRegistry, URL: "https://pkgs.example.com/index"}
}

// RegistryPkg builds a registry package exposing one binary target named
// after the package.
func RegistryPkg(name, version string) *core.Package {
	id := core.PackageID{Name: name, Version: version, Source: RegistryID()}
	return core.NewPackage(id, "", nil, []core.Target{{Name: name, Kind: core.TargetBin}}, nil)
}

// PathPkg builds a local-checkout package rooted at root exposing one
// binary target named after the package.
func PathPkg(name, version, root string) *core.Package {
	id := core.PackageID{Name: name, Version: version, Source: core.SourceID{Kind: core.KindPath, URL: root}}
	return core.NewPackage(id, root, nil, []core.Target{{Name: name, Kind: core.TargetBin}}, nil)
}
