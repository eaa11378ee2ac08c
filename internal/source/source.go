// Package source defines the capability a package location exposes and the
// helpers that pick exactly one installable package from it.
package source

import "github.com/cask-pm/cask/internal/core"

// Source is the capability a package location exposes to the install flow:
// refresh, query, download, and yank status. Implementations are registry
// indexes, git checkouts, or local directories; all of them are external
// collaborators of this package.
type Source interface {
	// ID identifies the source.
	ID() core.SourceID
	// Update refreshes the source's local index or cache.
	Update() error
	// Query returns summaries of the source's candidates matching dep.
	Query(dep core.Dependency) ([]core.Summary, error)
	// Download materializes the package for an identity the source
	// reported in a query.
	Download(id core.PackageID) (*core.Package, error)
	// IsYanked reports whether the identity is withdrawn at the source.
	IsYanked(id core.PackageID) (bool, error)
}
