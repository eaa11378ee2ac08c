package core

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dominikbraun/graph"

	"github.com/cask-pm/cask/internal/messages"
)

// ErrCycleDetected reports that the dependency graph admits no install
// ordering. Distinct from an empty set, which sorts to an empty set.
var ErrCycleDetected = errors.New(messages.CoreCycleDetected)

// DuplicatePackageError reports two same-named packages handed to
// NewPackageSet.
type DuplicatePackageError struct {
	Name string
}

func (e *DuplicatePackageError) Error() string {
	return fmt.Sprintf(messages.CoreDuplicatePackageFmt, e.Name)
}

// PackageSet is a collection of resolved packages holding at most one
// package per name.
type PackageSet struct {
	packages []*Package
}

// NewPackageSet builds a set from resolved packages. Two packages sharing a
// name is rejected rather than silently resolved by first match, since the
// ambiguity can mask resolution defects upstream.
func NewPackageSet(packages []*Package) (*PackageSet, error) {
	seen := make(map[string]struct{}, len(packages))
	for _, pkg := range packages {
		if _, dup := seen[pkg.Name()]; dup {
			return nil, &DuplicatePackageError{Name: pkg.Name()}
		}
		seen[pkg.Name()] = struct{}{}
	}
	return &PackageSet{packages: slices.Clone(packages)}, nil
}

// Len returns the number of packages in the set.
func (s *PackageSet) Len() int { return len(s.packages) }

// IsEmpty reports whether the set holds no packages.
func (s *PackageSet) IsEmpty() bool { return len(s.packages) == 0 }

// Packages returns the packages in the set's order.
func (s *PackageSet) Packages() []*Package { return slices.Clone(s.packages) }

// Get returns the package with the given name, or nil.
func (s *PackageSet) Get(name string) *Package {
	for _, pkg := range s.packages {
		if pkg.Name() == name {
			return pkg
		}
	}
	return nil
}

// GetAll returns the packages for the given names in request order; names
// not present in the set are skipped.
func (s *PackageSet) GetAll(names []string) []*Package {
	out := make([]*Package, 0, len(names))
	for _, name := range names {
		if pkg := s.Get(name); pkg != nil {
			out = append(out, pkg)
		}
	}
	return out
}

// Query returns every contained package whose name matches the dependency
// name: a degenerate registry view over the fixed set.
func (s *PackageSet) Query(dep Dependency) []*Package {
	var out []*Package
	for _, pkg := range s.packages {
		if pkg.Name() == dep.Name() {
			out = append(out, pkg)
		}
	}
	return out
}

// Sort returns a new set ordered so that every package appears after all
// packages it depends on, or ErrCycleDetected when the graph is cyclic.
// The ordering is deterministic; ties break by package name. Dependencies
// naming packages outside the set impose no ordering.
func (s *PackageSet) Sort() (*PackageSet, error) {
	g := graph.New(graph.StringHash, graph.Directed())
	for _, pkg := range s.packages {
		if err := g.AddVertex(pkg.Name()); err != nil {
			return nil, err
		}
	}
	for _, pkg := range s.packages {
		for _, dep := range pkg.Dependencies() {
			if dep.Name() == pkg.Name() || s.Get(dep.Name()) == nil {
				continue
			}
			if err := g.AddEdge(dep.Name(), pkg.Name()); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, err
			}
		}
	}

	order, err := graph.StableTopologicalSort(g, func(a, b string) bool { return a < b })
	if err != nil {
		return nil, ErrCycleDetected
	}
	sorted := make([]*Package, 0, len(order))
	for _, name := range order {
		sorted = append(sorted, s.Get(name))
	}
	return &PackageSet{packages: sorted}, nil
}
