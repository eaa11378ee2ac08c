package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/cask-pm/cask/internal/messages"
)

// TargetKind classifies a build target declared by a package manifest.
type TargetKind string

const (
	// TargetBin is an installable binary target.
	TargetBin TargetKind = "bin"
	// TargetExample is a runnable example target.
	TargetExample TargetKind = "example"
	// TargetLib is a library target; never installed.
	TargetLib TargetKind = "lib"
)

// Target is a single buildable target within a package.
type Target struct {
	Name string
	Kind TargetKind
}

// IsBin reports whether the target is a binary.
func (t Target) IsBin() bool { return t.Kind == TargetBin }

// IsExample reports whether the target is an example.
func (t Target) IsExample() bool { return t.Kind == TargetExample }

// IsExecutable reports whether building the target produces an executable.
func (t Target) IsExecutable() bool { return t.Kind == TargetBin || t.Kind == TargetExample }

// Dependency is a request for a package by name with an optional semver
// version requirement. An empty requirement matches any version.
type Dependency struct {
	name       string
	req        string
	constraint *semver.Constraints
}

// NewDependency builds a dependency on the named package. req uses semver
// range syntax (`^2.0`, `>=1.2, <2`, `=1.0.3`); empty matches any version.
func NewDependency(name, req string) (Dependency, error) {
	dep := Dependency{name: name, req: strings.TrimSpace(req)}
	if dep.req != "" {
		constraint, err := semver.NewConstraint(dep.req)
		if err != nil {
			return Dependency{}, fmt.Errorf(messages.CoreInvalidVersionReqFmt, req, name, err)
		}
		dep.constraint = constraint
	}
	return dep, nil
}

// MustDependency is NewDependency for statically known requirements; it
// panics on an invalid requirement.
func MustDependency(name, req string) Dependency {
	dep, err := NewDependency(name, req)
	if err != nil {
		panic(err)
	}
	return dep
}

// Name returns the requested package name.
func (d Dependency) Name() string { return d.name }

// VersionReq returns the requirement string, `*` when any version matches.
func (d Dependency) VersionReq() string {
	if d.req == "" {
		return "*"
	}
	return d.req
}

// Matches reports whether a version satisfies the requirement. Versions
// that do not parse as semver never match a non-empty requirement.
func (d Dependency) Matches(version string) bool {
	if d.constraint == nil {
		return true
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return d.constraint.Check(v)
}

// MatchesID reports whether an identity satisfies the dependency.
func (d Dependency) MatchesID(id PackageID) bool {
	return d.name == id.Name && d.Matches(id.Version)
}

// BestGuessVersion returns the concrete version the requirement most
// plausibly names, for probing yank status when nothing matched: the pinned
// version of an exact requirement, or the base version of a simple range
// (`^2.0` guesses 2.0.0). ok is false when no version can be guessed.
func (d Dependency) BestGuessVersion() (version string, ok bool) {
	base := strings.TrimLeft(strings.TrimSpace(d.req), "^~=<>! ")
	if i := strings.IndexAny(base, ", "); i >= 0 {
		base = base[:i]
	}
	if base == "" {
		return "", false
	}
	v, err := semver.NewVersion(base)
	if err != nil {
		return "", false
	}
	return v.String(), true
}

// Summary is the lightweight description of a package a source answers
// queries with; enough to pick a winner and download it.
type Summary struct {
	ID PackageID
}

// Package is a resolved installable package: an identity plus the
// manifest-declared dependency list, build targets, and features. Immutable
// once constructed; owns its manifest root path.
type Package struct {
	id       PackageID
	root     string
	deps     []Dependency
	targets  []Target
	features []string
}

// NewPackage constructs a package. root is the manifest root directory.
func NewPackage(id PackageID, root string, deps []Dependency, targets []Target, features []string) *Package {
	return &Package{
		id:       id,
		root:     root,
		deps:     slices.Clone(deps),
		targets:  slices.Clone(targets),
		features: slices.Clone(features),
	}
}

// ID returns the package identity.
func (p *Package) ID() PackageID { return p.id }

// Name returns the package name.
func (p *Package) Name() string { return p.id.Name }

// Version returns the package version string.
func (p *Package) Version() string { return p.id.Version }

// Root returns the manifest root directory.
func (p *Package) Root() string { return p.root }

// Dependencies returns the declared dependencies.
func (p *Package) Dependencies() []Dependency { return slices.Clone(p.deps) }

// Targets returns the declared build targets.
func (p *Package) Targets() []Target { return slices.Clone(p.targets) }

// Features returns the declared feature names.
func (p *Package) Features() []string { return slices.Clone(p.features) }

// Summary returns the queryable summary of the package.
func (p *Package) Summary() Summary { return Summary{ID: p.id} }

func (p *Package) String() string { return p.id.String() }
