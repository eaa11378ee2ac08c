package core

import (
	"runtime"
	"slices"
	"sort"
)

// ExeSuffix is the platform executable file name suffix.
var ExeSuffix = func() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}()

// BuildOptions carries the build configuration of an install request.
// Consumed read-only; the tracker records a snapshot of it per install.
type BuildOptions struct {
	// Features explicitly enabled for the build.
	Features []string
	// AllFeatures enables every declared feature.
	AllFeatures bool
	// NoDefaultFeatures disables the default feature set.
	NoDefaultFeatures bool
	// Profile names the build profile, normally "debug" or "release".
	Profile string
	// Filter selects which executable targets are produced.
	Filter TargetFilter
}

// TargetFilter selects which executable targets of a package are produced.
// The zero value is the default filter: every binary target.
type TargetFilter struct {
	allTargets  bool
	only        bool
	bins        []string
	allBins     bool
	examples    []string
	allExamples bool
}

// DefaultFilter selects every binary target.
func DefaultFilter() TargetFilter { return TargetFilter{} }

// AllTargetsFilter selects every executable target: binaries and examples.
func AllTargetsFilter() TargetFilter { return TargetFilter{allTargets: true} }

// OnlyFilter selects the named binaries and examples. allBins and
// allExamples select every target of that kind instead of a fixed list.
func OnlyFilter(bins []string, allBins bool, examples []string, allExamples bool) TargetFilter {
	return TargetFilter{
		only:        true,
		bins:        slices.Clone(bins),
		allBins:     allBins,
		examples:    slices.Clone(examples),
		allExamples: allExamples,
	}
}

// ExecutableNames returns the executable file names pkg would produce under
// the filter, with the platform suffix appended. Sorted, duplicate-free.
func (f TargetFilter) ExecutableNames(pkg *Package) []string {
	names := make(map[string]struct{})
	add := func(name string) { names[name+ExeSuffix] = struct{}{} }

	switch {
	case f.allTargets:
		for _, t := range pkg.Targets() {
			if t.IsExecutable() {
				add(t.Name)
			}
		}
	case f.only:
		if f.allBins {
			for _, t := range pkg.Targets() {
				if t.IsBin() {
					add(t.Name)
				}
			}
		} else {
			for _, name := range f.bins {
				add(name)
			}
		}
		if f.allExamples {
			for _, t := range pkg.Targets() {
				if t.IsExample() {
					add(t.Name)
				}
			}
		} else {
			for _, name := range f.examples {
				add(name)
			}
		}
	default:
		for _, t := range pkg.Targets() {
			if t.IsBin() {
				add(t.Name)
			}
		}
	}

	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
