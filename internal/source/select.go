package source

import (
	"context"
	"sort"

	"github.com/cask-pm/cask/internal/config"
	"github.com/cask-pm/cask/internal/core"
	"github.com/cask-pm/cask/internal/messages"
)

// SelectDepPkg picks the newest package at src satisfying dep and
// downloads it. When needsUpdate is set the source is refreshed first.
// When nothing matches, the best-guess identity's yank status decides
// between a YankedError and a NotFoundError.
func SelectDepPkg(ctx context.Context, src Source, dep core.Dependency, cfg *config.Config, needsUpdate bool) (*core.Package, error) {
	// Updating or querying a source may frob shared caches; synchronize
	// with other running instances of the tool.
	lock, err := cfg.AcquirePackageCacheLock(ctx)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	if needsUpdate {
		cfg.Shell().Status(messages.SelectUpdatingVerb, messages.SelectUpdatingIndexFmt, src.ID())
		if err := src.Update(); err != nil {
			return nil, err
		}
	}

	summaries, err := src.Query(dep)
	if err != nil {
		return nil, err
	}
	best, ok := maxID(summaries)
	if !ok {
		return nil, noCandidateError(src, dep)
	}
	return src.Download(best)
}

// SelectPkg picks exactly one installable package from src. With a
// dependency spec it behaves like SelectDepPkg. Without one it lists every
// candidate and requires exactly one exposing a runnable binary target; if
// no candidate anywhere has binaries, it requires exactly one exposing a
// runnable example target instead.
func SelectPkg(ctx context.Context, src Source, dep *core.Dependency, cfg *config.Config, listAll func(Source) ([]*core.Package, error)) (*core.Package, error) {
	lock, err := cfg.AcquirePackageCacheLock(ctx)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	cfg.Shell().Status(messages.SelectUpdatingVerb, messages.SelectUpdatingIndexFmt, src.ID())
	if err := src.Update(); err != nil {
		return nil, err
	}

	if dep != nil {
		return SelectDepPkg(ctx, src, *dep, cfg, false)
	}

	candidates, err := listAll(src)
	if err != nil {
		return nil, err
	}
	pkg, err := one(withTarget(candidates, core.Target.IsBin), "binaries")
	if err != nil || pkg != nil {
		return pkg, err
	}
	pkg, err = one(withTarget(candidates, core.Target.IsExample), "examples")
	if err != nil || pkg != nil {
		return pkg, err
	}
	return nil, ErrNothingInstallable
}

// maxID returns the maximum identity among the summaries: the highest
// version satisfying the query, under name/version/source ordering.
func maxID(summaries []core.Summary) (core.PackageID, bool) {
	if len(summaries) == 0 {
		return core.PackageID{}, false
	}
	best := summaries[0].ID
	for _, s := range summaries[1:] {
		if s.ID.Compare(best) > 0 {
			best = s.ID
		}
	}
	return best, true
}

// noCandidateError probes yank status before deciding between YankedError
// and NotFoundError.
func noCandidateError(src Source, dep core.Dependency) error {
	if version, ok := dep.BestGuessVersion(); ok {
		guess := core.PackageID{Name: dep.Name(), Version: version, Source: src.ID()}
		if yanked, err := src.IsYanked(guess); err == nil && yanked {
			return &YankedError{Name: dep.Name(), Source: src.ID()}
		}
	}
	return &NotFoundError{Name: dep.Name(), Source: src.ID(), VersionReq: dep.VersionReq()}
}

// withTarget returns the candidates exposing at least one target matching
// the predicate.
func withTarget(candidates []*core.Package, match func(core.Target) bool) []*core.Package {
	var out []*core.Package
	for _, pkg := range candidates {
		for _, t := range pkg.Targets() {
			if match(t) {
				out = append(out, pkg)
				break
			}
		}
	}
	return out
}

// one returns the only candidate, nil when there is none, or an
// AmbiguityError listing every candidate name when there are several.
func one(pkgs []*core.Package, kind string) (*core.Package, error) {
	switch len(pkgs) {
	case 0:
		return nil, nil
	case 1:
		return pkgs[0], nil
	default:
		names := make([]string, 0, len(pkgs))
		for _, pkg := range pkgs {
			names = append(names, pkg.Name())
		}
		sort.Strings(names)
		return nil, &AmbiguityError{Kind: kind, Names: names}
	}
}
