// Package tracker keeps the on-disk record of which installed package owns
// which binaries, across two format generations.
//
// The legacy listing is an older style; the current listing tracks more
// information and is both backward and forward compatible. Both files are
// kept in sync, updated in the same operation. When a change lands in the
// legacy file that is not in the current one (an older release of the tool
// was used in between), it is propagated on the next load.
//
// A loaded tracker holds an exclusive file lock per listing, preventing
// other instances of the tool from mutating shared state at the same time.
// Call Unlock when done.
package tracker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/cask-pm/cask/internal/core"
	"github.com/cask-pm/cask/internal/lockfile"
	"github.com/cask-pm/cask/internal/messages"
)

const (
	// ListingV1Name is the legacy listing file under the install root.
	ListingV1Name = ".packages.toml"
	// ListingV2Name is the current listing file under the install root.
	ListingV2Name = ".packages2.json"
)

// Freshness is the rebuild decision for an install request.
type Freshness int

const (
	// Dirty means the package must be built and installed.
	Dirty Freshness = iota
	// Fresh means the previous install already satisfies the request.
	Fresh
)

func (f Freshness) String() string {
	if f == Fresh {
		return "fresh"
	}
	return "dirty"
}

// InstallTracker aggregates the two install listings and one exclusive lock
// per backing file. The listings are loaded together, mutated together, and
// saved together; persisting them independently could let them diverge
// permanently.
type InstallTracker struct {
	v1     *listingV1
	v2     *listingV2
	v1Lock *lockfile.FileLock
	v2Lock *lockfile.FileLock
}

// Load opens and exclusively locks both listing files under root, parses
// them, and resynchronizes the current listing from the legacy one before
// returning. Missing files are created empty; an empty file is an empty
// listing. The locks live until Unlock.
func Load(ctx context.Context, root string) (*InstallTracker, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf(messages.TrackerOpenFmt, root, err)
	}
	v1Lock, err := lockfile.Acquire(ctx, filepath.Join(root, ListingV1Name))
	if err != nil {
		return nil, err
	}
	v2Lock, err := lockfile.Acquire(ctx, filepath.Join(root, ListingV2Name))
	if err != nil {
		_ = v1Lock.Release()
		return nil, err
	}

	t := &InstallTracker{v1Lock: v1Lock, v2Lock: v2Lock}
	loaded := false
	defer func() {
		if !loaded {
			t.Unlock()
		}
	}()

	v1Data, err := readLocked(v1Lock)
	if err != nil {
		return nil, err
	}
	if t.v1, err = parseListingV1(v1Data); err != nil {
		return nil, &FormatError{Path: v1Lock.Path(), Err: err}
	}

	v2Data, err := readLocked(v2Lock)
	if err != nil {
		return nil, err
	}
	if t.v2, err = parseListingV2(v2Data); err != nil {
		return nil, &FormatError{Path: v2Lock.Path(), Err: err}
	}

	t.v2.syncV1(t.v1)
	loaded = true
	return t, nil
}

func readLocked(lock *lockfile.FileLock) ([]byte, error) {
	data, err := io.ReadAll(lock.File())
	if err != nil {
		return nil, fmt.Errorf(messages.TrackerReadFmt, lock.Path(), err)
	}
	return data, nil
}

// Unlock releases both file locks. The tracker must not be used afterward.
func (t *InstallTracker) Unlock() {
	_ = t.v2Lock.Release()
	_ = t.v1Lock.Release()
}

// CheckUpgrade decides whether pkg must be built and installed (Dirty) or
// the previous install already satisfies the request (Fresh). duplicates
// maps each executable pkg would produce that already exists as a file in
// dst to the tracked identity owning it (nil for an untracked file).
//
// force, or the absence of duplicates, is always Dirty. Duplicates owned by
// a package with a different name fail with a ConflictError instead of
// picking a freshness outcome. Among same-named owners the source is
// deliberately not required to match, so a user can switch between a
// registry and a git checkout of the same package; any such switch simply
// comes out Dirty.
func (t *InstallTracker) CheckUpgrade(dst string, pkg *core.Package, force bool, opts *core.BuildOptions, target string) (Freshness, map[string]*core.PackageID, error) {
	exes := opts.Filter.ExecutableNames(pkg)
	duplicates := t.findDuplicates(dst, exes)
	if force || len(duplicates) == 0 {
		return Dirty, duplicates, nil
	}

	var matching []*core.PackageID
	for _, owner := range duplicates {
		if owner != nil && owner.Name == pkg.Name() {
			matching = append(matching, owner)
		}
	}
	if len(matching) != len(duplicates) {
		return Dirty, nil, newConflictError(duplicates)
	}

	source := pkg.ID().Source
	if source.IsPath() {
		// Local checkouts are never considered stable.
		return Dirty, duplicates, nil
	}
	exeSet := makeSet(exes)
	for _, owner := range matching {
		entry := t.v2.installs[owner.Key()]
		switch {
		case entry == nil:
			// syncV1 keeps the listings aligned; an owner came from the
			// current listing, so it must still be there.
			panic(fmt.Sprintf(messages.TrackerUntrackedRemoveFmt, owner))
		case owner.Version != pkg.Version(),
			!owner.Source.Equal(source),
			source.IsGit() && owner.Source.Precise != source.Precise,
			!entry.info.isUpToDate(opts, target, exeSet):
			return Dirty, duplicates, nil
		}
	}
	return Fresh, duplicates, nil
}

// findDuplicates scans dst for executables that already exist as files.
func (t *InstallTracker) findDuplicates(dst string, exes []string) map[string]*core.PackageID {
	duplicates := make(map[string]*core.PackageID)
	for _, name := range exes {
		if _, err := os.Stat(filepath.Join(dst, name)); err != nil {
			continue
		}
		duplicates[name] = t.v2.packageForBin(name)
	}
	return duplicates
}

// MarkInstalled records that pkg now owns bins. Ownership of the names
// transfers away from every other tracked identity, identities left with no
// binaries are pruned, and pkg's entry is inserted or updated — in both
// listings within one logical operation, with the build-configuration
// snapshot recorded in the current listing.
func (t *InstallTracker) MarkInstalled(pkg *core.Package, bins []string, versionReq string, opts *core.BuildOptions, target, toolchain string) {
	set := makeSet(bins)
	t.v2.markInstalled(pkg, set, versionReq, opts, target, toolchain)
	t.v1.markInstalled(pkg, set)
}

// Remove strips bins from id's entry in both listings, dropping the entry
// entirely when its binary set becomes empty. Removal of an identity that
// neither listing tracks is a caller-contract violation and panics; callers
// must only remove binaries they have confirmed installed.
func (t *InstallTracker) Remove(id core.PackageID, bins []string) {
	set := makeSet(bins)
	t.v1.remove(id, set)
	t.v2.remove(id, set)
}

// Save truncates and rewrites both listing files through their held locks.
// Readers hold the same locks, so they observe either the old content or
// the new, never a partial mix. The two writes are independent; a failure
// is reported with that file's path.
func (t *InstallTracker) Save() error {
	v1Data, err := t.v1.marshal()
	if err != nil {
		return fmt.Errorf(messages.TrackerWriteFmt, t.v1Lock.Path(), err)
	}
	if err := rewriteLocked(t.v1Lock, v1Data); err != nil {
		return err
	}
	v2Data, err := t.v2.marshal()
	if err != nil {
		return fmt.Errorf(messages.TrackerWriteFmt, t.v2Lock.Path(), err)
	}
	return rewriteLocked(t.v2Lock, v2Data)
}

func rewriteLocked(lock *lockfile.FileLock, data []byte) error {
	file := lock.File()
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf(messages.TrackerWriteFmt, lock.Path(), err)
	}
	if err := file.Truncate(0); err != nil {
		return fmt.Errorf(messages.TrackerWriteFmt, lock.Path(), err)
	}
	if _, err := file.Write(data); err != nil {
		return fmt.Errorf(messages.TrackerWriteFmt, lock.Path(), err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf(messages.TrackerWriteFmt, lock.Path(), err)
	}
	return nil
}

// Install pairs a tracked identity with the binary names it owns.
type Install struct {
	ID   core.PackageID
	Bins []string
}

// AllInstalled enumerates every tracked identity and its binaries from the
// authoritative legacy listing, ordered by identity.
func (t *InstallTracker) AllInstalled() []Install {
	out := make([]Install, 0, len(t.v1.installs))
	for _, entry := range t.v1.installs {
		out = append(out, Install{ID: entry.id, Bins: sortedSet(entry.bins)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Compare(out[j].ID) < 0 })
	return out
}

// InstalledBins returns the binary names owned by id, or nil when id is not
// tracked.
func (t *InstallTracker) InstalledBins(id core.PackageID) []string {
	entry := t.v1.installs[id.Key()]
	if entry == nil {
		return nil
	}
	return sortedSet(entry.bins)
}

// PackageForBin returns the tracked identity owning the named binary, or
// nil. Served by the current listing, which carries the name index.
func (t *InstallTracker) PackageForBin(name string) *core.PackageID {
	return t.v2.packageForBin(name)
}
