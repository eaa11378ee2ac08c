package tracker

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/cask-pm/cask/internal/core"
	"github.com/cask-pm/cask/internal/messages"
)

// listingV1 is the legacy install listing: identity to owned binary names.
// Older releases of the tool read and write only this file, so it is the
// authoritative record whenever the two listings disagree.
type listingV1 struct {
	installs map[core.IDKey]*v1Entry
}

type v1Entry struct {
	id   core.PackageID
	bins map[string]struct{}
}

func newListingV1() *listingV1 {
	return &listingV1{installs: make(map[core.IDKey]*v1Entry)}
}

// v1File is the persisted TOML shape: a single [v1] table mapping identity
// strings to binary-name arrays.
type v1File struct {
	V1 map[string][]string `toml:"v1"`
}

// parseListingV1 parses the legacy TOML listing. Empty content is an empty
// listing, not an error.
func parseListingV1(data []byte) (*listingV1, error) {
	listing := newListingV1()
	if len(bytes.TrimSpace(data)) == 0 {
		return listing, nil
	}
	var file v1File
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	for key, bins := range file.V1 {
		id, err := core.ParsePackageID(key)
		if err != nil {
			return nil, err
		}
		listing.installs[id.Key()] = &v1Entry{id: id, bins: makeSet(bins)}
	}
	return listing, nil
}

func (l *listingV1) marshal() ([]byte, error) {
	file := v1File{V1: make(map[string][]string, len(l.installs))}
	for _, entry := range l.installs {
		file.V1[entry.id.String()] = sortedSet(entry.bins)
	}
	return toml.Marshal(file)
}

// markInstalled transfers ownership of bins to pkg: the names are stripped
// from every other entry, empty entries are pruned, then pkg's entry is
// inserted or updated with the merged set.
func (l *listingV1) markInstalled(pkg *core.Package, bins map[string]struct{}) {
	key := pkg.ID().Key()
	for otherKey, entry := range l.installs {
		if otherKey == key {
			continue
		}
		for bin := range bins {
			delete(entry.bins, bin)
		}
		if len(entry.bins) == 0 {
			delete(l.installs, otherKey)
		}
	}
	entry := l.installs[key]
	if entry == nil {
		entry = &v1Entry{bins: make(map[string]struct{}, len(bins))}
		l.installs[key] = entry
	}
	entry.id = pkg.ID()
	for bin := range bins {
		entry.bins[bin] = struct{}{}
	}
}

// remove strips bins from id's entry, dropping the entry when it becomes
// empty. An untracked id is a caller-contract violation.
func (l *listingV1) remove(id core.PackageID, bins map[string]struct{}) {
	entry := l.installs[id.Key()]
	if entry == nil {
		panic(fmt.Sprintf(messages.TrackerUntrackedRemoveFmt, id))
	}
	for bin := range bins {
		delete(entry.bins, bin)
	}
	if len(entry.bins) == 0 {
		delete(l.installs, id.Key())
	}
}
