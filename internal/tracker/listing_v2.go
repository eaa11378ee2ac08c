package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cask-pm/cask/internal/core"
	"github.com/cask-pm/cask/internal/messages"
)

// listingV2 is the current install listing: identity to the full install
// snapshot. Unknown fields at the document and entry level are preserved
// verbatim so that files written by newer releases survive a round trip.
type listingV2 struct {
	installs map[core.IDKey]*v2Entry
	other    map[string]json.RawMessage
}

type v2Entry struct {
	id   core.PackageID
	info *installInfo
}

func newListingV2() *listingV2 {
	return &listingV2{
		installs: make(map[core.IDKey]*v2Entry),
		other:    make(map[string]json.RawMessage),
	}
}

// installInfo records the settings a package was installed with. Future
// install requests compare against it to decide freshness.
type installInfo struct {
	versionReq        string
	bins              map[string]struct{}
	features          map[string]struct{}
	allFeatures       bool
	noDefaultFeatures bool
	profile           string
	// target is empty when unknown, i.e. when the entry was migrated from
	// the legacy listing.
	target    string
	toolchain string
	other     map[string]json.RawMessage
}

// installInfoFromV1 is the default-filled snapshot for an entry that only
// the legacy listing knew about.
func installInfoFromV1(bins map[string]struct{}) *installInfo {
	return &installInfo{
		bins:    cloneSet(bins),
		profile: "release",
		other:   make(map[string]json.RawMessage),
	}
}

// isUpToDate reports whether the recorded build configuration and binary
// set exactly match the current request. An unknown recorded target matches
// any target. Identity, source, and revision checks are the caller's.
func (i *installInfo) isUpToDate(opts *core.BuildOptions, target string, exes map[string]struct{}) bool {
	return setsEqual(i.features, makeSet(opts.Features)) &&
		i.allFeatures == opts.AllFeatures &&
		i.noDefaultFeatures == opts.NoDefaultFeatures &&
		i.profile == opts.Profile &&
		(i.target == "" || i.target == target) &&
		setsEqual(i.bins, exes)
}

// Known entry-level JSON keys; everything else is carried in other.
const (
	keyVersionReq        = "version_req"
	keyBins              = "bins"
	keyFeatures          = "features"
	keyAllFeatures       = "all_features"
	keyNoDefaultFeatures = "no_default_features"
	keyProfile           = "profile"
	keyTarget            = "target"
	keyToolchain         = "toolchain"
	keyInstalls          = "installs"
)

func parseInstallInfo(data json.RawMessage) (*installInfo, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	info := &installInfo{
		bins:     make(map[string]struct{}),
		features: make(map[string]struct{}),
		other:    make(map[string]json.RawMessage),
	}
	take := func(key string, dst any) error {
		value, ok := raw[key]
		if !ok {
			return nil
		}
		delete(raw, key)
		return json.Unmarshal(value, dst)
	}

	var bins, features []string
	var versionReq, target, toolchain *string
	if err := take(keyVersionReq, &versionReq); err != nil {
		return nil, err
	}
	if err := take(keyBins, &bins); err != nil {
		return nil, err
	}
	if err := take(keyFeatures, &features); err != nil {
		return nil, err
	}
	if err := take(keyAllFeatures, &info.allFeatures); err != nil {
		return nil, err
	}
	if err := take(keyNoDefaultFeatures, &info.noDefaultFeatures); err != nil {
		return nil, err
	}
	if err := take(keyProfile, &info.profile); err != nil {
		return nil, err
	}
	if err := take(keyTarget, &target); err != nil {
		return nil, err
	}
	if err := take(keyToolchain, &toolchain); err != nil {
		return nil, err
	}
	info.bins = makeSet(bins)
	info.features = makeSet(features)
	if versionReq != nil {
		info.versionReq = *versionReq
	}
	if target != nil {
		info.target = *target
	}
	if toolchain != nil {
		info.toolchain = *toolchain
	}
	info.other = raw
	return info, nil
}

func (i *installInfo) marshal() (json.RawMessage, error) {
	doc := make(map[string]json.RawMessage, len(i.other)+8)
	for key, value := range i.other {
		doc[key] = value
	}
	put := func(key string, value any) error {
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		doc[key] = raw
		return nil
	}
	if i.versionReq != "" {
		if err := put(keyVersionReq, i.versionReq); err != nil {
			return nil, err
		}
	}
	if err := put(keyBins, sortedSet(i.bins)); err != nil {
		return nil, err
	}
	if err := put(keyFeatures, sortedSet(i.features)); err != nil {
		return nil, err
	}
	if err := put(keyAllFeatures, i.allFeatures); err != nil {
		return nil, err
	}
	if err := put(keyNoDefaultFeatures, i.noDefaultFeatures); err != nil {
		return nil, err
	}
	if err := put(keyProfile, i.profile); err != nil {
		return nil, err
	}
	if i.target != "" {
		if err := put(keyTarget, i.target); err != nil {
			return nil, err
		}
	}
	if i.toolchain != "" {
		if err := put(keyToolchain, i.toolchain); err != nil {
			return nil, err
		}
	}
	return json.Marshal(doc)
}

// parseListingV2 parses the current JSON listing. Empty content is an empty
// listing, not an error.
func parseListingV2(data []byte) (*listingV2, error) {
	listing := newListingV2()
	if len(bytes.TrimSpace(data)) == 0 {
		return listing, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if installsRaw, ok := raw[keyInstalls]; ok {
		delete(raw, keyInstalls)
		var entries map[string]json.RawMessage
		if err := json.Unmarshal(installsRaw, &entries); err != nil {
			return nil, err
		}
		for key, entryRaw := range entries {
			id, err := core.ParsePackageID(key)
			if err != nil {
				return nil, err
			}
			info, err := parseInstallInfo(entryRaw)
			if err != nil {
				return nil, err
			}
			listing.installs[id.Key()] = &v2Entry{id: id, info: info}
		}
	}
	listing.other = raw
	return listing, nil
}

func (l *listingV2) marshal() ([]byte, error) {
	entries := make(map[string]json.RawMessage, len(l.installs))
	for _, entry := range l.installs {
		raw, err := entry.info.marshal()
		if err != nil {
			return nil, err
		}
		entries[entry.id.String()] = raw
	}
	installsRaw, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}
	doc := make(map[string]json.RawMessage, len(l.other)+1)
	for key, value := range l.other {
		doc[key] = value
	}
	doc[keyInstalls] = installsRaw
	return json.Marshal(doc)
}

// syncV1 resynchronizes this listing from the legacy one: every legacy
// identity overwrites or seeds the current entry's binary set, and every
// identity absent from legacy is dropped. Legacy stays the source of truth
// so an older release that only writes the legacy file still mutates shared
// state correctly. Idempotent.
func (l *listingV2) syncV1(v1 *listingV1) {
	for key, legacy := range v1.installs {
		if entry, ok := l.installs[key]; ok {
			entry.info.bins = cloneSet(legacy.bins)
		} else {
			l.installs[key] = &v2Entry{id: legacy.id, info: installInfoFromV1(legacy.bins)}
		}
	}
	for key := range l.installs {
		if _, ok := v1.installs[key]; !ok {
			delete(l.installs, key)
		}
	}
}

// packageForBin returns the identity owning the named binary, or nil.
func (l *listingV2) packageForBin(name string) *core.PackageID {
	for _, entry := range l.installs {
		if _, ok := entry.info.bins[name]; ok {
			id := entry.id
			return &id
		}
	}
	return nil
}

// markInstalled mirrors listingV1.markInstalled and additionally snapshots
// the build configuration on pkg's entry. Unknown fields already attached
// to the entry are kept.
func (l *listingV2) markInstalled(pkg *core.Package, bins map[string]struct{}, versionReq string, opts *core.BuildOptions, target, toolchain string) {
	key := pkg.ID().Key()
	for otherKey, entry := range l.installs {
		if otherKey == key {
			continue
		}
		for bin := range bins {
			delete(entry.info.bins, bin)
		}
		if len(entry.info.bins) == 0 {
			delete(l.installs, otherKey)
		}
	}
	entry := l.installs[key]
	if entry == nil {
		entry = &v2Entry{info: &installInfo{
			bins:  make(map[string]struct{}, len(bins)),
			other: make(map[string]json.RawMessage),
		}}
		l.installs[key] = entry
	}
	entry.id = pkg.ID()
	for bin := range bins {
		entry.info.bins[bin] = struct{}{}
	}
	entry.info.versionReq = versionReq
	entry.info.features = makeSet(opts.Features)
	entry.info.allFeatures = opts.AllFeatures
	entry.info.noDefaultFeatures = opts.NoDefaultFeatures
	entry.info.profile = opts.Profile
	entry.info.target = target
	entry.info.toolchain = toolchain
}

// remove mirrors listingV1.remove.
func (l *listingV2) remove(id core.PackageID, bins map[string]struct{}) {
	entry := l.installs[id.Key()]
	if entry == nil {
		panic(fmt.Sprintf(messages.TrackerUntrackedRemoveFmt, id))
	}
	for bin := range bins {
		delete(entry.info.bins, bin)
	}
	if len(entry.info.bins) == 0 {
		delete(l.installs, id.Key())
	}
}
