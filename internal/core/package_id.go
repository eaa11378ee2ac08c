package core

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/cask-pm/cask/internal/messages"
)

// PackageID uniquely identifies a package: name, version, and source origin.
type PackageID struct {
	Name    string
	Version string
	Source  SourceID
}

// IDKey is the origin-aware comparable key for a PackageID, suitable as a
// map key. Identities from a path source key on (root, name, version) so
// that a local checkout never collides with or displaces an unrelated
// remote package sharing its name and version; every other identity keys on
// the full tuple, minus the pinned revision.
type IDKey struct {
	local   bool
	root    string
	name    string
	version string
	source  string
}

// Key returns the origin-aware identity key.
func (id PackageID) Key() IDKey {
	if id.Source.IsPath() {
		return IDKey{local: true, root: id.Source.URL, name: id.Name, version: id.Version}
	}
	return IDKey{name: id.Name, version: id.Version, source: id.Source.canonical()}
}

// Equal reports whether two identities are the same key.
func (id PackageID) Equal(other PackageID) bool {
	return id.Key() == other.Key()
}

// Compare orders identities by name, then version ascending, then source
// string. Versions that do not parse as semver fall back to string order.
func (id PackageID) Compare(other PackageID) int {
	if c := strings.Compare(id.Name, other.Name); c != 0 {
		return c
	}
	if c := compareVersions(id.Version, other.Version); c != 0 {
		return c
	}
	return strings.Compare(id.Source.canonical(), other.Source.canonical())
}

func compareVersions(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	return va.Compare(vb)
}

// String renders `name version (source)`. ParsePackageID inverts it; the
// rendered form is the persisted listing key.
func (id PackageID) String() string {
	return fmt.Sprintf("%s %s (%s)", id.Name, id.Version, id.Source)
}

// ParsePackageID parses the `name version (source)` form produced by String.
func ParsePackageID(raw string) (PackageID, error) {
	open := strings.Index(raw, " (")
	if open < 0 || !strings.HasSuffix(raw, ")") {
		return PackageID{}, fmt.Errorf(messages.CoreInvalidPackageIDFmt, raw)
	}
	head := strings.Fields(raw[:open])
	if len(head) != 2 {
		return PackageID{}, fmt.Errorf(messages.CoreInvalidPackageIDFmt, raw)
	}
	source, err := ParseSourceID(raw[open+2 : len(raw)-1])
	if err != nil {
		return PackageID{}, fmt.Errorf(messages.CoreInvalidPackageIDFmt, raw)
	}
	return PackageID{Name: head[0], Version: head[1], Source: source}, nil
}
