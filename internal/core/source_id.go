package core

import (
	"fmt"
	"strings"

	"github.com/cask-pm/cask/internal/messages"
)

// SourceKind classifies where a package comes from.
type SourceKind string

const (
	// KindRegistry is a remote registry index.
	KindRegistry SourceKind = "registry"
	// KindGit is a version-controlled checkout.
	KindGit SourceKind = "git"
	// KindPath is a local filesystem directory.
	KindPath SourceKind = "path"
)

// SourceID identifies the origin of a package. For path sources the URL is
// the package root directory on the local filesystem.
//
// Precise pins the exact resolved revision of a git source. It is persisted
// and used by freshness decisions, but takes no part in equality: two
// SourceIDs that differ only in Precise identify the same source. Compare
// Precise explicitly where same-version drift matters.
type SourceID struct {
	Kind    SourceKind
	URL     string
	Precise string
}

// IsPath reports whether the source is a local filesystem directory.
func (s SourceID) IsPath() bool { return s.Kind == KindPath }

// IsGit reports whether the source is a version-controlled checkout.
func (s SourceID) IsGit() bool { return s.Kind == KindGit }

// Equal reports whether two SourceIDs identify the same source, ignoring
// the pinned revision.
func (s SourceID) Equal(other SourceID) bool {
	return s.Kind == other.Kind && s.URL == other.URL
}

// String renders the canonical `kind+url` form, with the pinned revision
// appended as a fragment when present. ParseSourceID inverts it.
func (s SourceID) String() string {
	out := string(s.Kind) + "+" + s.URL
	if s.Precise != "" {
		out += "#" + s.Precise
	}
	return out
}

// canonical is the identity string without the pinned revision.
func (s SourceID) canonical() string {
	return string(s.Kind) + "+" + s.URL
}

// ParseSourceID parses the `kind+url[#precise]` form produced by String.
func ParseSourceID(raw string) (SourceID, error) {
	kind, rest, ok := strings.Cut(raw, "+")
	if !ok || rest == "" {
		return SourceID{}, fmt.Errorf(messages.CoreInvalidSourceIDFmt, raw)
	}
	switch SourceKind(kind) {
	case KindRegistry, KindGit, KindPath:
	default:
		return SourceID{}, fmt.Errorf(messages.CoreInvalidSourceIDFmt, raw)
	}
	id := SourceID{Kind: SourceKind(kind), URL: rest}
	if i := strings.LastIndex(rest, "#"); i >= 0 {
		id.URL, id.Precise = rest[:i], rest[i+1:]
	}
	if id.URL == "" {
		return SourceID{}, fmt.Errorf(messages.CoreInvalidSourceIDFmt, raw)
	}
	return id, nil
}
