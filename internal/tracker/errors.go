package tracker

import (
	"fmt"
	"strings"

	"github.com/cask-pm/cask/internal/core"
	"github.com/cask-pm/cask/internal/messages"
)

// FormatError reports malformed persisted listing content at Path. Empty
// listing files are not format errors.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf(messages.TrackerParseFmt, e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Conflict is one binary name already present in the destination.
type Conflict struct {
	Bin string
	// Owner is the tracked identity owning the binary, nil when the file
	// exists but no identity tracks it.
	Owner *core.PackageID
}

// ConflictError reports duplicate binaries owned by a differently-named
// package when force was not requested. Every conflicting binary is
// enumerated, not just the first.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	var b strings.Builder
	for _, c := range e.Conflicts {
		fmt.Fprintf(&b, messages.TrackerConflictBinFmt, c.Bin)
		if c.Owner != nil {
			fmt.Fprintf(&b, messages.TrackerConflictOwnerFmt, c.Owner)
		}
		b.WriteString("\n")
	}
	b.WriteString(messages.TrackerConflictResolution)
	return b.String()
}

func newConflictError(duplicates map[string]*core.PackageID) *ConflictError {
	conflicts := make([]Conflict, 0, len(duplicates))
	for _, bin := range sortedKeys(duplicates) {
		conflicts = append(conflicts, Conflict{Bin: bin, Owner: duplicates[bin]})
	}
	return &ConflictError{Conflicts: conflicts}
}
