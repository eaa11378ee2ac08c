package source

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cask-pm/cask/internal/core"
	"github.com/cask-pm/cask/internal/messages"
)

// ErrNothingInstallable is returned when no candidate exposes a binary or
// example target.
var ErrNothingInstallable = errors.New(messages.SelectNothingInstallable)

// YankedError reports that nothing satisfies a version requirement and the
// best-guess identity is withdrawn at the source.
type YankedError struct {
	Name   string
	Source core.SourceID
}

func (e *YankedError) Error() string {
	return fmt.Sprintf(messages.SelectYankedFmt, e.Name, e.Source)
}

// NotFoundError reports that nothing at the source satisfies a version
// requirement.
type NotFoundError struct {
	Name       string
	Source     core.SourceID
	VersionReq string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf(messages.SelectNotFoundFmt, e.Name, e.Source, e.VersionReq)
}

// AmbiguityError reports more than one installable candidate when none was
// explicitly named. Names holds every candidate, sorted alphabetically.
type AmbiguityError struct {
	// Kind is the target category the candidates were drawn from,
	// "binaries" or "examples".
	Kind  string
	Names []string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf(messages.SelectMultipleFmt, e.Kind, strings.Join(e.Names, ", "))
}
