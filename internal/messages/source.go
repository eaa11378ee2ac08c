package messages

// Package selection messages.
const (
	// SelectYankedFmt formats the error for a version that was withdrawn at the source.
	SelectYankedFmt = "cannot install package `%s`, it has been yanked from %s"
	// SelectNotFoundFmt formats the error for a version requirement nothing satisfies.
	SelectNotFoundFmt = "could not find `%s` in %s with version `%s`"
	// SelectMultipleFmt formats the ambiguity error; the second verb is the
	// alphabetically sorted candidate names.
	SelectMultipleFmt = "multiple packages with %s found: %s"
	// SelectNothingInstallable is returned when no candidate exposes a binary
	// or example target.
	SelectNothingInstallable = "no packages found with binaries or examples"

	// SelectUpdatingVerb is the shell status verb for a source refresh.
	SelectUpdatingVerb = "Updating"
	// SelectUpdatingIndexFmt is the shell status line for a source refresh.
	SelectUpdatingIndexFmt = "`%s` index"
)
