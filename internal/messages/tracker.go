package messages

// Install tracking messages.
const (
	// TrackerOpenFmt formats failures to open a listing file under the install root.
	TrackerOpenFmt = "failed to open install metadata at %s: %w"
	// TrackerReadFmt formats failures to read a locked listing file.
	TrackerReadFmt = "failed to read install metadata at %s: %w"
	// TrackerParseFmt formats malformed listing content errors.
	TrackerParseFmt = "failed to parse install metadata at %s: %v"
	// TrackerWriteFmt formats failures to rewrite a listing file.
	TrackerWriteFmt = "failed to write install metadata at %s: %w"

	TrackerConflictBinFmt     = "binary `%s` already exists in destination"
	TrackerConflictOwnerFmt   = " as part of `%s`"
	TrackerConflictResolution = "Add --force to overwrite"

	// TrackerUntrackedRemoveFmt is the panic message for removal of an
	// identity that neither listing tracks. Callers must only remove
	// binaries they have confirmed installed.
	TrackerUntrackedRemoveFmt = "install tracking out of sync: no entry for `%s`"
)
