package messages

// Configuration and locking messages.
const (
	// ConfigResolveHomeFmt formats home directory resolution failures.
	ConfigResolveHomeFmt = "failed to resolve cask home directory: %w"
	// ConfigParseFmt formats config file parse failures.
	ConfigParseFmt = "failed to parse config at %s: %w"
	// ConfigReadFmt formats config file read failures.
	ConfigReadFmt = "failed to read config at %s: %w"

	// LockAcquireFmt formats failures to open or acquire an advisory lock.
	LockAcquireFmt = "failed to acquire lock on %s: %v"
)
