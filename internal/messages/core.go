package messages

// Core data model messages.
const (
	// CoreInvalidPackageIDFmt formats package identity parse failures.
	CoreInvalidPackageIDFmt = "invalid package id `%s`"
	// CoreInvalidSourceIDFmt formats source identity parse failures.
	CoreInvalidSourceIDFmt = "invalid source id `%s`"
	// CoreInvalidVersionReqFmt formats version requirement parse failures.
	CoreInvalidVersionReqFmt = "invalid version requirement `%s` for `%s`: %w"
	// CoreDuplicatePackageFmt formats the error for two same-named packages in one set.
	CoreDuplicatePackageFmt = "package set contains more than one package named `%s`"
	// CoreCycleDetected is returned when no dependency ordering exists.
	CoreCycleDetected = "cyclic package dependency detected; no install order exists"
)
