package domain

import "slices"

// ExternalBuildManifest is what the sub-build's own configure step tells the
// primary build about itself: the compiler flags, include directories and
// definitions every primary-build translation unit must be compiled with.
type ExternalBuildManifest struct {
	CXXFlags    []string
	IncludeDirs []string
	Definitions []string

	// VersionDefines are synthesized from the revisions of the nested source trees.
	VersionDefines []string
}

// Clone returns a deep copy so callers cannot mutate a shared manifest.
func (m ExternalBuildManifest) Clone() ExternalBuildManifest {
	return ExternalBuildManifest{
		CXXFlags:       slices.Clone(m.CXXFlags),
		IncludeDirs:    slices.Clone(m.IncludeDirs),
		Definitions:    slices.Clone(m.Definitions),
		VersionDefines: slices.Clone(m.VersionDefines),
	}
}

// ShortRevision truncates a full revision hash to the 8 characters embedded in
// version definitions.
func ShortRevision(rev string) string {
	if len(rev) <= 8 {
		return rev
	}
	return rev[:8]
}
