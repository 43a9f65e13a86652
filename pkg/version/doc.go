// Package version provides semantic version parsing and comparison with
// flexible precision support.
//
// The package implements a subset of semantic versioning with a focus on
// precision-aware comparison. Three precision levels are supported:
//
//   - Major only (e.g., "3")
//   - Major.Minor (e.g., "3.8", "11.0")
//   - Major.Minor.Patch (e.g., "3.8.5", "1.7.1")
//
// A version with lower precision acts as a wildcard for missing components:
// "11.0" matches 11.0.0, 11.0.3, or any other 11.0.x. This is the behavior
// users expect when pinning a CUDA or Python version on the command line
// without spelling out the patch level.
//
// Comparisons use the lower precision of the two versions (Compare), while
// CompareStrict compares all components and is used where a total order over
// concrete versions is required, such as catalog tie-breaking.
//
// Prerelease identifiers and build metadata are deliberately not supported;
// the compatibility catalog only carries released versions.
package version
