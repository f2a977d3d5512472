// Package lockfile implements the lock-file resolvers (C4): locating and
// parsing Cargo.lock, package-lock.json, poetry.lock, uv.lock, and go.sum
// into a {name -> resolved version} map. The document lifecycle reads this
// synchronously after parsing a manifest to populate hover's "Current:"
// line and the inlay-hint baseline before the network round trip returns.
package lockfile

import (
	"path/filepath"
)

// Entry is one resolved pin from a lock file.
type Entry struct {
	Version string
	// Git, when non-empty, is the source the lock file recorded the
	// package as resolving from (a VCS URL, a registry name, or - for
	// go.sum - which of the module/go.mod hash lines it came from).
	Git string
}

// Resolver is the per-ecosystem lock-file contract (spec §4.4). A missing
// lock file is never an error: Locate returning false, or Parse failing,
// both leave the caller with an empty map.
type Resolver interface {
	// Ecosystem returns the PURL-style ecosystem tag this resolver serves.
	Ecosystem() string

	// LockfileNames lists the basenames this resolver recognizes, for
	// spec §6's file-watcher registration.
	LockfileNames() []string

	// Locate returns the candidate lock file path sitting alongside
	// manifestPath. ok is false only when manifestPath itself is empty;
	// the returned path is not guaranteed to exist - the caller stats it
	// and treats "not found" as an empty map, never an error.
	Locate(manifestPath string) (path string, ok bool)

	// Parse decodes lock file content into {name -> resolved entry}. A
	// malformed lock file returns a non-nil error and a nil map; callers
	// must still proceed with an empty map and a logged warning, never a
	// failed manifest intelligence operation.
	Parse(content []byte) (map[string]Entry, error)
}

// locateSibling looks for filename in the same directory as manifestPath,
// which is where every ecosystem here keeps its lock file (none of the
// four supported ecosystems nests its lock file in a parent directory
// relative to the manifest that names it).
func locateSibling(manifestPath, filename string) (string, bool) {
	if manifestPath == "" {
		return "", false
	}
	dir := filepath.Dir(manifestPath)
	candidate := filepath.Join(dir, filename)
	return candidate, true
}
