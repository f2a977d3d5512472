package semver

import (
	"strings"

	"golang.org/x/mod/module"
	xsemver "golang.org/x/mod/semver"
)

// GoModMatcher implements Matcher for go.mod's modified-semver grammar.
// Go's `require` directive names a minimum version, not a range: under
// minimal version selection any version greater than or equal to the
// required one satisfies it. A leading "v" is mandatory for x/mod's
// semver package but optional on input here; "+incompatible" is a
// lexical-only suffix that does not affect ordering; pseudo-versions
// compare as pre-releases of their base version.
type GoModMatcher struct{}

var _ Matcher = GoModMatcher{}

func (GoModMatcher) IsValidSyntax(constraint string) bool {
	return xsemver.IsValid(canonicalizeGoVersion(constraint))
}

func (GoModMatcher) Satisfies(constraint, version string) bool {
	c := canonicalizeGoVersion(constraint)
	v := canonicalizeGoVersion(version)
	if !xsemver.IsValid(c) || !xsemver.IsValid(v) {
		return false
	}
	return compareGoVersions(v, c) >= 0
}

func (m GoModMatcher) IsLatestSatisfying(constraint, latest string) bool {
	return m.Satisfies(constraint, latest)
}

// canonicalizeGoVersion adds a leading "v" if missing and strips a trailing
// "+incompatible" suffix, which carries no ordering information.
func canonicalizeGoVersion(v string) string {
	v = strings.TrimSuffix(v, "+incompatible")
	if v == "" {
		return v
	}
	if v[0] != 'v' {
		v = "v" + v
	}
	return v
}

// compareGoVersions orders two canonical (leading-"v") version strings,
// treating pseudo-versions per spec §4.2: vX.Y.Z-0.<timestamp>-<commit> is
// compared by its base version vX.Y.(Z-1), so it sorts below vX.Y.Z and
// equal to vX.Y.(Z-1).
func compareGoVersions(a, b string) int {
	return xsemver.Compare(pseudoVersionKey(a), pseudoVersionKey(b))
}

// pseudoVersionKey returns the comparison key for a canonical version: for
// a pseudo-version, its base version (module.PseudoVersionBase returns
// vX.Y.(Z-1) for vX.Y.Z-0.<timestamp>-<commit>); for anything else, the
// version itself.
func pseudoVersionKey(v string) string {
	if module.IsPseudoVersion(v) {
		if base, err := module.PseudoVersionBase(v); err == nil {
			return base
		}
	}
	return v
}

// IsPseudoVersion reports whether v is a Go pseudo-version
// (vX.Y.Z-<timestamp>-<commit>), as opposed to a regular tagged release or
// an ordinary hyphenated pre-release.
func IsPseudoVersion(v string) bool {
	return module.IsPseudoVersion(canonicalizeGoVersion(v))
}
