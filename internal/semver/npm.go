package semver

import (
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
)

// NpmMatcher implements Matcher for npm's node-semver grammar: exact,
// caret ("^1.2.3"), tilde ("~1.2.3"), ranges, wildcards, and "||"
// disjunction. As with CargoMatcher, a bare version means an exact match,
// which is also Masterminds' default, so no rewrite is needed.
//
// Tags ("latest", "beta") and non-registry specifiers (git URLs, file
// paths) are not version constraints at all; IsValidSyntax reports false
// for them and the document lifecycle should simply skip matching for
// those dependencies.
type NpmMatcher struct{}

var _ Matcher = NpmMatcher{}

func (NpmMatcher) IsValidSyntax(constraint string) bool {
	if isNpmNonSemverSpecifier(constraint) {
		return false
	}
	_, err := mmsemver.NewConstraint(constraint)
	return err == nil
}

func (NpmMatcher) Satisfies(constraint, version string) bool {
	if isNpmNonSemverSpecifier(constraint) {
		return false
	}
	c, err := mmsemver.NewConstraint(constraint)
	if err != nil {
		return false
	}
	v, err := mmsemver.NewVersion(version)
	if err != nil {
		return false
	}
	if v.Prerelease() != "" && !strings.Contains(constraint, "-") {
		return false
	}
	ok, _ := c.Validate(v)
	return ok
}

func (m NpmMatcher) IsLatestSatisfying(constraint, latest string) bool {
	return m.Satisfies(constraint, latest)
}

// isNpmNonSemverSpecifier reports whether constraint is a dist-tag,
// git URL, or local path rather than a version range.
func isNpmNonSemverSpecifier(constraint string) bool {
	switch {
	case constraint == "":
		return true
	case strings.HasPrefix(constraint, "git+"),
		strings.HasPrefix(constraint, "git://"),
		strings.HasPrefix(constraint, "github:"),
		strings.HasPrefix(constraint, "file:"),
		strings.HasPrefix(constraint, "link:"),
		strings.Contains(constraint, "://"):
		return true
	case strings.IndexFunc(constraint, isDigitOrRangeChar) == -1:
		// No digits or range operators at all: a bare tag like "latest".
		return true
	}
	return false
}

func isDigitOrRangeChar(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r == '^' || r == '~' || r == '*' || r == 'x' || r == 'X':
		return true
	}
	return false
}
