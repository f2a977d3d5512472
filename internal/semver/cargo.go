package semver

import (
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
)

// CargoMatcher implements Matcher for Cargo version requirements: exact
// (bare "1.2.3" or "=1.2.3"), caret ("^1.2.3"), tilde ("~1.2"), wildcard
// ("1.2.*"), and comma-joined AND lists. There is no "||" disjunction.
//
// Clauses reach Masterminds/semver/v3 as written, and Masterminds reads a
// bare version as an exact match (it aliases "1.2.3" to "=1.2.3"), so
// "1.0.100" does not admit "1.0.200".
type CargoMatcher struct{}

var _ Matcher = CargoMatcher{}

func (CargoMatcher) IsValidSyntax(constraint string) bool {
	_, err := mmsemver.NewConstraint(cargoRewrite(constraint))
	return err == nil
}

func (CargoMatcher) Satisfies(constraint, version string) bool {
	c, err := mmsemver.NewConstraint(cargoRewrite(constraint))
	if err != nil {
		return false
	}
	v, err := mmsemver.NewVersion(version)
	if err != nil {
		return false
	}
	includePre := constraintMentionsPrerelease(constraint)
	if v.Prerelease() != "" && !includePre {
		return false
	}
	ok, _ := c.Validate(v)
	return ok
}

func (m CargoMatcher) IsLatestSatisfying(constraint, latest string) bool {
	return m.Satisfies(constraint, latest)
}

// cargoRewrite trims every comma-separated clause and rejoins them with
// ", ". No clause is rewritten: operators, wildcards and bare versions
// reach Masterminds unchanged.
func cargoRewrite(constraint string) string {
	parts := strings.Split(constraint, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// constraintMentionsPrerelease reports whether the raw constraint text
// itself names a pre-release component (e.g. "1.0.0-beta.1"), which is the
// only way a pre-release version is permitted to satisfy it.
func constraintMentionsPrerelease(constraint string) bool {
	return strings.Contains(constraint, "-")
}
