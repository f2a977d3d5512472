package semver

import (
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"
)

// Pep440Matcher implements Matcher for PyPI's PEP 440 version specifiers:
// ==, !=, >=, <=, >, <, ~=, ===, comma-joined (AND). Pre-releases are
// excluded unless the specifier set explicitly permits them (PEP 440's own
// rule, which go-pep440-version already implements).
type Pep440Matcher struct{}

var _ Matcher = Pep440Matcher{}

func (Pep440Matcher) IsValidSyntax(constraint string) bool {
	if strings.TrimSpace(constraint) == "" || constraint == "*" {
		return true
	}
	_, err := pep440.NewSpecifiers(constraint)
	return err == nil
}

func (Pep440Matcher) Satisfies(constraint, version string) bool {
	v, err := pep440.Parse(version)
	if err != nil {
		return false
	}
	if strings.TrimSpace(constraint) == "" || constraint == "*" {
		return true
	}
	specs, err := pep440.NewSpecifiers(constraint)
	if err != nil {
		return false
	}
	return specs.Check(v)
}

func (m Pep440Matcher) IsLatestSatisfying(constraint, latest string) bool {
	return m.Satisfies(constraint, latest)
}

// NormalizeName applies PyPI's canonicalization: lowercase, unify "-", "_",
// and "." as the separator. Used only to build the matcher/lookup key — the
// record's display name is preserved verbatim (spec §9, "Name normalization
// timing").
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Map(func(r rune) rune {
		if r == '_' || r == '.' {
			return '-'
		}
		return r
	}, name)
	for strings.Contains(name, "--") {
		name = strings.ReplaceAll(name, "--", "-")
	}
	return name
}
