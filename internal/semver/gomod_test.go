package semver

import "testing"

func TestGoModSatisfiesMinimumVersion(t *testing.T) {
	m := GoModMatcher{}
	cases := []struct {
		constraint, version string
		want                bool
	}{
		{"v1.2.3", "v1.2.3", true},
		{"v1.2.3", "v1.3.0", true},
		{"v1.2.3", "v1.2.2", false},
		{"1.2.3", "v1.2.3", true},
		{"v1.2.3+incompatible", "v1.2.4+incompatible", true},
		{"v2.0.0+incompatible", "v1.9.9", false},
	}
	for _, c := range cases {
		if got := m.Satisfies(c.constraint, c.version); got != c.want {
			t.Errorf("Satisfies(%q, %q) = %v, want %v", c.constraint, c.version, got, c.want)
		}
	}
}

func TestGoModPseudoVersionComparesBelowBaseRelease(t *testing.T) {
	pseudo := "v1.2.3-0.20230401120000-abcdef123456"
	if !IsPseudoVersion(pseudo) {
		t.Fatalf("expected %q to be detected as a pseudo-version", pseudo)
	}
	m := GoModMatcher{}
	if !m.Satisfies("v1.2.2", pseudo) {
		t.Error("expected pseudo-version to satisfy a requirement on its base predecessor")
	}
	if m.Satisfies("v1.2.3", pseudo) {
		t.Error("expected pseudo-version to not satisfy a requirement on its nominal base release")
	}
}

func TestGoModInvalidSyntax(t *testing.T) {
	m := GoModMatcher{}
	if m.IsValidSyntax("not-a-version") {
		t.Error("expected invalid version string to be rejected")
	}
}
