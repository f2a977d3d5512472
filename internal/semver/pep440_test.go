package semver

import "testing"

func TestPep440Satisfies(t *testing.T) {
	m := Pep440Matcher{}
	cases := []struct {
		constraint, version string
		want                bool
	}{
		{">=1.0,<2.0", "1.5", true},
		{">=1.0,<2.0", "2.0", false},
		{"==1.2.3", "1.2.3", true},
		{"~=1.4.2", "1.4.5", true},
		{"~=1.4.2", "1.5.0", false},
		{"*", "1.2.3", true},
		{"", "1.2.3", true},
	}
	for _, c := range cases {
		if got := m.Satisfies(c.constraint, c.version); got != c.want {
			t.Errorf("Satisfies(%q, %q) = %v, want %v", c.constraint, c.version, got, c.want)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"Django":        "django",
		"zope.interface": "zope-interface",
		"foo_bar-baz":   "foo-bar-baz",
		"foo__bar":      "foo-bar",
	}
	for in, want := range cases {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
