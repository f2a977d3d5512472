package lockfile

import (
	"strings"

	xsemver "golang.org/x/mod/semver"
)

// GoSumResolver parses go.sum, which lists two hash lines per resolved
// module version ("<module> <version> <hash>" and
// "<module> <version>/go.mod <hash>") and may list several versions of the
// same module when minimal version selection pulled in more than one
// transitively. Spec §4.4 requires selecting the highest semver per
// module.
type GoSumResolver struct{}

var _ Resolver = GoSumResolver{}

func (GoSumResolver) Ecosystem() string       { return "golang" }
func (GoSumResolver) LockfileNames() []string { return []string{"go.sum"} }
func (GoSumResolver) Locate(manifestPath string) (string, bool) {
	return locateSibling(manifestPath, "go.sum")
}

func (GoSumResolver) Parse(content []byte) (map[string]Entry, error) {
	entries := make(map[string]Entry)

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		module := fields[0]
		rawVersion := fields[1]

		fromGoMod := strings.HasSuffix(rawVersion, "/go.mod")
		version := strings.TrimSuffix(rawVersion, "/go.mod")
		if !xsemver.IsValid(version) {
			continue
		}

		existing, ok := entries[module]
		if !ok || xsemver.Compare(version, existing.Version) > 0 {
			source := "module"
			if fromGoMod {
				source = "go.mod"
			}
			entries[module] = Entry{Version: version, Git: source}
			continue
		}
		if version == existing.Version && existing.Git == "go.mod" && !fromGoMod {
			// The module hash line is the more informative of the two
			// when both name the same version; prefer it.
			entries[module] = Entry{Version: version, Git: "module"}
		}
	}

	return entries, nil
}
