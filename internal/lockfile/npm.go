package lockfile

import (
	"encoding/json"
	"strings"
)

// NpmResolver parses package-lock.json's "packages" map (npm lockfile
// format v2/v3), whose keys are node_modules-relative paths such as
// "node_modules/left-pad" or "node_modules/@babel/core" rather than bare
// package names.
type NpmResolver struct{}

var _ Resolver = NpmResolver{}

func (NpmResolver) Ecosystem() string       { return "npm" }
func (NpmResolver) LockfileNames() []string { return []string{"package-lock.json"} }
func (NpmResolver) Locate(manifestPath string) (string, bool) {
	return locateSibling(manifestPath, "package-lock.json")
}

type npmLockFile struct {
	Packages map[string]struct {
		Version  string `json:"version"`
		Resolved string `json:"resolved"`
	} `json:"packages"`
	// Dependencies is the legacy (v1) lockfile shape, keyed directly by
	// package name, kept as a fallback for lock files npm itself still
	// writes for older package.json files.
	Dependencies map[string]struct {
		Version  string `json:"version"`
		Resolved string `json:"resolved"`
	} `json:"dependencies"`
}

func (NpmResolver) Parse(content []byte) (map[string]Entry, error) {
	var lock npmLockFile
	if err := json.Unmarshal(content, &lock); err != nil {
		return nil, err
	}

	entries := make(map[string]Entry, len(lock.Packages)+len(lock.Dependencies))
	for key, pkg := range lock.Packages {
		name := npmPackageName(key)
		if name == "" {
			continue
		}
		entries[name] = Entry{Version: pkg.Version, Git: pkg.Resolved}
	}
	for name, pkg := range lock.Dependencies {
		if _, ok := entries[name]; ok {
			continue
		}
		entries[name] = Entry{Version: pkg.Version, Git: pkg.Resolved}
	}
	return entries, nil
}

// npmPackageName extracts the package name from a "packages" key, which is
// either "" (the root project), "node_modules/<name>", or
// "node_modules/<parent>/node_modules/<name>" for nested installs - the
// last "node_modules/" segment always names the installed package.
func npmPackageName(key string) string {
	idx := strings.LastIndex(key, "node_modules/")
	if idx < 0 {
		return ""
	}
	return key[idx+len("node_modules/"):]
}
