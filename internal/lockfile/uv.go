package lockfile

import (
	toml "github.com/pelletier/go-toml/v2"
)

// UvResolver parses uv.lock: a TOML array of [[package]] tables, one per
// resolved distribution, with name/version at the top level like Cargo's
// lock format.
type UvResolver struct{}

var _ Resolver = UvResolver{}

func (UvResolver) Ecosystem() string       { return "pypi" }
func (UvResolver) LockfileNames() []string { return []string{"uv.lock"} }
func (UvResolver) Locate(manifestPath string) (string, bool) {
	return locateSibling(manifestPath, "uv.lock")
}

type uvLockFile struct {
	Package []struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
}

func (UvResolver) Parse(content []byte) (map[string]Entry, error) {
	var lock uvLockFile
	if err := toml.Unmarshal(content, &lock); err != nil {
		return nil, err
	}
	entries := make(map[string]Entry, len(lock.Package))
	for _, p := range lock.Package {
		entries[p.Name] = Entry{Version: p.Version}
	}
	return entries, nil
}
