package lockfile

import (
	toml "github.com/pelletier/go-toml/v2"
)

// PoetryResolver parses poetry.lock: a TOML array of [[package]] tables,
// each naming a resolved name/version and, for VCS dependencies, a
// [package.source] sub-table.
type PoetryResolver struct{}

var _ Resolver = PoetryResolver{}

func (PoetryResolver) Ecosystem() string       { return "pypi" }
func (PoetryResolver) LockfileNames() []string { return []string{"poetry.lock"} }
func (PoetryResolver) Locate(manifestPath string) (string, bool) {
	return locateSibling(manifestPath, "poetry.lock")
}

type poetryLockFile struct {
	Package []struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
		Source  struct {
			URL string `toml:"url"`
		} `toml:"source"`
	} `toml:"package"`
}

func (PoetryResolver) Parse(content []byte) (map[string]Entry, error) {
	var lock poetryLockFile
	if err := toml.Unmarshal(content, &lock); err != nil {
		return nil, err
	}
	entries := make(map[string]Entry, len(lock.Package))
	for _, p := range lock.Package {
		entries[p.Name] = Entry{Version: p.Version, Git: p.Source.URL}
	}
	return entries, nil
}
