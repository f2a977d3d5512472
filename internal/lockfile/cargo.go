package lockfile

import (
	toml "github.com/pelletier/go-toml/v2"
)

// CargoResolver parses Cargo.lock: a TOML array of [[package]] tables.
type CargoResolver struct{}

var _ Resolver = CargoResolver{}

func (CargoResolver) Ecosystem() string          { return "cargo" }
func (CargoResolver) LockfileNames() []string    { return []string{"Cargo.lock"} }
func (CargoResolver) Locate(manifestPath string) (string, bool) {
	return locateSibling(manifestPath, "Cargo.lock")
}

type cargoLockFile struct {
	Package []struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
		Source  string `toml:"source"`
	} `toml:"package"`
}

func (CargoResolver) Parse(content []byte) (map[string]Entry, error) {
	var lock cargoLockFile
	if err := toml.Unmarshal(content, &lock); err != nil {
		return nil, err
	}
	entries := make(map[string]Entry, len(lock.Package))
	for _, p := range lock.Package {
		entries[p.Name] = Entry{Version: p.Version, Git: p.Source}
	}
	return entries, nil
}
