package ecosystem

import (
	cargoparser "github.com/persubmyorujt831/deps-lsp-sub001/internal/manifest/cargo"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/lockfile"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/manifest"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/semver"
)

// Cargo is the crates.io ecosystem: semver constraints, TOML manifest,
// Cargo.lock.
type Cargo struct {
	base
	reg registry.Registry
}

// NewCargo builds the Cargo ecosystem over reg, the already-constructed
// crates.io client (sharing the process-wide HTTP cache).
func NewCargo(reg registry.Registry) *Cargo {
	return &Cargo{
		base: base{id: "cargo", matcher: semver.CargoMatcher{}, formatter: cargoFormatter{}, keyFn: identityKey},
		reg:  reg,
	}
}

func (c *Cargo) ID() string                   { return "cargo" }
func (c *Cargo) DisplayName() string          { return "Cargo" }
func (c *Cargo) ManifestFilenames() []string  { return []string{"Cargo.toml"} }
func (c *Cargo) LockfileFilenames() []string  { return []string{"Cargo.lock"} }
func (c *Cargo) Registry() registry.Registry  { return c.reg }
func (c *Cargo) LockfileProvider() []lockfile.Resolver {
	return lockfile.ForEcosystem("cargo")
}

func (c *Cargo) ParseManifest(uri string, content []byte) (*manifest.ParseResult, error) {
	return cargoparser.Parse(uri, content)
}

// cargoFormatter quotes a bare version number for Cargo.toml's inline
// table-less form, matching the parser's convention of storing the
// constraint text with surrounding quotes already stripped.
type cargoFormatter struct{}

func (cargoFormatter) FormatReplacement(dep manifest.Dependency, latest string) string {
	return `"` + latest + `"`
}
