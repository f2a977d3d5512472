package ecosystem

import (
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/lockfile"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/manifest"
	npmparser "github.com/persubmyorujt831/deps-lsp-sub001/internal/manifest/npm"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/semver"
)

// Npm is the registry.npmjs.org ecosystem: semver ranges, JSON manifest,
// package-lock.json.
type Npm struct {
	base
	reg registry.Registry
}

func NewNpm(reg registry.Registry) *Npm {
	return &Npm{
		base: base{id: "npm", matcher: semver.NpmMatcher{}, formatter: npmFormatter{}, keyFn: identityKey},
		reg:  reg,
	}
}

func (n *Npm) ID() string                  { return "npm" }
func (n *Npm) DisplayName() string         { return "npm" }
func (n *Npm) ManifestFilenames() []string { return []string{"package.json"} }
func (n *Npm) LockfileFilenames() []string { return []string{"package-lock.json"} }
func (n *Npm) Registry() registry.Registry { return n.reg }
func (n *Npm) LockfileProvider() []lockfile.Resolver {
	return lockfile.ForEcosystem("npm")
}

func (n *Npm) ParseManifest(uri string, content []byte) (*manifest.ParseResult, error) {
	return npmparser.Parse(uri, content)
}

// npmFormatter writes the version bare, because the JSON parser's range
// already excludes the surrounding quotes.
type npmFormatter struct{}

func (npmFormatter) FormatReplacement(dep manifest.Dependency, latest string) string {
	return latest
}
