package ecosystem

import (
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/lockfile"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/manifest"
	gomodparser "github.com/persubmyorujt831/deps-lsp-sub001/internal/manifest/gomod"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/semver"
)

// Golang is the Go module proxy ecosystem: modified semver with
// pseudo-versions, go.mod manifest, go.sum.
type Golang struct {
	base
	reg registry.Registry
}

func NewGolang(reg registry.Registry) *Golang {
	return &Golang{
		base: base{id: "golang", matcher: semver.GoModMatcher{}, formatter: goFormatter{}, keyFn: identityKey},
		reg:  reg,
	}
}

func (g *Golang) ID() string                  { return "golang" }
func (g *Golang) DisplayName() string         { return "Go" }
func (g *Golang) ManifestFilenames() []string { return []string{"go.mod"} }
func (g *Golang) LockfileFilenames() []string { return []string{"go.sum"} }
func (g *Golang) Registry() registry.Registry { return g.reg }
func (g *Golang) LockfileProvider() []lockfile.Resolver {
	return lockfile.ForEcosystem("golang")
}

func (g *Golang) ParseManifest(uri string, content []byte) (*manifest.ParseResult, error) {
	return gomodparser.Parse(uri, content)
}

type goFormatter struct{}

func (goFormatter) FormatReplacement(dep manifest.Dependency, latest string) string {
	return latest
}
