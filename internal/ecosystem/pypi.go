package ecosystem

import (
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/lockfile"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/manifest"
	pypiparser "github.com/persubmyorujt831/deps-lsp-sub001/internal/manifest/pypi"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/semver"
)

// PyPI is the pypi.org ecosystem: PEP 440 specifiers, TOML manifest
// (PEP 621 project.dependencies/optional-dependencies, PEP 735
// dependency-groups, and Poetry's tool.poetry.dependencies), poetry.lock
// or uv.lock.
type PyPI struct {
	base
	reg registry.Registry
}

func NewPyPI(reg registry.Registry) *PyPI {
	return &PyPI{
		base: base{id: "pypi", matcher: semver.Pep440Matcher{}, formatter: pypiFormatter{}, keyFn: pypiparser.MatcherKey},
		reg:  reg,
	}
}

func (p *PyPI) ID() string                  { return "pypi" }
func (p *PyPI) DisplayName() string         { return "PyPI" }
func (p *PyPI) ManifestFilenames() []string { return []string{"pyproject.toml"} }
func (p *PyPI) LockfileFilenames() []string { return []string{"poetry.lock", "uv.lock"} }
func (p *PyPI) Registry() registry.Registry { return p.reg }
func (p *PyPI) LockfileProvider() []lockfile.Resolver {
	return lockfile.ForEcosystem("pypi")
}

func (p *PyPI) ParseManifest(uri string, content []byte) (*manifest.ParseResult, error) {
	return pypiparser.Parse(uri, content)
}

// pypiFormatter picks between PEP 440's bare operator form
// (project.dependencies: `>=1.2.3`) and Poetry's quoted caret form
// (tool.poetry.dependencies: `"^1.2.3"`), per the dependency's own
// PoetryStyle flag.
type pypiFormatter struct{}

func (pypiFormatter) FormatReplacement(dep manifest.Dependency, latest string) string {
	if dep.PoetryStyle {
		return `"^` + latest + `"`
	}
	return ">=" + latest
}
