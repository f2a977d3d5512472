package ecosystem

import (
	"path/filepath"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry/cargo"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry/golang"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry/httpcache"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry/npm"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry/pypi"
)

// Registry owns one instance of each concrete ecosystem and routes by the
// basename of a document URI's path, per spec §4.6. It is immutable after
// New returns - every Ecosystem instance is built once at startup and
// shared across every document and every goroutine.
type Registry struct {
	byFilename map[string]Ecosystem
	all        []Ecosystem
}

// New constructs the four built-in ecosystems, sharing one process-wide
// HTTP cache (C1) across all of their registry clients so a crate fetched
// for hover and a crate fetched for diagnostics coalesce through the same
// cache, same as any other pair of concurrent requests.
func New(cache *httpcache.Cache) *Registry {
	if cache == nil {
		cache = httpcache.New()
	}

	cargoEco := NewCargo(cargo.New("", cache))
	npmEco := NewNpm(npm.New(npm.DefaultURL, cache))
	pypiEco := NewPyPI(pypi.New(pypi.DefaultURL, cache))
	golangEco := NewGolang(golang.New(golang.DefaultURL, cache))

	r := &Registry{
		byFilename: make(map[string]Ecosystem),
		all:        []Ecosystem{cargoEco, npmEco, pypiEco, golangEco},
	}
	for _, eco := range r.all {
		for _, name := range eco.ManifestFilenames() {
			r.byFilename[name] = eco
		}
	}
	return r
}

// Lookup routes a document URI to its ecosystem by the basename of its
// path. It returns (nil, false) for any basename none of the built-in
// ecosystems claims - handlers must treat that as a silent no-op, per
// spec §4.6, not an error.
func (r *Registry) Lookup(uriPath string) (Ecosystem, bool) {
	eco, ok := r.byFilename[filepath.Base(uriPath)]
	return eco, ok
}

// All returns every registered ecosystem, for startup-time file-watcher
// registration (spec §6) and lock-file-name enumeration.
func (r *Registry) All() []Ecosystem {
	return r.all
}
