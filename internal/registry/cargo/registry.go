// Package cargo provides the crates.io registry client: the sparse index
// protocol for version lookups and the REST search API for metadata,
// mirroring the original daemon's deps-cargo crate (which has no
// single-package metadata endpoint of its own - `Package` is served from
// a one-result `search` the same way the original's hover path never
// needed a richer call than that).
package cargo

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	mastersemver "github.com/Masterminds/semver/v3"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry/httpcache"
)

const (
	// DefaultIndexURL is the sparse index host (spec §4.5), separate from
	// the REST API host since crates.io really does split them this way.
	DefaultIndexURL = "https://index.crates.io"
	DefaultAPIURL   = "https://crates.io/api/v1"
	ecosystem       = "cargo"
)

func init() {
	// defaultURL is "" (not DefaultAPIURL) so registry.New's baseURL-empty
	// fallback still reaches New("", ...) and picks up both real hosts;
	// an explicit override (e.g. a test server) reroutes both at once.
	registry.Register(ecosystem, "", func(baseURL string, _ *registry.Client) registry.Registry {
		return New(baseURL, nil)
	})
}

// Registry talks to crates.io's sparse index and REST search API. Every
// call routes through the shared httpcache.Cache so concurrent lookups of
// the same crate coalesce.
type Registry struct {
	indexURL string
	apiURL   string
	cache    *httpcache.Cache
}

// New returns a crates.io client against the real sparse index and search
// hosts. baseURL, when non-empty, overrides BOTH hosts - used by tests
// that stand up a single httptest.Server to play both roles. cache may be
// nil, in which case a private cache is created; production wiring shares
// one process-wide cache across every ecosystem.
func New(baseURL string, cache *httpcache.Cache) *Registry {
	indexURL, apiURL := DefaultIndexURL, DefaultAPIURL
	if baseURL != "" {
		indexURL = strings.TrimSuffix(baseURL, "/")
		apiURL = strings.TrimSuffix(baseURL, "/")
	}
	if cache == nil {
		cache = httpcache.New()
	}
	return &Registry{indexURL: indexURL, apiURL: apiURL, cache: cache}
}

func (r *Registry) Ecosystem() string { return ecosystem }

// indexEntry is one line of the sparse index's newline-delimited JSON
// (spec §4.5).
type indexEntry struct {
	Version  string              `json:"vers"`
	Yanked   bool                `json:"yanked"`
	Features map[string][]string `json:"features"`
}

// crateInfo is one entry of the search API's response (spec §4.5's
// `/api/v1/crates?q=…` endpoint) - the only source of description/
// repository/documentation this registry has, matching the original's
// `SearchCrate`.
type crateInfo struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Repository    string `json:"repository"`
	Documentation string `json:"documentation"`
	MaxVersion    string `json:"max_version"`
}

type searchResponse struct {
	Crates []crateInfo `json:"crates"`
}

// Versions fetches every published version of name from the sparse index
// (spec §4.5), newest-first, including yanked entries.
func (r *Registry) Versions(ctx context.Context, name string) ([]registry.Version, error) {
	url := r.indexURL + "/" + SparseIndexPath(name)
	body, err := r.cache.Get(ctx, url)
	if err != nil {
		return nil, translateErr(ecosystem, name, err)
	}

	var entries []indexEntry
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e indexEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return nil, &registry.APIResponseError{Ecosystem: ecosystem, Package: name, Err: err}
		}
		entries = append(entries, e)
	}

	versions := make([]registry.Version, len(entries))
	for i, e := range entries {
		features := make(map[string]bool, len(e.Features))
		for k := range e.Features {
			features[k] = true
		}
		versions[i] = registry.Version{
			Number:     e.Version,
			Yanked:     e.Yanked,
			Prerelease: strings.Contains(e.Version, "-"),
			Features:   features,
		}
	}
	sortVersionsDescending(versions)
	return versions, nil
}

// sortVersionsDescending orders versions newest-first by parsed semver,
// matching the original's `versions.sort_by` over `semver::Version`.
// Versions that fail to parse keep their relative order at the end.
func sortVersionsDescending(versions []registry.Version) {
	sort.SliceStable(versions, func(i, j int) bool {
		vi, erri := mastersemver.NewVersion(versions[i].Number)
		vj, errj := mastersemver.NewVersion(versions[j].Number)
		if erri != nil || errj != nil {
			return erri == nil && errj != nil
		}
		return vi.GreaterThan(vj)
	})
}

// Package looks up name's metadata via a single-result search, the same
// way the original daemon has no dedicated per-crate metadata endpoint -
// `search` is the only place description/repository/documentation come
// from.
func (r *Registry) Package(ctx context.Context, name string) (*registry.Metadata, error) {
	results, err := r.Search(ctx, name, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 || !strings.EqualFold(results[0].Name, name) {
		return nil, &registry.PackageNotFoundError{Ecosystem: ecosystem, Package: name}
	}
	return &results[0], nil
}

func (r *Registry) Search(ctx context.Context, query string, limit int) ([]registry.Metadata, error) {
	url := fmt.Sprintf("%s/crates?q=%s&per_page=%d", r.apiURL, query, limit)
	body, err := r.cache.Get(ctx, url)
	if err != nil {
		return nil, translateErr(ecosystem, query, err)
	}
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &registry.APIResponseError{Ecosystem: ecosystem, Package: query, Err: err}
	}
	results := make([]registry.Metadata, len(resp.Crates))
	for i, c := range resp.Crates {
		results[i] = registry.Metadata{
			Name:             c.Name,
			Description:      c.Description,
			RepositoryURL:    c.Repository,
			DocumentationURL: c.Documentation,
			LatestStable:     c.MaxVersion,
		}
	}
	return results, nil
}

// SparseIndexPath returns the sparse index path rule for a crate name
// (spec §4.5): 1-char "1/{n}", 2-char "2/{n}", 3-char "3/{n[0]}/{n}",
// otherwise "{n[0:2]}/{n[2:4]}/{n}". Name is lowercased first.
func SparseIndexPath(name string) string {
	n := strings.ToLower(name)
	switch len(n) {
	case 0:
		return ""
	case 1:
		return "1/" + n
	case 2:
		return "2/" + n
	case 3:
		return "3/" + n[:1] + "/" + n
	default:
		return n[:2] + "/" + n[2:4] + "/" + n
	}
}

func translateErr(ecosystem, name string, err error) error {
	switch err.(type) {
	case *httpcache.NotFoundError:
		return &registry.PackageNotFoundError{Ecosystem: ecosystem, Package: name}
	case *httpcache.ResponseError:
		return &registry.APIResponseError{Ecosystem: ecosystem, Package: name, Err: err}
	default:
		return &registry.TransportError{Ecosystem: ecosystem, Package: name, Err: err}
	}
}
