// Package pypi provides the pypi.org registry client.
package pypi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry/httpcache"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/semver"
)

const (
	DefaultURL = "https://pypi.org"
	ecosystem  = "pypi"
)

func init() {
	registry.Register(ecosystem, DefaultURL, func(baseURL string, _ *registry.Client) registry.Registry {
		return New(baseURL, nil)
	})
}

type Registry struct {
	baseURL string
	cache   *httpcache.Cache
}

func New(baseURL string, cache *httpcache.Cache) *Registry {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if cache == nil {
		cache = httpcache.New()
	}
	return &Registry{baseURL: strings.TrimSuffix(baseURL, "/"), cache: cache}
}

func (r *Registry) Ecosystem() string { return ecosystem }

type packageResponse struct {
	Info     infoBlock                `json:"info"`
	Releases map[string][]releaseFile `json:"releases"`
}

type infoBlock struct {
	Name        string            `json:"name"`
	Summary     string            `json:"summary"`
	HomePage    string            `json:"home_page"`
	Version     string            `json:"version"`
	ProjectURLs map[string]string `json:"project_urls"`
}

type releaseFile struct {
	UploadTimeISO8601 string `json:"upload_time_iso_8601"`
	Yanked            bool   `json:"yanked"`
}

func (r *Registry) fetchPackage(ctx context.Context, name string) (*packageResponse, error) {
	url := fmt.Sprintf("%s/pypi/%s/json", r.baseURL, semver.NormalizeName(name))
	body, err := r.cache.Get(ctx, url)
	if err != nil {
		return nil, translateErr(ecosystem, name, err)
	}
	var resp packageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &registry.APIResponseError{Ecosystem: ecosystem, Package: name, Err: err}
	}
	return &resp, nil
}

func (r *Registry) Versions(ctx context.Context, name string) ([]registry.Version, error) {
	resp, err := r.fetchPackage(ctx, name)
	if err != nil {
		return nil, err
	}

	versions := make([]registry.Version, 0, len(resp.Releases))
	for num, files := range resp.Releases {
		var publishedAt time.Time
		yanked := false
		if len(files) > 0 {
			yanked = files[0].Yanked
			if files[0].UploadTimeISO8601 != "" {
				publishedAt, _ = time.Parse(time.RFC3339, files[0].UploadTimeISO8601)
			}
		}
		versions = append(versions, registry.Version{
			Number:      num,
			PublishedAt: publishedAt,
			Yanked:      yanked,
			Prerelease:  isPep440Prerelease(num),
		})
	}
	sortVersionsNewestFirst(versions)
	return versions, nil
}

func sortVersionsNewestFirst(versions []registry.Version) {
	for i := 1; i < len(versions); i++ {
		for j := i; j > 0 && versions[j].PublishedAt.After(versions[j-1].PublishedAt); j-- {
			versions[j], versions[j-1] = versions[j-1], versions[j]
		}
	}
}

func isPep440Prerelease(num string) bool {
	lower := strings.ToLower(num)
	for _, marker := range []string{"a", "b", "rc", "dev", "pre"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func (r *Registry) Package(ctx context.Context, name string) (*registry.Metadata, error) {
	resp, err := r.fetchPackage(ctx, name)
	if err != nil {
		return nil, err
	}
	return &registry.Metadata{
		Name:             resp.Info.Name,
		Description:      resp.Info.Summary,
		RepositoryURL:    extractRepoURL(resp.Info.ProjectURLs, resp.Info.HomePage),
		DocumentationURL: resp.Info.ProjectURLs["Documentation"],
		LatestStable:     resp.Info.Version,
	}, nil
}

func extractRepoURL(projectURLs map[string]string, homePage string) string {
	for _, key := range []string{"Repository", "Source", "Source Code", "Code"} {
		if u, ok := projectURLs[key]; ok && u != "" {
			return u
		}
	}
	return homePage
}

// Search is unsupported: PyPI's JSON API has no search endpoint (the
// XML-RPC search method was retired). Completions for PyPI therefore fall
// back to an empty result - spec §4.9 treats "no names returned" as a
// valid, frequent outcome during completion just as it does during loading.
func (r *Registry) Search(ctx context.Context, query string, limit int) ([]registry.Metadata, error) {
	return nil, nil
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
