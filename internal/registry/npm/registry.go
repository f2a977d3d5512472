// Package npm provides the registry.npmjs.org registry client.
package npm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry/httpcache"
)

const (
	DefaultURL = "https://registry.npmjs.org"
	ecosystem  = "npm"
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
	ID          string                 `json:"_id"`
	Description string                 `json:"description"`
	Homepage    interface{}            `json:"homepage"`
	Repository  interface{}            `json:"repository"`
	Versions    map[string]versionInfo `json:"versions"`
	Time        map[string]string      `json:"time"`
	DistTags    map[string]string      `json:"dist-tags"`
}

type versionInfo struct {
	Deprecated string `json:"deprecated"`
}

func (r *Registry) fetchPackage(ctx context.Context, name string) (*packageResponse, error) {
	url := fmt.Sprintf("%s/%s", r.baseURL, url.PathEscape(name))
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

	versions := make([]registry.Version, 0, len(resp.Versions))
	for num, v := range resp.Versions {
		var publishedAt time.Time
		if ts, ok := resp.Time[num]; ok {
			publishedAt, _ = time.Parse(time.RFC3339, ts)
		}
		versions = append(versions, registry.Version{
			Number:      num,
			PublishedAt: publishedAt,
			Deprecated:  v.Deprecated != "",
			Prerelease:  strings.Contains(num, "-"),
		})
	}
	// npm returns versions as an unordered JSON object; the rest of the
	// system expects newest-first.
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

func (r *Registry) Package(ctx context.Context, name string) (*registry.Metadata, error) {
	resp, err := r.fetchPackage(ctx, name)
	if err != nil {
		return nil, err
	}
	return &registry.Metadata{
		Name:             resp.ID,
		Description:      resp.Description,
		RepositoryURL:    extractString(resp.Repository),
		DocumentationURL: extractString(resp.Homepage),
		LatestStable:     resp.DistTags["latest"],
	}, nil
}

type searchResponse struct {
	Objects []struct {
		Package struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Links       struct {
				Repository string `json:"repository"`
				Homepage   string `json:"homepage"`
			} `json:"links"`
		} `json:"package"`
	} `json:"objects"`
}

func (r *Registry) Search(ctx context.Context, query string, limit int) ([]registry.Metadata, error) {
	searchURL := fmt.Sprintf("%s/-/v1/search?text=%s&size=%d", r.baseURL, url.QueryEscape(query), limit)
	body, err := r.cache.Get(ctx, searchURL)
	if err != nil {
		return nil, translateErr(ecosystem, query, err)
	}
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &registry.APIResponseError{Ecosystem: ecosystem, Package: query, Err: err}
	}
	results := make([]registry.Metadata, len(resp.Objects))
	for i, o := range resp.Objects {
		results[i] = registry.Metadata{
			Name:             o.Package.Name,
			Description:      o.Package.Description,
			RepositoryURL:    o.Package.Links.Repository,
			DocumentationURL: o.Package.Links.Homepage,
		}
	}
	return results, nil
}

func extractString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case map[string]interface{}:
		if u, ok := s["url"].(string); ok {
			return u
		}
	}
	return ""
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
