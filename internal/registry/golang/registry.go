// Package golang provides the Go module proxy registry client.
package golang

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry/httpcache"
)

const (
	DefaultURL = "https://proxy.golang.org"
	ecosystem  = "golang"
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

// EncodeForProxy encodes a module path per the goproxy protocol: capital
// letters become "!" followed by the lowercase letter (go.dev/ref/mod
// #goproxy-protocol), because proxy file systems are often case-insensitive.
func EncodeForProxy(path string) string {
	var b strings.Builder
	for _, r := range path {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune('!')
			b.WriteRune(r + 32)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type versionInfo struct {
	Version string    `json:"Version"`
	Time    time.Time `json:"Time"`
}

func (r *Registry) Versions(ctx context.Context, name string) ([]registry.Version, error) {
	encoded := EncodeForProxy(name)
	listURL := fmt.Sprintf("%s/%s/@v/list", r.baseURL, encoded)

	body, err := r.cache.Get(ctx, listURL)
	if err != nil {
		return nil, translateErr(ecosystem, name, err)
	}

	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, &registry.PackageNotFoundError{Ecosystem: ecosystem, Package: name}
	}

	versions := make([]registry.Version, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		infoURL := fmt.Sprintf("%s/%s/@v/%s.info", r.baseURL, encoded, line)
		var info versionInfo
		if body, err := r.cache.Get(ctx, infoURL); err == nil {
			if err := json.Unmarshal(body, &info); err == nil {
				versions = append(versions, registry.Version{
					Number:      info.Version,
					PublishedAt: info.Time,
					Prerelease:  strings.Contains(info.Version, "-"),
				})
				continue
			}
		}
		versions = append(versions, registry.Version{Number: line, Prerelease: strings.Contains(line, "-")})
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

func (r *Registry) Package(ctx context.Context, name string) (*registry.Metadata, error) {
	versions, err := r.Versions(ctx, name)
	if err != nil {
		return nil, err
	}
	var latest string
	if v := registry.LatestStable(versions); v != nil {
		latest = v.Number
	}
	repo := deriveRepoURL(name)
	return &registry.Metadata{
		Name:             name,
		RepositoryURL:    repo,
		DocumentationURL: fmt.Sprintf("https://pkg.go.dev/%s", name),
		LatestStable:     latest,
	}, nil
}

func deriveRepoURL(modulePath string) string {
	parts := strings.Split(modulePath, "/")
	if len(parts) >= 3 {
		switch parts[0] {
		case "github.com", "gitlab.com", "bitbucket.org":
			return "https://" + strings.Join(parts[:3], "/")
		}
	}
	return "https://" + modulePath
}

// Search is unsupported: the Go module proxy protocol has no search
// endpoint (pkg.go.dev's search is a separate, unspecified HTML surface).
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
