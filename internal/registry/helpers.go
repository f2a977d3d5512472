package registry

import (
	"context"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/semver"
)

// LatestMatching returns the first non-yanked version among reg.Versions
// whose number satisfies constraint under m, or nil if none does (spec
// §4.5: latest_matching(name, constraint)).
func LatestMatching(ctx context.Context, reg Registry, name, constraint string, m semver.Matcher) (*Version, error) {
	versions, err := reg.Versions(ctx, name)
	if err != nil {
		return nil, err
	}
	for i := range versions {
		v := &versions[i]
		if v.Yanked || v.Retracted {
			continue
		}
		if m.Satisfies(constraint, v.Number) {
			return v, nil
		}
	}
	return nil, nil
}

// LatestStable returns the newest non-yanked, non-prerelease version, or
// nil if the package has none. Versions is assumed newest-first.
func LatestStable(versions []Version) *Version {
	for i := range versions {
		v := &versions[i]
		if v.Yanked || v.Retracted || v.Prerelease {
			continue
		}
		return v
	}
	return nil
}
