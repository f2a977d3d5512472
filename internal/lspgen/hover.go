package lspgen

import (
	"fmt"
	"strings"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/manifest"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry"
)

// defaultHoverPad is the ±N character widening applied when locating the
// dependency under the cursor, used by code actions and by GenerateHover
// when it is passed no positive pad. Every built-in ecosystem passes this
// same value of 2, PyPI included.
const defaultHoverPad = 2

// FindDependencyAt locates the dependency whose name or version range
// contains pos, widened by pad characters. It is exported so hover and
// code actions share one implementation.
func FindDependencyAt(pr *manifest.ParseResult, pos manifest.Position, pad int) (manifest.Dependency, bool) {
	if pr == nil {
		return manifest.Dependency{}, false
	}
	for _, dep := range pr.Dependencies {
		if dep.NameRange.Contains(pos, pad) {
			return dep, true
		}
		if dep.HasConstraint && dep.VersionRange.Contains(pos, pad) {
			return dep, true
		}
	}
	return manifest.Dependency{}, false
}

// GenerateHover implements spec §4.9's hover generator.
func GenerateHover(pr *manifest.ParseResult, pos manifest.Position, latest, resolved map[string]string, meta map[string]registry.Metadata, versions map[string]registry.Version, keyFn func(name string) string, pad int, ecoID string) *Hover {
	if pad <= 0 {
		pad = defaultHoverPad
	}
	dep, found := FindDependencyAt(pr, pos, pad)
	if !found {
		return nil
	}

	key := keyFn(dep.Name)
	var b strings.Builder

	info, hasMeta := meta[key]
	if hasMeta && info.DocumentationURL != "" {
		fmt.Fprintf(&b, "**[%s](%s)**\n\n", dep.Name, info.DocumentationURL)
	} else {
		fmt.Fprintf(&b, "**%s**\n\n", dep.Name)
	}
	if hasMeta && info.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", info.Description)
	}

	if resolvedVersion, ok := resolved[key]; ok {
		fmt.Fprintf(&b, "Current: `%s`\n\n", resolvedVersion)
	} else if dep.HasConstraint {
		fmt.Fprintf(&b, "Declared: `%s`\n\n", dep.Constraint)
	}

	if latestVersion, ok := latest[key]; ok {
		marker := ""
		if v, ok := versions[key]; ok {
			if v.Yanked {
				marker = " (yanked)"
			} else if v.Deprecated {
				marker = " (deprecated)"
			}
		}
		fmt.Fprintf(&b, "Latest: `%s`%s\n\n", latestVersion, marker)
	}

	if dep.HasExtras && len(dep.Extras) > 0 {
		fmt.Fprintf(&b, "Features: %s\n\n", strings.Join(dep.Extras, ", "))
	}

	if hasMeta && info.RepositoryURL != "" {
		fmt.Fprintf(&b, "[Repository](%s)\n", info.RepositoryURL)
	}

	if displayVersion := resolved[key]; displayVersion != "" || latest[key] != "" {
		v := displayVersion
		if v == "" {
			v = latest[key]
		}
		fmt.Fprintf(&b, "`%s`\n", registry.BuildPURL(ecoID, dep.Name, v))
	}

	hoverRange := dep.NameRange
	if dep.HasConstraint && dep.VersionRange.Contains(pos, pad) {
		hoverRange = dep.VersionRange
	}

	return &Hover{Range: hoverRange, Contents: strings.TrimRight(b.String(), "\n")}
}
