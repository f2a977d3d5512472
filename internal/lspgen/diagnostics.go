package lspgen

import (
	"fmt"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/manifest"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry"
)

// DiagnosticConfig carries the per-severity settings from spec §6's
// diagnostics.* configuration, already resolved to defaults.
type DiagnosticConfig struct {
	OutdatedSeverity Severity // default Hint
	UnknownSeverity  Severity // default Warning
	YankedSeverity   Severity // default Warning
}

// GenerateDiagnostics implements spec §4.9's diagnostics generator.
// knownNames reports whether a dependency's name resolves in the registry
// at all (distinct from its constraint simply not yet being fetched);
// versions carries the selected version's metadata (for the yanked check).
func GenerateDiagnostics(pr *manifest.ParseResult, latest map[string]string, versions map[string]registry.Version, matcher interface {
	IsValidSyntax(constraint string) bool
	IsLatestSatisfying(constraint, latest string) bool
}, keyFn func(name string) string, knownNames map[string]bool, cfg DiagnosticConfig) []Diagnostic {
	if pr == nil {
		return nil
	}

	var diags []Diagnostic
	for _, dep := range pr.Dependencies {
		if !isRegistryBacked(dep) {
			continue
		}
		key := keyFn(dep.Name)

		if dep.HasConstraint && matcher != nil && !matcher.IsValidSyntax(dep.Constraint) {
			diags = append(diags, Diagnostic{
				Range:          dep.VersionRange,
				Severity:       cfg.UnknownSeverity,
				Message:        fmt.Sprintf("%q is not a valid version constraint", dep.Constraint),
				Code:           CodeInvalidConstraint,
				DependencyName: dep.Name,
			})
			continue
		}

		if found, checked := knownNames[key]; checked && !found {
			diags = append(diags, Diagnostic{
				Range:          dep.NameRange,
				Severity:       cfg.UnknownSeverity,
				Message:        fmt.Sprintf("%q was not found in the registry", dep.Name),
				Code:           CodePackageNotFound,
				DependencyName: dep.Name,
			})
			continue
		}

		latestVersion, known := latest[key]
		if !known {
			continue
		}

		if dep.HasConstraint && matcher != nil && !matcher.IsLatestSatisfying(dep.Constraint, latestVersion) {
			diags = append(diags, Diagnostic{
				Range:          dep.VersionRange,
				Severity:       cfg.OutdatedSeverity,
				Message:        fmt.Sprintf("newer version %s is available", latestVersion),
				Code:           CodeOutdated,
				DependencyName: dep.Name,
			})
		}

		if v, ok := versions[key]; ok && v.Yanked {
			diags = append(diags, Diagnostic{
				Range:          dep.VersionRange,
				Severity:       cfg.YankedSeverity,
				Message:        fmt.Sprintf("%s has been yanked", v.Number),
				Code:           CodeYanked,
				DependencyName: dep.Name,
			})
		}
	}
	return diags
}
