package lspgen

import (
	"fmt"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/manifest"
)

// GenerateCodeActions implements spec §4.9's code-action generator: a
// single "update to latest" quick fix for the dependency under the
// cursor, offered only when its declared constraint excludes the latest
// version.
func GenerateCodeActions(pr *manifest.ParseResult, pos manifest.Position, latest map[string]string, matcher interface {
	IsLatestSatisfying(constraint, latest string) bool
}, keyFn func(name string) string, formatter Formatter) []CodeAction {
	dep, found := FindDependencyAt(pr, pos, defaultHoverPad)
	if !found || !dep.HasConstraint || formatter == nil {
		return nil
	}

	latestVersion, ok := latest[keyFn(dep.Name)]
	if !ok {
		return nil
	}
	if matcher != nil && matcher.IsLatestSatisfying(dep.Constraint, latestVersion) {
		return nil
	}

	replacement := formatter.FormatReplacement(dep, latestVersion)
	return []CodeAction{{
		Title: fmt.Sprintf("Update %s to %s", dep.Name, latestVersion),
		Edit: TextEdit{
			Range:   dep.VersionRange,
			NewText: replacement,
		},
	}}
}
