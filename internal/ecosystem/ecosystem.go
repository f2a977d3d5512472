// Package ecosystem implements the ecosystem trait and registry (C6): the
// polymorphic capability set that routes a manifest URI's basename to a
// parser, registry client, lock-file resolver, constraint matcher, and LSP
// feature generators, all bundled behind one interface per ecosystem.
package ecosystem

import (
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/lockfile"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/lspgen"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/manifest"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/semver"
)

// Ecosystem is the capability set described by spec §4.6. Every method is
// synchronous; the document store calls ParseManifest inline from
// OnOpen/OnChange.
type Ecosystem interface {
	ID() string
	DisplayName() string
	ManifestFilenames() []string
	LockfileFilenames() []string

	ParseManifest(uri string, content []byte) (*manifest.ParseResult, error)

	Registry() registry.Registry
	LockfileProvider() []lockfile.Resolver

	// MatcherKey canonicalizes a dependency name into the key used across
	// the latest/resolved maps (identity for every ecosystem but PyPI,
	// which folds case and separator variants per PEP 503).
	MatcherKey(name string) string

	GenerateInlayHints(pr *manifest.ParseResult, latest map[string]string, state lspgen.LoadingState, cfg lspgen.HintConfig) []lspgen.Hint
	GenerateHover(pr *manifest.ParseResult, pos manifest.Position, latest, resolved map[string]string, meta map[string]registry.Metadata, versions map[string]registry.Version) *lspgen.Hover
	GenerateCodeActions(pr *manifest.ParseResult, pos manifest.Position, latest map[string]string) []lspgen.CodeAction
	GenerateDiagnostics(pr *manifest.ParseResult, latest map[string]string, versions map[string]registry.Version, knownNames map[string]bool, cfg lspgen.DiagnosticConfig) []lspgen.Diagnostic
	GenerateCompletions(pr *manifest.ParseResult, pos manifest.Position, content string) lspgen.CompletionContext
}

// base bundles the plumbing every concrete ecosystem shares: the generator
// calls all funnel through the same lspgen functions, parameterized only
// by the matcher, formatter, and key function. Concrete ecosystems embed
// base and supply those three plus their own ParseManifest/Registry/
// LockfileProvider.
type base struct {
	id        string
	matcher   matcherIface
	formatter lspgen.Formatter
	keyFn     func(string) string
}

type matcherIface interface {
	IsValidSyntax(constraint string) bool
	Satisfies(constraint, version string) bool
	IsLatestSatisfying(constraint, latest string) bool
}

var _ matcherIface = semver.Matcher(nil)

func (b base) MatcherKey(name string) string { return b.keyFn(name) }

func (b base) GenerateInlayHints(pr *manifest.ParseResult, latest map[string]string, state lspgen.LoadingState, cfg lspgen.HintConfig) []lspgen.Hint {
	return lspgen.GenerateInlayHints(pr, latest, b.matcher, b.keyFn, state, cfg)
}

func (b base) GenerateHover(pr *manifest.ParseResult, pos manifest.Position, latest, resolved map[string]string, meta map[string]registry.Metadata, versions map[string]registry.Version) *lspgen.Hover {
	return lspgen.GenerateHover(pr, pos, latest, resolved, meta, versions, b.keyFn, 2, b.id)
}

func (b base) GenerateCodeActions(pr *manifest.ParseResult, pos manifest.Position, latest map[string]string) []lspgen.CodeAction {
	return lspgen.GenerateCodeActions(pr, pos, latest, b.matcher, b.keyFn, b.formatter)
}

func (b base) GenerateDiagnostics(pr *manifest.ParseResult, latest map[string]string, versions map[string]registry.Version, knownNames map[string]bool, cfg lspgen.DiagnosticConfig) []lspgen.Diagnostic {
	return lspgen.GenerateDiagnostics(pr, latest, versions, b.matcher, b.keyFn, knownNames, cfg)
}

func (b base) GenerateCompletions(pr *manifest.ParseResult, pos manifest.Position, content string) lspgen.CompletionContext {
	return lspgen.InferCompletionContext(pr, pos, content)
}

func identityKey(name string) string { return name }
