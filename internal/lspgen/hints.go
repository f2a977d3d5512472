package lspgen

import "github.com/persubmyorujt831/deps-lsp-sub001/internal/manifest"

// HintConfig carries the per-ecosystem-configurable inlay-hint text (spec
// §6's inlay_hints.* settings), already resolved to their effective
// defaults by the caller.
type HintConfig struct {
	Enabled            bool
	UpToDateText       string // default "✅"; emitted only if ShowUpToDate
	NeedsUpdateText    string // default "❌ {latest}"; {latest} is substituted
	ShowUpToDate       bool
	LoadingText        string // default "⏳"
	LoadingEnabled     bool
	LoadingFallback    bool // if true, fall back to hints even while loading, skipping LoadingText
}

// LoadingState mirrors the document store's per-document state machine
// (idle, loading, loaded, failed); only the subset relevant to hint
// generation is needed here.
type LoadingState int

const (
	StateIdle LoadingState = iota
	StateLoading
	StateLoaded
	StateFailed
)

// GenerateInlayHints implements spec §4.9's inlay-hints generator: one hint
// per registry-backed dependency that declares a constraint, anchored at
// the end of its version range.
func GenerateInlayHints(pr *manifest.ParseResult, latest map[string]string, matcher interface {
	IsLatestSatisfying(constraint, latest string) bool
}, keyFn func(name string) string, state LoadingState, cfg HintConfig) []Hint {
	if !cfg.Enabled || pr == nil {
		return nil
	}

	var hints []Hint
	for _, dep := range pr.Dependencies {
		if !isRegistryBacked(dep) || !dep.HasConstraint {
			continue
		}
		key := keyFn(dep.Name)
		latestVersion, known := latest[key]

		var label string
		switch {
		case !known:
			if !cfg.LoadingEnabled || state != StateLoading {
				continue
			}
			if cfg.LoadingFallback {
				continue
			}
			label = orDefault(cfg.LoadingText, "⏳")
		case matcher != nil && matcher.IsLatestSatisfying(dep.Constraint, latestVersion):
			if !cfg.ShowUpToDate {
				continue
			}
			label = orDefault(cfg.UpToDateText, "✅")
		default:
			label = interpolateLatest(orDefault(cfg.NeedsUpdateText, "❌ {latest}"), latestVersion)
		}

		hints = append(hints, Hint{
			Position: dep.VersionRange.End,
			Label:    label,
		})
	}
	return hints
}

func isRegistryBacked(dep manifest.Dependency) bool {
	return dep.Source.Kind == "" || dep.Source.Kind == manifest.SourceRegistry
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func interpolateLatest(template, latest string) string {
	out := make([]byte, 0, len(template)+len(latest))
	for i := 0; i < len(template); i++ {
		if template[i] == '{' && i+8 <= len(template) && template[i:i+8] == "{latest}" {
			out = append(out, latest...)
			i += 7
			continue
		}
		out = append(out, template[i])
	}
	return string(out)
}
