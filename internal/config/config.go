// Package config holds the client-provided configuration (spec §6): the
// JSON object LSP clients may send as initializationOptions, plus the
// effective defaults every field resolves to when the client omits it or
// sends a zero value.
package config

import (
	"encoding/json"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/lspgen"
)

// InlayHints mirrors spec §6's inlay_hints.* options.
type InlayHints struct {
	Enabled         *bool   `json:"enabled,omitempty"`
	UpToDateText    string  `json:"up_to_date_text,omitempty"`
	NeedsUpdateText string  `json:"needs_update_text,omitempty"`
}

// Diagnostics mirrors spec §6's diagnostics.* severities. Values are
// 1..4, matching LSP's DiagnosticSeverity (Error/Warning/Information/Hint).
type Diagnostics struct {
	OutdatedSeverity int `json:"outdated_severity,omitempty"`
	UnknownSeverity  int `json:"unknown_severity,omitempty"`
	YankedSeverity   int `json:"yanked_severity,omitempty"`
}

// Cache mirrors spec §6's cache.* options.
type Cache struct {
	Enabled               *bool `json:"enabled,omitempty"`
	RefreshIntervalSecs   int   `json:"refresh_interval_secs,omitempty"`
}

// ColdStart mirrors spec §6's cold_start.* options.
type ColdStart struct {
	Enabled     *bool `json:"enabled,omitempty"`
	RateLimitMs int   `json:"rate_limit_ms,omitempty"`
}

// LoadingIndicator mirrors spec §6's loading_indicator.* options.
// LoadingText is truncated to 100 code points per spec.
type LoadingIndicator struct {
	Enabled         *bool  `json:"enabled,omitempty"`
	FallbackToHints *bool  `json:"fallback_to_hints,omitempty"`
	LoadingText     string `json:"loading_text,omitempty"`
}

// Config is the top-level initializationOptions payload. Every field is
// optional; Parse fills in the effective value for each.
type Config struct {
	InlayHints       InlayHints       `json:"inlay_hints"`
	Diagnostics      Diagnostics      `json:"diagnostics"`
	Cache            Cache            `json:"cache"`
	ColdStart        ColdStart        `json:"cold_start"`
	LoadingIndicator LoadingIndicator `json:"loading_indicator"`
}

// Default returns a Config with every field at its spec-mandated default.
func Default() Config {
	return Config{
		InlayHints: InlayHints{
			Enabled:         boolPtr(true),
			UpToDateText:    "✅",
			NeedsUpdateText: "❌ {latest}",
		},
		Diagnostics: Diagnostics{
			OutdatedSeverity: int(lspgen.SeverityHint),
			UnknownSeverity:  int(lspgen.SeverityWarning),
			YankedSeverity:   int(lspgen.SeverityWarning),
		},
		Cache: Cache{
			Enabled:             boolPtr(true),
			RefreshIntervalSecs: 300,
		},
		ColdStart: ColdStart{
			Enabled:     boolPtr(true),
			RateLimitMs: 100, // 10/sec
		},
		LoadingIndicator: LoadingIndicator{
			Enabled:         boolPtr(true),
			FallbackToHints: boolPtr(false),
			LoadingText:     "⏳",
		},
	}
}

// Parse decodes a client's initializationOptions payload over the
// defaults. A nil or empty raw is treated as "no options sent" and
// returns Default() unchanged - a client that never sends
// initializationOptions must still get the documented defaults.
func Parse(raw json.RawMessage) Config {
	cfg := Default()
	if len(raw) == 0 {
		return cfg
	}

	var overlay Config
	if err := json.Unmarshal(raw, &overlay); err != nil {
		return cfg
	}

	if overlay.InlayHints.Enabled != nil {
		cfg.InlayHints.Enabled = overlay.InlayHints.Enabled
	}
	if overlay.InlayHints.UpToDateText != "" {
		cfg.InlayHints.UpToDateText = overlay.InlayHints.UpToDateText
	}
	if overlay.InlayHints.NeedsUpdateText != "" {
		cfg.InlayHints.NeedsUpdateText = overlay.InlayHints.NeedsUpdateText
	}

	if overlay.Diagnostics.OutdatedSeverity != 0 {
		cfg.Diagnostics.OutdatedSeverity = overlay.Diagnostics.OutdatedSeverity
	}
	if overlay.Diagnostics.UnknownSeverity != 0 {
		cfg.Diagnostics.UnknownSeverity = overlay.Diagnostics.UnknownSeverity
	}
	if overlay.Diagnostics.YankedSeverity != 0 {
		cfg.Diagnostics.YankedSeverity = overlay.Diagnostics.YankedSeverity
	}

	if overlay.Cache.Enabled != nil {
		cfg.Cache.Enabled = overlay.Cache.Enabled
	}
	if overlay.Cache.RefreshIntervalSecs != 0 {
		cfg.Cache.RefreshIntervalSecs = overlay.Cache.RefreshIntervalSecs
	}

	if overlay.ColdStart.Enabled != nil {
		cfg.ColdStart.Enabled = overlay.ColdStart.Enabled
	}
	if overlay.ColdStart.RateLimitMs != 0 {
		cfg.ColdStart.RateLimitMs = overlay.ColdStart.RateLimitMs
	}

	if overlay.LoadingIndicator.Enabled != nil {
		cfg.LoadingIndicator.Enabled = overlay.LoadingIndicator.Enabled
	}
	if overlay.LoadingIndicator.FallbackToHints != nil {
		cfg.LoadingIndicator.FallbackToHints = overlay.LoadingIndicator.FallbackToHints
	}
	if overlay.LoadingIndicator.LoadingText != "" {
		cfg.LoadingIndicator.LoadingText = truncateCodePoints(overlay.LoadingIndicator.LoadingText, 100)
	}

	return cfg
}

// HintConfig adapts the resolved inlay-hints + loading-indicator settings
// into lspgen's generator-facing shape.
func (c Config) HintConfig() lspgen.HintConfig {
	return lspgen.HintConfig{
		Enabled:         boolVal(c.InlayHints.Enabled, true),
		UpToDateText:    c.InlayHints.UpToDateText,
		NeedsUpdateText: c.InlayHints.NeedsUpdateText,
		ShowUpToDate:    true,
		LoadingText:     c.LoadingIndicator.LoadingText,
		LoadingEnabled:  boolVal(c.LoadingIndicator.Enabled, true),
		LoadingFallback: boolVal(c.LoadingIndicator.FallbackToHints, false),
	}
}

// DiagnosticConfig adapts the resolved severities into lspgen's
// generator-facing shape.
func (c Config) DiagnosticConfig() lspgen.DiagnosticConfig {
	return lspgen.DiagnosticConfig{
		OutdatedSeverity: lspgen.Severity(c.Diagnostics.OutdatedSeverity),
		UnknownSeverity:  lspgen.Severity(c.Diagnostics.UnknownSeverity),
		YankedSeverity:   lspgen.Severity(c.Diagnostics.YankedSeverity),
	}
}

func boolPtr(b bool) *bool { return &b }

func boolVal(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func truncateCodePoints(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
