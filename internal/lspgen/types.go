// Package lspgen implements the LSP feature generators (C9): pure
// functions that turn a manifest parse result, the latest/resolved
// version maps, and per-ecosystem formatting rules into inlay hints,
// hover content, diagnostics, code actions, and completion contexts. None
// of these functions perform I/O; they only read what has already been
// fetched.
package lspgen

import "github.com/persubmyorujt831/deps-lsp-sub001/internal/manifest"

// Severity mirrors LSP's DiagnosticSeverity: 1 Error, 2 Warning, 3
// Information, 4 Hint.
type Severity int

const (
	SeverityError       Severity = 1
	SeverityWarning     Severity = 2
	SeverityInformation Severity = 3
	SeverityHint        Severity = 4
)

// Hint is one inlay hint anchored at a position (always the end of a
// version range in this system).
type Hint struct {
	Position manifest.Position
	Label    string
}

// DiagnosticCode names why a diagnostic was raised, so the quick-fix
// handler can decide whether a code action applies without re-deriving
// the reason from the message text.
type DiagnosticCode string

const (
	CodeInvalidConstraint  DiagnosticCode = "invalid-constraint"
	CodePackageNotFound    DiagnosticCode = "package-not-found"
	CodeOutdated           DiagnosticCode = "outdated"
	CodeYanked             DiagnosticCode = "yanked"
)

// Diagnostic is one per-declaration problem report.
type Diagnostic struct {
	Range    manifest.Range
	Severity Severity
	Message  string
	Code     DiagnosticCode
	// DependencyName lets the code-action handler find the Dependency
	// record this diagnostic was raised against without re-scanning.
	DependencyName string
}

// TextEdit replaces the text at Range with NewText.
type TextEdit struct {
	Range   manifest.Range
	NewText string
}

// CodeAction is a single quick fix: replace a version range with the
// ecosystem-formatted latest version string.
type CodeAction struct {
	Title string
	Edit  TextEdit
}

// Hover is the Markdown content shown for a dependency under the cursor.
type Hover struct {
	Range    manifest.Range // the range the hover applies to, for clients that highlight it
	Contents string         // Markdown
}

// CompletionKind identifies which of the three completion contexts (spec
// §4.9) the cursor is in.
type CompletionKind int

const (
	CompletionNone CompletionKind = iota
	CompletionPackageName
	CompletionVersion
	CompletionFeature
)

// CompletionContext is the pure inference result of where the cursor sits;
// the caller performs whatever registry I/O the Kind implies (a name
// search, a version list, or a feature-key lookup against DependencyName)
// and builds the actual CompletionItem list.
type CompletionContext struct {
	Kind           CompletionKind
	DependencyName string // populated for Version and Feature
	Prefix         string // populated for PackageName: partial text typed so far
}

// CompletionItem is a single suggestion returned to the editor.
type CompletionItem struct {
	Label      string
	Detail     string
	InsertText string
}

// Formatter renders an ecosystem's version-declaration syntax: how the
// replacement text for a code action should be spelled. Each ecosystem
// supplies its own (spec §4.9's code-action
// bullet: Cargo `"1.2.3"`, npm `1.2.3`, PyPI runtime `>=1.2.3`, Poetry
// `"^1.2.3"`, Go `v1.2.3`).
type Formatter interface {
	// FormatReplacement returns the exact text that should replace a
	// dependency's version range to pin it to latest.
	FormatReplacement(dep manifest.Dependency, latest string) string
}
