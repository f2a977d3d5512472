package lspgen

import (
	"strings"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/manifest"
)

// InferCompletionContext implements spec §4.9's three-context inference.
// It never performs I/O: the caller inspects the returned Kind and
// DependencyName/Prefix, does whatever registry lookup that context
// implies, and builds the final CompletionItem list itself.
func InferCompletionContext(pr *manifest.ParseResult, pos manifest.Position, content string) CompletionContext {
	if pr == nil {
		return CompletionContext{Kind: CompletionNone}
	}

	for _, dep := range pr.Dependencies {
		if dep.HasConstraint && dep.VersionRange.Contains(pos, 0) {
			return CompletionContext{Kind: CompletionVersion, DependencyName: dep.Name}
		}
		if dep.HasExtras && dep.ExtrasRange.Contains(pos, 0) {
			return CompletionContext{Kind: CompletionFeature, DependencyName: dep.Name}
		}
	}

	if !inDependencySection(pr, pos) {
		return CompletionContext{Kind: CompletionNone}
	}

	prefix := identifierPrefixAt(content, pos)
	if prefix == "" {
		return CompletionContext{Kind: CompletionNone}
	}
	return CompletionContext{Kind: CompletionPackageName, Prefix: prefix}
}

// inDependencySection reports whether pos's line falls within the span of
// the dependencies the parser recognized; approximated here by checking
// whether pos.Line lies between the first and last dependency name line of
// the whole document (sections are not told apart), or on the line right
// after the last one, where a new entry is typically being typed.
func inDependencySection(pr *manifest.ParseResult, pos manifest.Position) bool {
	var bestStart, bestEnd = -1, -1
	for _, dep := range pr.Dependencies {
		line := dep.NameRange.Start.Line
		if bestStart == -1 || line < bestStart {
			bestStart = line
		}
		if line > bestEnd {
			bestEnd = line
		}
	}
	return bestStart != -1 && pos.Line >= bestStart && pos.Line <= bestEnd+1
}

// identifierPrefixAt extracts the run of identifier-syntax characters
// (letters, digits, '-', '_', '.') immediately to the left of pos on its
// line, the partial package name being typed.
func identifierPrefixAt(content string, pos manifest.Position) string {
	lines := strings.Split(content, "\n")
	if pos.Line < 0 || pos.Line >= len(lines) {
		return ""
	}
	line := lines[pos.Line]
	runes := []rune(line)
	if pos.Character > len(runes) {
		return ""
	}
	end := pos.Character
	start := end
	for start > 0 && isIdentifierRune(runes[start-1]) {
		start--
	}
	if start == end {
		return ""
	}
	return string(runes[start:end])
}

func isIdentifierRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_' || r == '.':
		return true
	}
	return false
}
