// Package cargo parses Cargo.toml dependency declarations.
package cargo

import (
	"bytes"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/manifest"
)

const ecosystem = "cargo"

type rawLine struct {
	text   string
	offset int
}

func splitLines(source []byte) []rawLine {
	var lines []rawLine
	start := 0
	for i, b := range source {
		if b == '\n' {
			lines = append(lines, rawLine{text: string(source[start:i]), offset: start})
			start = i + 1
		}
	}
	lines = append(lines, rawLine{text: string(source[start:]), offset: start})
	return lines
}

func sectionFor(header string) (manifest.Section, bool) {
	switch header {
	case "dependencies":
		return manifest.SectionRuntime, true
	case "dev-dependencies":
		return manifest.SectionDev, true
	case "build-dependencies":
		return manifest.SectionBuild, true
	case "workspace.dependencies":
		return manifest.SectionWorkspace, true
	}
	return "", false
}

// Parse extracts dependency declarations from a Cargo.toml document. It
// always returns a populated ParseResult, even when the document is not
// fully valid TOML: a non-nil error only means the caller should log a
// warning, never that the result should be discarded.
func Parse(uri string, source []byte) (*manifest.ParseResult, error) {
	result := &manifest.ParseResult{URI: uri, Source: ecosystem}

	var probe map[string]any
	var parseErr error
	if err := toml.Unmarshal(source, &probe); err != nil {
		result.PartialFailure = true
		parseErr = &manifest.ParseError{URI: uri, Err: err}
	}

	idx := manifest.NewLineIndex(source)
	lines := splitLines(source)

	var current manifest.Section
	inSection := false

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i].text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, "[") {
			end := strings.Index(trimmed, "]")
			header := ""
			if end > 0 {
				header = strings.TrimSpace(trimmed[1:end])
			}
			if sec, ok := sectionFor(header); ok {
				current, inSection = sec, true
			} else {
				inSection = false
			}
			continue
		}
		if !inSection {
			continue
		}

		dep, consumed, ok := parseDependencyLine(source, lines, i, idx, current)
		if !ok {
			continue
		}
		result.Dependencies = append(result.Dependencies, dep)
		i += consumed
	}

	return result, parseErr
}

func parseDependencyLine(source []byte, lines []rawLine, i int, idx *manifest.LineIndex, section manifest.Section) (manifest.Dependency, int, bool) {
	text := lines[i].text
	base := lines[i].offset

	eqPos := strings.Index(text, "=")
	if eqPos < 0 {
		return manifest.Dependency{}, 0, false
	}

	keyRaw := text[:eqPos]
	keyLeft := strings.TrimLeft(keyRaw, " \t")
	leadingWS := len(keyRaw) - len(keyLeft)
	keyTrimmed := strings.TrimRight(keyLeft, " \t")
	if keyTrimmed == "" {
		return manifest.Dependency{}, 0, false
	}
	name := strings.Trim(keyTrimmed, `"'`)
	if name == "" || strings.ContainsAny(name, " \t") {
		return manifest.Dependency{}, 0, false
	}

	nameStart := base + leadingWS
	nameEnd := nameStart + len(keyTrimmed)

	dep := manifest.Dependency{
		Name:      name,
		NameRange: idx.Range(nameStart, nameEnd),
		Section:   section,
	}

	rest := text[eqPos+1:]
	restLeft := strings.TrimLeft(rest, " \t")
	valueStart := base + eqPos + 1 + (len(rest) - len(restLeft))
	valueText := strings.TrimSpace(rest)

	switch {
	case strings.HasPrefix(valueText, "{"):
		closeBrace, ok := findInlineTableSpan(source, valueStart)
		if !ok {
			return dep, 0, true
		}
		fillFromInlineTable(&dep, source, valueStart, closeBrace, idx)
		consumed := bytes.Count(source[valueStart:closeBrace+1], []byte("\n"))
		return dep, consumed, true

	case strings.HasPrefix(valueText, `"`) || strings.HasPrefix(valueText, "'"):
		q := valueText[0]
		closeRel := strings.IndexByte(valueText[1:], q)
		if closeRel < 0 {
			return dep, 0, true
		}
		version := valueText[1 : 1+closeRel]
		vStart := valueStart + 1
		dep.Constraint = version
		dep.HasConstraint = true
		dep.VersionRange = idx.Range(vStart, vStart+closeRel)
		dep.Source = manifest.Source{Kind: manifest.SourceRegistry}
		return dep, 0, true
	}

	return dep, 0, true
}

// findInlineTableSpan returns the byte offset of the "}" matching the "{"
// at openBrace, tracking quote state so a brace inside a git URL or path
// string is never mistaken for structure.
func findInlineTableSpan(source []byte, openBrace int) (int, bool) {
	depth := 0
	inQuote := false
	var quoteChar byte
	for i := openBrace; i < len(source); i++ {
		c := source[i]
		if inQuote {
			if c == quoteChar {
				inQuote = false
			}
			continue
		}
		switch c {
		case '"', '\'':
			inQuote = true
			quoteChar = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func fillFromInlineTable(dep *manifest.Dependency, source []byte, openBrace, closeBrace int, idx *manifest.LineIndex) {
	body := source[openBrace+1 : closeBrace]
	bodyBase := openBrace + 1

	if v, start, end, ok := extractQuotedField(body, bodyBase, "version"); ok {
		dep.Constraint = v
		dep.HasConstraint = true
		dep.VersionRange = idx.Range(start, end)
	}
	if v, _, _, ok := extractQuotedField(body, bodyBase, "git"); ok {
		dep.Source = manifest.Source{Kind: manifest.SourceGit, URL: v}
	}
	if v, _, _, ok := extractQuotedField(body, bodyBase, "rev"); ok {
		dep.Source.Rev = v
	}
	if v, _, _, ok := extractQuotedField(body, bodyBase, "path"); ok {
		if dep.Source.Kind == "" {
			dep.Source = manifest.Source{Kind: manifest.SourcePath, Path: v}
		} else {
			dep.Source.Path = v
		}
	}
	if boolField(body, "workspace") {
		dep.Inherited = true
	}
	if arr, start, end, ok := extractArrayField(body, bodyBase, "features"); ok {
		dep.Extras = arr
		dep.HasExtras = true
		dep.ExtrasRange = idx.Range(start, end)
	}
	if dep.Source.Kind == "" {
		dep.Source = manifest.Source{Kind: manifest.SourceRegistry}
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '-' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// extractQuotedField finds key = "value" within body (a whole-word match,
// so "version" never matches inside some future longer key) and returns
// the unquoted value plus its absolute byte range in the source document.
func extractQuotedField(body []byte, bodyBase int, key string) (string, int, int, bool) {
	text := string(body)
	searchFrom := 0
	for {
		i := strings.Index(text[searchFrom:], key)
		if i < 0 {
			return "", 0, 0, false
		}
		pos := searchFrom + i
		searchFrom = pos + len(key)

		if pos > 0 && isIdentByte(text[pos-1]) {
			continue
		}
		after := pos + len(key)
		if after < len(text) && isIdentByte(text[after]) {
			continue
		}

		rest := text[after:]
		rest = strings.TrimLeft(rest, " \t")
		if !strings.HasPrefix(rest, "=") {
			continue
		}
		rest = strings.TrimLeft(rest[1:], " \t")
		if rest == "" || (rest[0] != '"' && rest[0] != '\'') {
			continue
		}
		q := rest[0]
		closeRel := strings.IndexByte(rest[1:], q)
		if closeRel < 0 {
			continue
		}
		value := rest[1 : 1+closeRel]
		valueOffsetInText := len(text) - len(rest) + 1
		start := bodyBase + valueOffsetInText
		end := start + len(value)
		return value, start, end, true
	}
}

func extractArrayField(body []byte, bodyBase int, key string) ([]string, int, int, bool) {
	text := string(body)
	i := strings.Index(text, key)
	if i < 0 {
		return nil, 0, 0, false
	}
	rest := text[i+len(key):]
	rest = strings.TrimLeft(rest, " \t")
	if !strings.HasPrefix(rest, "=") {
		return nil, 0, 0, false
	}
	rest = strings.TrimLeft(rest[1:], " \t")
	if !strings.HasPrefix(rest, "[") {
		return nil, 0, 0, false
	}
	closeRel := strings.IndexByte(rest, ']')
	if closeRel < 0 {
		return nil, 0, 0, false
	}
	arrText := rest[1:closeRel]
	startOffset := bodyBase + (len(text) - len(rest))
	endOffset := startOffset + closeRel + 1

	var values []string
	for _, part := range strings.Split(arrText, ",") {
		part = strings.TrimSpace(part)
		part = strings.Trim(part, `"'`)
		if part != "" {
			values = append(values, part)
		}
	}
	return values, startOffset, endOffset, true
}

func boolField(body []byte, key string) bool {
	text := string(body)
	i := strings.Index(text, key)
	if i < 0 {
		return false
	}
	rest := text[i+len(key):]
	rest = strings.TrimLeft(rest, " \t")
	if !strings.HasPrefix(rest, "=") {
		return false
	}
	rest = strings.TrimLeft(rest[1:], " \t")
	return strings.HasPrefix(rest, "true")
}
