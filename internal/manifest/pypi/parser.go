// Package pypi parses pyproject.toml dependency declarations: PEP 621
// project.dependencies / project.optional-dependencies.<group>, PEP 735
// dependency-groups.<group>, and Poetry's tool.poetry.dependencies /
// tool.poetry.group.<g>.dependencies.
package pypi

import (
	"bytes"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/manifest"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/semver"
)

const ecosystem = "pypi"

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

// sectionKind identifies which of the three PyPI dependency surfaces a
// TOML table header belongs to.
type sectionKind int

const (
	sectionNone sectionKind = iota
	sectionProjectDeps
	sectionProjectOptional // header is "project.optional-dependencies"; group names are keys within it
	sectionDependencyGroups
	sectionPoetryDeps
	sectionPoetryGroup
)

type tableState struct {
	kind      sectionKind
	groupName string // for poetry groups, the group name from the header
}

func classifyHeader(header string) tableState {
	switch {
	case header == "project":
		return tableState{kind: sectionProjectDeps}
	case header == "project.optional-dependencies":
		return tableState{kind: sectionProjectOptional}
	case header == "dependency-groups":
		return tableState{kind: sectionDependencyGroups}
	case header == "tool.poetry.dependencies":
		return tableState{kind: sectionPoetryDeps}
	case strings.HasPrefix(header, "tool.poetry.group.") && strings.HasSuffix(header, ".dependencies"):
		mid := strings.TrimSuffix(strings.TrimPrefix(header, "tool.poetry.group."), ".dependencies")
		return tableState{kind: sectionPoetryGroup, groupName: mid}
	}
	return tableState{kind: sectionNone}
}

// Parse extracts dependency declarations from a pyproject.toml document.
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

	var state tableState
	i := 0
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i].text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			i++
			continue
		}
		if strings.HasPrefix(trimmed, "[") {
			end := strings.Index(trimmed, "]")
			header := ""
			if end > 0 {
				header = strings.TrimSpace(trimmed[1:end])
			}
			state = classifyHeader(header)
			i++
			continue
		}

		switch state.kind {
		case sectionProjectDeps:
			if isKey(trimmed, "dependencies") {
				consumed := parseArrayAssignment(source, lines, i, idx, manifest.SectionRuntime, &result.Dependencies)
				i += consumed
			}
		case sectionProjectOptional:
			if key, ok := arrayKeyOf(trimmed); ok {
				consumed := parseArrayAssignment(source, lines, i, idx, manifest.OptionalGroupSection(key), &result.Dependencies)
				i += consumed
			}
		case sectionDependencyGroups:
			if key, ok := arrayKeyOf(trimmed); ok {
				consumed := parseArrayAssignment(source, lines, i, idx, manifest.DependencyGroupSection(key), &result.Dependencies)
				i += consumed
			}
		case sectionPoetryDeps:
			if dep, consumed, ok := parsePoetryLine(source, lines, i, idx, manifest.SectionRuntime); ok {
				result.Dependencies = append(result.Dependencies, dep)
				i += consumed
			}
		case sectionPoetryGroup:
			if dep, consumed, ok := parsePoetryLine(source, lines, i, idx, manifest.DependencyGroupSection(state.groupName)); ok {
				result.Dependencies = append(result.Dependencies, dep)
				i += consumed
			}
		}
		i++
	}

	return result, parseErr
}

func isKey(trimmed, key string) bool {
	if !strings.HasPrefix(trimmed, key) {
		return false
	}
	rest := strings.TrimSpace(trimmed[len(key):])
	return strings.HasPrefix(rest, "=")
}

// arrayKeyOf returns the bare key name of a "key = [" assignment line.
func arrayKeyOf(trimmed string) (string, bool) {
	eq := strings.Index(trimmed, "=")
	if eq < 0 {
		return "", false
	}
	key := strings.TrimSpace(trimmed[:eq])
	key = strings.Trim(key, `"'`)
	if key == "" {
		return "", false
	}
	rest := strings.TrimSpace(trimmed[eq+1:])
	if !strings.HasPrefix(rest, "[") {
		return "", false
	}
	return key, true
}

// parseArrayAssignment locates the "[ ... ]" array value for a "key = [...]"
// line (which may span multiple lines), splits its elements, and appends a
// Dependency per PEP 508 string element. Returns the number of extra lines
// consumed beyond line i.
func parseArrayAssignment(source []byte, lines []rawLine, i int, idx *manifest.LineIndex, section manifest.Section, deps *[]manifest.Dependency) int {
	text := lines[i].text
	base := lines[i].offset
	open := strings.Index(text, "[")
	if open < 0 {
		return 0
	}
	openAbs := base + open

	closeAbs, ok := findBracketSpan(source, openAbs)
	if !ok {
		return 0
	}
	body := source[openAbs+1 : closeAbs]
	bodyBase := openAbs + 1

	for _, el := range splitTopLevel(body, bodyBase) {
		elText := strings.TrimSpace(el.text)
		if elText == "" || strings.HasPrefix(elText, "{") {
			// Skip PEP 735 {include-group = "..."} references: they name
			// another group, not a package.
			continue
		}
		if elText[0] != '"' && elText[0] != '\'' {
			continue
		}
		q := elText[0]
		closeRel := strings.LastIndexByte(elText, byte(q))
		if closeRel <= 0 {
			continue
		}
		inner := elText[1:closeRel]
		leadWS := len(el.text) - len(strings.TrimLeft(el.text, " \t\n"))
		innerStart := el.start + leadWS + 1
		if dep, ok := parsePEP508(inner, innerStart, idx, section); ok {
			*deps = append(*deps, dep)
		}
	}

	return bytes.Count(source[openAbs:closeAbs+1], []byte("\n"))
}

type element struct {
	text  string
	start int // absolute byte offset of el.text[0]
}

// splitTopLevel splits a comma-joined TOML array body into its elements,
// respecting nested brackets/braces and quoted strings so a comma inside a
// marker expression's quotes is never mistaken for a separator.
func splitTopLevel(body []byte, bodyBase int) []element {
	var out []element
	depth := 0
	inQuote := false
	var quoteChar byte
	start := 0
	for i := 0; i <= len(body); i++ {
		var c byte
		if i < len(body) {
			c = body[i]
		}
		if inQuote {
			if i < len(body) && c == quoteChar {
				inQuote = false
			}
			continue
		}
		switch {
		case i < len(body) && (c == '"' || c == '\''):
			inQuote = true
			quoteChar = c
		case i < len(body) && (c == '[' || c == '{'):
			depth++
		case i < len(body) && (c == ']' || c == '}'):
			depth--
		case (i == len(body) || c == ',') && depth == 0:
			if i > start {
				out = append(out, element{text: string(body[start:i]), start: bodyBase + start})
			}
			start = i + 1
		}
	}
	return out
}

// findBracketSpan returns the byte offset of the "]" matching the "["
// at openBracket.
func findBracketSpan(source []byte, openBracket int) (int, bool) {
	depth := 0
	inQuote := false
	var quoteChar byte
	for i := openBracket; i < len(source); i++ {
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
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// parsePEP508 parses a single PEP 508 requirement string (the unquoted
// content of a TOML string literal) into a Dependency. start is the
// absolute byte offset of raw[0] within the source document.
func parsePEP508(raw string, start int, idx *manifest.LineIndex, section manifest.Section) (manifest.Dependency, bool) {
	rest := raw
	cursor := 0

	nameLen := 0
	for nameLen < len(rest) && isPEP508NameByte(rest[nameLen]) {
		nameLen++
	}
	if nameLen == 0 {
		return manifest.Dependency{}, false
	}
	name := rest[:nameLen]
	nameStart := start + cursor
	nameEnd := nameStart + nameLen
	cursor += nameLen
	rest = rest[nameLen:]

	dep := manifest.Dependency{
		Name:      name,
		NameRange: idx.Range(nameStart, nameEnd),
		Section:   section,
		Source:    manifest.Source{Kind: manifest.SourceRegistry},
	}

	if strings.HasPrefix(rest, "[") {
		closeRel := strings.IndexByte(rest, ']')
		if closeRel > 0 {
			extrasStart := start + cursor
			extrasText := rest[1:closeRel]
			var extras []string
			for _, e := range strings.Split(extrasText, ",") {
				e = strings.TrimSpace(e)
				if e != "" {
					extras = append(extras, e)
				}
			}
			dep.Extras = extras
			dep.HasExtras = true
			dep.ExtrasRange = idx.Range(extrasStart, extrasStart+closeRel+1)
			cursor += closeRel + 1
			rest = rest[closeRel+1:]
		}
	}

	// Split off the "; markers" suffix before locating the version
	// specifier, so a marker containing comparison operators (e.g.
	// `python_version>='3.9'`) is never mistaken for part of it.
	body := rest
	if semi := strings.Index(rest, ";"); semi >= 0 {
		dep.Markers = strings.TrimSpace(rest[semi+1:])
		body = rest[:semi]
	}

	trimmedSpec := strings.TrimSpace(body)
	if trimmedSpec != "" {
		leadWS := len(body) - len(strings.TrimLeft(body, " \t"))
		vStart := start + cursor + leadWS
		dep.Constraint = trimmedSpec
		dep.HasConstraint = true
		dep.VersionRange = idx.Range(vStart, vStart+len(trimmedSpec))
	}

	return dep, true
}

func isPEP508NameByte(b byte) bool {
	return b == '_' || b == '-' || b == '.' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// parsePoetryLine parses one "name = "^1.0"" or
// "name = { version = "^1.0", extras = [...] }" line from a
// tool.poetry[.group.<g>].dependencies table.
func parsePoetryLine(source []byte, lines []rawLine, i int, idx *manifest.LineIndex, section manifest.Section) (manifest.Dependency, int, bool) {
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
	name := strings.Trim(keyTrimmed, `"'`)
	if name == "" || strings.ContainsAny(name, " \t") {
		return manifest.Dependency{}, 0, false
	}
	// python = "^3.9" names the interpreter constraint, not a dependency.
	if name == "python" {
		return manifest.Dependency{}, 0, false
	}

	nameStart := base + leadingWS
	nameEnd := nameStart + len(keyTrimmed)

	dep := manifest.Dependency{
		Name:        name,
		NameRange:   idx.Range(nameStart, nameEnd),
		Section:     section,
		PoetryStyle: true,
	}

	rest := text[eqPos+1:]
	restLeft := strings.TrimLeft(rest, " \t")
	valueStart := base + eqPos + 1 + (len(rest) - len(restLeft))
	valueText := strings.TrimSpace(rest)

	switch {
	case strings.HasPrefix(valueText, "{"):
		closeBrace, ok := findBraceSpan(source, valueStart)
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

func findBraceSpan(source []byte, openBrace int) (int, bool) {
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
	text := string(body)

	if v, start, end, ok := extractQuotedField(text, bodyBase, "version"); ok {
		dep.Constraint = v
		dep.HasConstraint = true
		dep.VersionRange = idx.Range(start, end)
	}
	if v, _, _, ok := extractQuotedField(text, bodyBase, "git"); ok {
		dep.Source = manifest.Source{Kind: manifest.SourceGit, URL: v}
	}
	if v, _, _, ok := extractQuotedField(text, bodyBase, "path"); ok {
		if dep.Source.Kind == "" {
			dep.Source = manifest.Source{Kind: manifest.SourcePath, Path: v}
		}
	}
	if arr, start, end, ok := extractArrayField(text, bodyBase, "extras"); ok {
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

func extractQuotedField(text string, bodyBase int, key string) (string, int, int, bool) {
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

func extractArrayField(text string, bodyBase int, key string) ([]string, int, int, bool) {
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

// MatcherKey returns the normalized lookup key for name (spec §9: PyPI name
// normalization is applied only at the matcher/lookup boundary).
func MatcherKey(name string) string {
	return semver.NormalizeName(name)
}
