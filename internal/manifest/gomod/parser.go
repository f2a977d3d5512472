// Package gomod parses go.mod dependency directives.
package gomod

import (
	"strings"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/manifest"
)

const ecosystem = "gomod"

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

// Parse extracts require/replace/exclude/retract directives from a go.mod
// document, in both their block and single-line forms.
func Parse(uri string, source []byte) (*manifest.ParseResult, error) {
	result := &manifest.ParseResult{URI: uri, Source: ecosystem}
	idx := manifest.NewLineIndex(source)
	lines := splitLines(source)

	var moduleName string
	blockKind := ""

	for _, line := range lines {
		raw := line.text
		base := line.offset
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}

		if blockKind != "" {
			if trimmed == ")" {
				blockKind = ""
				continue
			}
			if dep, ok := parseDirectiveBody(raw, base, idx, blockKind, moduleName); ok {
				result.Dependencies = append(result.Dependencies, dep)
			}
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "module ") || strings.HasPrefix(trimmed, "module\t"):
			moduleName = strings.TrimSpace(trimmed[len("module"):])
		case trimmed == "require (":
			blockKind = "require"
		case trimmed == "replace (":
			blockKind = "replace"
		case trimmed == "exclude (":
			blockKind = "exclude"
		case trimmed == "retract (":
			blockKind = "retract"
		case strings.HasPrefix(trimmed, "require "):
			body, bodyBase := afterKeyword(raw, base, "require")
			if dep, ok := parseRequireFields(body, bodyBase, idx); ok {
				result.Dependencies = append(result.Dependencies, dep)
			}
		case strings.HasPrefix(trimmed, "replace "):
			body, bodyBase := afterKeyword(raw, base, "replace")
			if dep, ok := parseReplaceFields(body, bodyBase, idx); ok {
				result.Dependencies = append(result.Dependencies, dep)
			}
		case strings.HasPrefix(trimmed, "exclude "):
			body, bodyBase := afterKeyword(raw, base, "exclude")
			if dep, ok := parseExcludeFields(body, bodyBase, idx); ok {
				result.Dependencies = append(result.Dependencies, dep)
			}
		case strings.HasPrefix(trimmed, "retract "):
			body, bodyBase := afterKeyword(raw, base, "retract")
			if dep, ok := parseRetractFields(body, bodyBase, idx, moduleName); ok {
				result.Dependencies = append(result.Dependencies, dep)
			}
		}
	}

	return result, nil
}

func afterKeyword(raw string, base int, keyword string) (string, int) {
	i := strings.Index(raw, keyword)
	if i < 0 {
		return "", base
	}
	end := i + len(keyword)
	return raw[end:], base + end
}

func parseDirectiveBody(raw string, base int, idx *manifest.LineIndex, kind, moduleName string) (manifest.Dependency, bool) {
	switch kind {
	case "require":
		return parseRequireFields(raw, base, idx)
	case "replace":
		return parseReplaceFields(raw, base, idx)
	case "exclude":
		return parseExcludeFields(raw, base, idx)
	case "retract":
		return parseRetractFields(raw, base, idx, moduleName)
	}
	return manifest.Dependency{}, false
}

// nextField returns the next whitespace-delimited token in line starting at
// or after from, plus its absolute-within-line byte range and the cursor to
// resume scanning from.
func nextField(line string, from int) (field string, start, end, next int, ok bool) {
	n := len(line)
	i := from
	for i < n && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	if i >= n {
		return "", 0, 0, i, false
	}
	j := i
	for j < n && line[j] != ' ' && line[j] != '\t' {
		j++
	}
	return line[i:j], i, j, j, true
}

func parseRequireFields(raw string, base int, idx *manifest.LineIndex) (manifest.Dependency, bool) {
	name, nameStart, nameEnd, cursor, ok := nextField(raw, 0)
	if !ok || name == "" {
		return manifest.Dependency{}, false
	}
	version, vStart, vEnd, cursor2, ok := nextField(raw, cursor)
	if !ok {
		return manifest.Dependency{}, false
	}
	indirect := strings.Contains(raw[cursor2:], "indirect")

	return manifest.Dependency{
		Name:          name,
		NameRange:     idx.Range(base+nameStart, base+nameEnd),
		Constraint:    version,
		HasConstraint: true,
		VersionRange:  idx.Range(base+vStart, base+vEnd),
		Section:       manifest.SectionRuntime,
		Source:        manifest.Source{Kind: manifest.SourceRegistry},
		Indirect:      indirect,
	}, true
}

func parseExcludeFields(raw string, base int, idx *manifest.LineIndex) (manifest.Dependency, bool) {
	name, nameStart, nameEnd, cursor, ok := nextField(raw, 0)
	if !ok || name == "" {
		return manifest.Dependency{}, false
	}
	dep := manifest.Dependency{
		Name:      name,
		NameRange: idx.Range(base+nameStart, base+nameEnd),
		Section:   manifest.SectionExclude,
		Source:    manifest.Source{Kind: manifest.SourceRegistry},
	}
	if version, vStart, vEnd, _, ok := nextField(raw, cursor); ok {
		dep.Constraint = version
		dep.HasConstraint = true
		dep.VersionRange = idx.Range(base+vStart, base+vEnd)
	}
	return dep, true
}

// parseReplaceFields handles "old [oldver] => new [newver]". The
// dependency's identity stays the replaced module path (what the editor's
// cursor actually sits on); the replacement target is recorded in Source.
func parseReplaceFields(raw string, base int, idx *manifest.LineIndex) (manifest.Dependency, bool) {
	arrow := strings.Index(raw, "=>")
	if arrow < 0 {
		return manifest.Dependency{}, false
	}
	left := raw[:arrow]
	right := raw[arrow+2:]
	rightBase := base + arrow + 2

	oldName, oldStart, oldEnd, _, ok := nextField(left, 0)
	if !ok {
		return manifest.Dependency{}, false
	}

	newTarget, _, _, cursor, ok := nextField(right, 0)
	if !ok {
		return manifest.Dependency{}, false
	}

	dep := manifest.Dependency{
		Name:      oldName,
		NameRange: idx.Range(base+oldStart, base+oldEnd),
		Section:   manifest.SectionReplace,
	}
	if isLocalReplacePath(newTarget) {
		dep.Source = manifest.Source{Kind: manifest.SourcePath, Path: newTarget}
	} else {
		dep.Source = manifest.Source{Kind: manifest.SourceRegistry, URL: newTarget}
	}
	if version, vStart, vEnd, _, ok := nextField(right, cursor); ok {
		dep.Constraint = version
		dep.HasConstraint = true
		dep.VersionRange = idx.Range(rightBase+vStart, rightBase+vEnd)
	}
	return dep, true
}

func isLocalReplacePath(s string) bool {
	return strings.HasPrefix(s, "./") || strings.HasPrefix(s, "../") || strings.HasPrefix(s, "/")
}

// parseRetractFields handles "v1.2.3" or "[v1.0.0, v1.2.0]", optionally
// followed by a "// reason" comment. Retractions name the current module,
// not a dependency, so Name comes from the enclosing module directive.
func parseRetractFields(raw string, base int, idx *manifest.LineIndex, moduleName string) (manifest.Dependency, bool) {
	body := raw
	if c := strings.Index(body, "//"); c >= 0 {
		body = body[:c]
	}
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return manifest.Dependency{}, false
	}
	leadWS := len(body) - len(strings.TrimLeft(body, " \t"))
	start := base + leadWS
	end := start + len(trimmed)

	return manifest.Dependency{
		Name:          moduleName,
		Constraint:    trimmed,
		HasConstraint: true,
		VersionRange:  idx.Range(start, end),
		Section:       manifest.SectionRetract,
		Source:        manifest.Source{Kind: manifest.SourceRegistry},
	}, true
}
