// Package npm parses package.json dependency declarations.
package npm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/manifest"
)

const ecosystem = "npm"

var sectionKeys = map[string]manifest.Section{
	"dependencies":         manifest.SectionRuntime,
	"devDependencies":      manifest.SectionDev,
	"peerDependencies":     manifest.SectionPeer,
	"optionalDependencies": manifest.SectionOptional,
}

// sectionOrder fixes the order sections are visited in, independent of Go's
// randomized map iteration, so Dependencies comes out in a stable order.
var sectionOrder = []string{"dependencies", "devDependencies", "peerDependencies", "optionalDependencies"}

// Parse extracts dependency declarations from a package.json document. Only
// the four known dependency-map keys are ever inspected, so a package name
// that also happens to appear inside "scripts" is never mistaken for a
// declaration.
func Parse(uri string, source []byte) (*manifest.ParseResult, error) {
	result := &manifest.ParseResult{URI: uri, Source: ecosystem}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(source, &top); err != nil {
		result.PartialFailure = true
		return result, &manifest.ParseError{URI: uri, Err: err}
	}

	idx := manifest.NewLineIndex(source)
	var parseErr error

	for _, key := range sectionOrder {
		raw, ok := top[key]
		if !ok {
			continue
		}
		base := bytes.Index(source, raw)
		if base < 0 {
			continue
		}
		deps, err := parseSection(raw, base, idx, sectionKeys[key])
		if err != nil {
			result.PartialFailure = true
			parseErr = &manifest.ParseError{URI: uri, Err: err}
		}
		result.Dependencies = append(result.Dependencies, deps...)
	}

	return result, parseErr
}

func parseSection(raw json.RawMessage, base int, idx *manifest.LineIndex, section manifest.Section) ([]manifest.Dependency, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var deps []manifest.Dependency
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return deps, err
		}
		name, ok := keyTok.(string)
		if !ok {
			return deps, fmt.Errorf("expected string key, got %v", keyTok)
		}
		keyEnd := int(dec.InputOffset())
		keyStart := findJSONStringStart(raw, keyEnd)

		valTok, err := dec.Token()
		if err != nil {
			return deps, err
		}

		dep := manifest.Dependency{
			Name:      name,
			NameRange: idx.Range(base+keyStart+1, base+keyEnd-1),
			Section:   section,
		}

		if v, ok := valTok.(string); ok {
			vEnd := int(dec.InputOffset())
			vStart := findJSONStringStart(raw, vEnd)
			dep.Constraint = v
			dep.HasConstraint = true
			dep.VersionRange = idx.Range(base+vStart+1, base+vEnd-1)
			dep.Source = classifySource(v)
		}

		deps = append(deps, dep)
	}
	return deps, nil
}

// classifySource recognizes semver ranges/tags (the common case, left as
// SourceRegistry), git URLs (git+, git://, or a known host: prefix), file:
// paths, and bare tarball URLs.
func classifySource(value string) manifest.Source {
	switch {
	case strings.HasPrefix(value, "git+"), strings.HasPrefix(value, "git://"),
		strings.HasPrefix(value, "github:"), strings.HasPrefix(value, "gitlab:"), strings.HasPrefix(value, "bitbucket:"):
		return manifest.Source{Kind: manifest.SourceGit, URL: value}
	case strings.HasPrefix(value, "file:"):
		return manifest.Source{Kind: manifest.SourcePath, Path: strings.TrimPrefix(value, "file:")}
	case strings.HasPrefix(value, "http://"), strings.HasPrefix(value, "https://"):
		return manifest.Source{Kind: manifest.SourceURL, URL: value}
	default:
		return manifest.Source{Kind: manifest.SourceRegistry}
	}
}

// findJSONStringStart walks backward from the offset just past a decoded
// JSON string's closing quote to find its opening quote, skipping over any
// escaped quotes the string contains.
func findJSONStringStart(raw []byte, endOffset int) int {
	i := endOffset - 2
	for i >= 0 {
		if raw[i] == '"' {
			backslashes := 0
			j := i - 1
			for j >= 0 && raw[j] == '\\' {
				backslashes++
				j--
			}
			if backslashes%2 == 0 {
				return i
			}
		}
		i--
	}
	return endOffset - 1
}
