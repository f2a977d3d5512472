// Package manifest defines the ecosystem-independent dependency data model
// shared by every manifest parser (Cargo, npm, PyPI, Go).
package manifest

// Position is a zero-based (line, character) pair. Character is measured in
// UTF-16 code units, per the LSP specification.
type Position struct {
	Line      int
	Character int
}

// Range is a half-open [Start, End) span within a document.
type Range struct {
	Start Position
	End   Position
}

// Contains reports whether pos falls within r, optionally widened by pad
// characters on either side of the same line (used by hover to forgive a
// cursor landing just outside a name or version token). Both ends are
// inclusive: a pos equal to End, the cursor right after the last
// character, falls within r.
func (r Range) Contains(pos Position, pad int) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if r.Start.Line == r.End.Line {
		return pos.Character >= r.Start.Character-pad && pos.Character <= r.End.Character+pad
	}
	if pos.Line == r.Start.Line {
		return pos.Character >= r.Start.Character-pad
	}
	if pos.Line == r.End.Line {
		return pos.Character <= r.End.Character+pad
	}
	return true
}

// SourceKind identifies where a declared dependency resolves from.
type SourceKind string

const (
	SourceRegistry SourceKind = "registry"
	SourceGit      SourceKind = "git"
	SourcePath     SourceKind = "path"
	SourceURL      SourceKind = "url"
)

// Source describes where a dependency is declared to come from.
type Source struct {
	Kind SourceKind
	URL  string // git or url source
	Rev  string // git source, optional
	Path string // path source
}

// Section tags which part of the manifest a dependency was declared in.
// Ecosystems interpret the string per their own vocabulary (runtime, dev,
// build, workspace, optional-group:<name>, dependency-group:<name>, peer,
// optional).
type Section string

const (
	SectionRuntime   Section = "runtime"
	SectionDev       Section = "dev"
	SectionBuild     Section = "build"
	SectionWorkspace Section = "workspace"
	SectionPeer      Section = "peer"
	SectionOptional  Section = "optional"

	// Go-specific directives; there is no runtime/dev split in go.mod, so
	// these stand alongside the generic tags above rather than reusing them.
	SectionReplace Section = "replace"
	SectionExclude Section = "exclude"
	SectionRetract Section = "retract"
)

// OptionalGroupSection returns the "optional-group:<name>" tag for PyPI's
// project.optional-dependencies.<group>.
func OptionalGroupSection(name string) Section {
	return Section("optional-group:" + name)
}

// DependencyGroupSection returns the "dependency-group:<name>" tag for PEP
// 735 dependency-groups.<group>.
func DependencyGroupSection(name string) Section {
	return Section("dependency-group:" + name)
}

// Dependency is one declaration found in a manifest.
type Dependency struct {
	Name         string
	NameRange    Range
	Constraint   string // exact text as written, quotes stripped
	HasConstraint bool
	VersionRange Range // valid only if HasConstraint
	Extras       []string
	ExtrasRange  Range
	HasExtras    bool
	Source       Source
	Section      Section
	Inherited    bool // true when the manifest defers to a workspace-level constraint
	Indirect     bool // true for go.mod's "// indirect" requires

	// Markers holds a PEP 508 environment marker expression exactly as
	// written (e.g. `python_version>='3.9'`), empty for every ecosystem
	// other than PyPI.
	Markers string

	// PoetryStyle is true for a dependency declared under
	// tool.poetry[.group.*].dependencies, which quotes its constraint
	// (`"^1.2.3"`) rather than writing it as a bare PEP 440 specifier
	// (`>=1.2.3`) the way project.dependencies does. The code-action
	// generator needs this to pick the right replacement syntax.
	PoetryStyle bool
}

// ParseResult bundles everything produced from parsing one manifest URI.
type ParseResult struct {
	URI            string
	Source         string
	Dependencies   []Dependency
	WorkspaceRoot  string // absolute path, empty if not applicable
	PartialFailure bool   // true if the parser recovered from malformed input
}
