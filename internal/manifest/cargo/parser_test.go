package cargo

import (
	"reflect"
	"testing"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/manifest"
)

func TestParseSimpleDependencies(t *testing.T) {
	source := []byte(`[package]
name = "demo"

[dependencies]
serde = "1.0"
tokio = { version = "1", features = ["full", "macros"] }

[dev-dependencies]
mockall = "0.11"
`)

	result, err := Parse("file:///Cargo.toml", source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PartialFailure {
		t.Fatal("expected no partial failure for valid TOML")
	}
	if len(result.Dependencies) != 3 {
		t.Fatalf("len(Dependencies) = %d, want 3", len(result.Dependencies))
	}

	serde := result.Dependencies[0]
	if serde.Name != "serde" || serde.Constraint != "1.0" || serde.Section != manifest.SectionRuntime {
		t.Errorf("serde = %+v", serde)
	}
	wantNameRange := manifest.Range{Start: manifest.Position{Line: 4, Character: 0}, End: manifest.Position{Line: 4, Character: 5}}
	if serde.NameRange != wantNameRange {
		t.Errorf("serde.NameRange = %+v, want %+v", serde.NameRange, wantNameRange)
	}
	wantVersionRange := manifest.Range{Start: manifest.Position{Line: 4, Character: 9}, End: manifest.Position{Line: 4, Character: 12}}
	if serde.VersionRange != wantVersionRange {
		t.Errorf("serde.VersionRange = %+v, want %+v", serde.VersionRange, wantVersionRange)
	}

	tokio := result.Dependencies[1]
	if tokio.Name != "tokio" || tokio.Constraint != "1" || !tokio.HasConstraint {
		t.Errorf("tokio = %+v", tokio)
	}
	if !reflect.DeepEqual(tokio.Extras, []string{"full", "macros"}) {
		t.Errorf("tokio.Extras = %v, want [full macros]", tokio.Extras)
	}
	if tokio.VersionRange.Start.Line != 5 {
		t.Errorf("tokio.VersionRange.Start.Line = %d, want 5", tokio.VersionRange.Start.Line)
	}

	mockall := result.Dependencies[2]
	if mockall.Name != "mockall" || mockall.Constraint != "0.11" || mockall.Section != manifest.SectionDev {
		t.Errorf("mockall = %+v", mockall)
	}
	wantMockallName := manifest.Range{Start: manifest.Position{Line: 8, Character: 0}, End: manifest.Position{Line: 8, Character: 7}}
	if mockall.NameRange != wantMockallName {
		t.Errorf("mockall.NameRange = %+v, want %+v", mockall.NameRange, wantMockallName)
	}
	wantMockallVersion := manifest.Range{Start: manifest.Position{Line: 8, Character: 11}, End: manifest.Position{Line: 8, Character: 15}}
	if mockall.VersionRange != wantMockallVersion {
		t.Errorf("mockall.VersionRange = %+v, want %+v", mockall.VersionRange, wantMockallVersion)
	}
}

func TestParseWorkspaceInherited(t *testing.T) {
	source := []byte(`[workspace.dependencies]
shared = { workspace = true }
`)
	result, err := Parse("file:///Cargo.toml", source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Dependencies) != 1 {
		t.Fatalf("len(Dependencies) = %d, want 1", len(result.Dependencies))
	}
	dep := result.Dependencies[0]
	if !dep.Inherited {
		t.Error("expected Inherited = true")
	}
	if dep.HasConstraint {
		t.Error("expected no explicit constraint when workspace = true")
	}
	if dep.Section != manifest.SectionWorkspace {
		t.Errorf("Section = %q, want workspace", dep.Section)
	}
}

func TestParseGitSource(t *testing.T) {
	source := []byte(`[dependencies]
bar = { git = "https://github.com/x/y", rev = "abcdef" }
`)
	result, err := Parse("file:///Cargo.toml", source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Dependencies) != 1 {
		t.Fatalf("len(Dependencies) = %d, want 1", len(result.Dependencies))
	}
	dep := result.Dependencies[0]
	if dep.Source.Kind != manifest.SourceGit {
		t.Errorf("Source.Kind = %q, want git", dep.Source.Kind)
	}
	if dep.Source.URL != "https://github.com/x/y" {
		t.Errorf("Source.URL = %q", dep.Source.URL)
	}
	if dep.Source.Rev != "abcdef" {
		t.Errorf("Source.Rev = %q", dep.Source.Rev)
	}
}

func TestParsePartialFailureRecovers(t *testing.T) {
	source := []byte(`[dependencies]
serde = "1.0"

this is not valid toml at all !!! [[[
`)
	result, err := Parse("file:///Cargo.toml", source)
	if err == nil {
		t.Fatal("expected a parse error for malformed TOML")
	}
	if !result.PartialFailure {
		t.Error("expected PartialFailure = true")
	}
	if len(result.Dependencies) != 1 || result.Dependencies[0].Name != "serde" {
		t.Errorf("Dependencies = %+v, want recovered serde entry", result.Dependencies)
	}
}
