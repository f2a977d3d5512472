package gomod

import (
	"testing"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/manifest"
)

const sampleGoMod = `module github.com/example/project

go 1.21

require (
	github.com/pkg/errors v0.9.1
	golang.org/x/sync v0.0.0-20220722155255-886fb9371eb4 // indirect
)

require github.com/single/dep v1.0.0

replace github.com/old/mod => github.com/new/mod v1.2.3

replace github.com/local/mod => ../local/mod

exclude github.com/bad/mod v1.0.0

retract v1.5.0 // published too early
`

func TestParseRequireBlockAndSingleLine(t *testing.T) {
	result, err := Parse("file:///go.mod", []byte(sampleGoMod))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byName := map[string][]manifest.Dependency{}
	for _, d := range result.Dependencies {
		byName[d.Name] = append(byName[d.Name], d)
	}

	errs := byName["github.com/pkg/errors"]
	if len(errs) != 1 || errs[0].Constraint != "v0.9.1" || errs[0].Indirect {
		t.Errorf("github.com/pkg/errors = %+v", errs)
	}

	sync := byName["golang.org/x/sync"]
	if len(sync) != 1 || !sync[0].Indirect {
		t.Errorf("golang.org/x/sync = %+v, want Indirect = true", sync)
	}

	single := byName["github.com/single/dep"]
	if len(single) != 1 || single[0].Constraint != "v1.0.0" {
		t.Errorf("github.com/single/dep = %+v", single)
	}
	wantNameRange := manifest.Range{Start: manifest.Position{Line: 9, Character: 8}, End: manifest.Position{Line: 9, Character: 29}}
	if single[0].NameRange != wantNameRange {
		t.Errorf("NameRange = %+v, want %+v", single[0].NameRange, wantNameRange)
	}
	wantVersionRange := manifest.Range{Start: manifest.Position{Line: 9, Character: 30}, End: manifest.Position{Line: 9, Character: 36}}
	if single[0].VersionRange != wantVersionRange {
		t.Errorf("VersionRange = %+v, want %+v", single[0].VersionRange, wantVersionRange)
	}
}

func TestParseReplaceDirectives(t *testing.T) {
	result, err := Parse("file:///go.mod", []byte(sampleGoMod))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var oldMod, localMod *manifest.Dependency
	for i, d := range result.Dependencies {
		if d.Section != manifest.SectionReplace {
			continue
		}
		switch d.Name {
		case "github.com/old/mod":
			oldMod = &result.Dependencies[i]
		case "github.com/local/mod":
			localMod = &result.Dependencies[i]
		}
	}

	if oldMod == nil {
		t.Fatal("expected a replace entry for github.com/old/mod")
	}
	if oldMod.Source.Kind != manifest.SourceRegistry || oldMod.Source.URL != "github.com/new/mod" {
		t.Errorf("oldMod.Source = %+v", oldMod.Source)
	}
	if oldMod.Constraint != "v1.2.3" {
		t.Errorf("oldMod.Constraint = %q, want v1.2.3", oldMod.Constraint)
	}

	if localMod == nil {
		t.Fatal("expected a replace entry for github.com/local/mod")
	}
	if localMod.Source.Kind != manifest.SourcePath || localMod.Source.Path != "../local/mod" {
		t.Errorf("localMod.Source = %+v", localMod.Source)
	}
}

func TestParseExcludeAndRetract(t *testing.T) {
	result, err := Parse("file:///go.mod", []byte(sampleGoMod))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var excluded, retracted *manifest.Dependency
	for i, d := range result.Dependencies {
		switch d.Section {
		case manifest.SectionExclude:
			excluded = &result.Dependencies[i]
		case manifest.SectionRetract:
			retracted = &result.Dependencies[i]
		}
	}

	if excluded == nil || excluded.Name != "github.com/bad/mod" || excluded.Constraint != "v1.0.0" {
		t.Errorf("excluded = %+v", excluded)
	}

	if retracted == nil || retracted.Name != "github.com/example/project" || retracted.Constraint != "v1.5.0" {
		t.Errorf("retracted = %+v", retracted)
	}
}
