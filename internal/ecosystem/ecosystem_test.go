package ecosystem

import (
	"testing"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/lspgen"
)

func TestRegistryRoutesByBasename(t *testing.T) {
	r := New(nil)

	eco, ok := r.Lookup("/repo/Cargo.toml")
	if !ok || eco.ID() != "cargo" {
		t.Errorf("Lookup(Cargo.toml) = (%v, %v)", eco, ok)
	}

	eco, ok = r.Lookup("/repo/sub/package.json")
	if !ok || eco.ID() != "npm" {
		t.Errorf("Lookup(package.json) = (%v, %v)", eco, ok)
	}

	eco, ok = r.Lookup("/repo/pyproject.toml")
	if !ok || eco.ID() != "pypi" {
		t.Errorf("Lookup(pyproject.toml) = (%v, %v)", eco, ok)
	}

	eco, ok = r.Lookup("/repo/go.mod")
	if !ok || eco.ID() != "golang" {
		t.Errorf("Lookup(go.mod) = (%v, %v)", eco, ok)
	}

	if _, ok := r.Lookup("/repo/README.md"); ok {
		t.Error("Lookup(README.md) = ok, want not-found")
	}
}

func TestCargoEcosystemParsesAndDiagnoses(t *testing.T) {
	r := New(nil)
	eco, _ := r.Lookup("Cargo.toml")

	source := []byte("[dependencies]\nserde = \"1.0.100\"\n")
	pr, err := eco.ParseManifest("file:///Cargo.toml", source)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if len(pr.Dependencies) != 1 || pr.Dependencies[0].Name != "serde" {
		t.Fatalf("Dependencies = %+v", pr.Dependencies)
	}

	latest := map[string]string{"serde": "1.0.200"}
	cfg := lspgen.DiagnosticConfig{
		OutdatedSeverity: lspgen.SeverityHint,
		UnknownSeverity:  lspgen.SeverityWarning,
		YankedSeverity:   lspgen.SeverityWarning,
	}
	diags := eco.GenerateDiagnostics(pr, latest, nil, nil, cfg)
	if len(diags) != 1 {
		t.Fatalf("len(diags) = %d, want 1: %+v", len(diags), diags)
	}

	pos := pr.Dependencies[0].VersionRange.Start
	actions := eco.GenerateCodeActions(pr, pos, latest)
	if len(actions) != 1 || actions[0].Edit.NewText != `"1.0.200"` {
		t.Fatalf("actions = %+v", actions)
	}
}
