package lockfile

import "testing"

func TestCargoResolverParse(t *testing.T) {
	content := []byte(`
[[package]]
name = "serde"
version = "1.0.197"
source = "registry+https://github.com/rust-lang/crates.io-index"

[[package]]
name = "left-pad"
version = "0.1.0"
`)
	entries, err := CargoResolver{}.Parse(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries["serde"].Version != "1.0.197" {
		t.Errorf("serde = %+v", entries["serde"])
	}
	if entries["left-pad"].Version != "0.1.0" {
		t.Errorf("left-pad = %+v", entries["left-pad"])
	}
}

func TestNpmResolverParse(t *testing.T) {
	content := []byte(`{
  "packages": {
    "": {"name": "demo"},
    "node_modules/left-pad": {"version": "1.3.0"},
    "node_modules/@babel/core": {"version": "7.24.0"}
  }
}`)
	entries, err := NpmResolver{}.Parse(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries["left-pad"].Version != "1.3.0" {
		t.Errorf("left-pad = %+v", entries["left-pad"])
	}
	if entries["@babel/core"].Version != "7.24.0" {
		t.Errorf("@babel/core = %+v", entries["@babel/core"])
	}
}

func TestGoSumResolverSelectsHighestVersion(t *testing.T) {
	content := []byte(`github.com/pkg/errors v0.8.1/go.mod h1:abc=
github.com/pkg/errors v0.9.1 h1:def=
github.com/pkg/errors v0.9.1/go.mod h1:def=
`)
	entries, err := GoSumResolver{}.Parse(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := entries["github.com/pkg/errors"]
	if got.Version != "v0.9.1" {
		t.Errorf("Version = %q, want v0.9.1", got.Version)
	}
	if got.Git != "module" {
		t.Errorf("Git = %q, want module (the hash line, not the go.mod line)", got.Git)
	}
}

func TestLocateSiblingFindsAdjacentLockFile(t *testing.T) {
	path, ok := CargoResolver{}.Locate("/repo/Cargo.toml")
	if !ok || path != "/repo/Cargo.lock" {
		t.Errorf("Locate = (%q, %v), want (/repo/Cargo.lock, true)", path, ok)
	}
}
