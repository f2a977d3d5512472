package cargo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry"
)

func TestPackage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/crates" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(404)
			return
		}
		if got := r.URL.Query().Get("q"); got != "serde" {
			t.Errorf("q = %q, want serde", got)
		}
		resp := searchResponse{Crates: []crateInfo{{
			Name:          "serde",
			Description:   "A generic serialization/deserialization framework",
			Repository:    "https://github.com/serde-rs/serde",
			Documentation: "https://docs.rs/serde",
			MaxVersion:    "1.0.228",
		}}}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	reg := New(server.URL, nil)
	pkg, err := reg.Package(context.Background(), "serde")
	if err != nil {
		t.Fatalf("Package failed: %v", err)
	}
	if pkg.Name != "serde" {
		t.Errorf("Name = %q, want serde", pkg.Name)
	}
	if pkg.RepositoryURL != "https://github.com/serde-rs/serde" {
		t.Errorf("RepositoryURL = %q", pkg.RepositoryURL)
	}
	if pkg.LatestStable != "1.0.228" {
		t.Errorf("LatestStable = %q, want 1.0.228", pkg.LatestStable)
	}
}

func TestPackageNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := searchResponse{Crates: nil}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	reg := New(server.URL, nil)
	_, err := reg.Package(context.Background(), "nonexistent")
	if _, ok := err.(*registry.PackageNotFoundError); !ok {
		t.Errorf("error = %T, want *registry.PackageNotFoundError", err)
	}
}

func TestVersionsUsesSparseIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/se/rd/serde" {
			t.Errorf("unexpected path: %s, want sparse-index path for serde", r.URL.Path)
			w.WriteHeader(404)
			return
		}
		body := `{"vers":"1.0.228","yanked":false,"features":{}}
{"vers":"1.0.227","yanked":true,"features":{"derive":["serde_derive"]}}
`
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	reg := New(server.URL, nil)
	versions, err := reg.Versions(context.Background(), "serde")
	if err != nil {
		t.Fatalf("Versions failed: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("len(versions) = %d, want 2", len(versions))
	}
	if versions[0].Number != "1.0.228" || versions[0].Yanked {
		t.Errorf("versions[0] = %+v, want 1.0.228 not yanked", versions[0])
	}
	if versions[1].Number != "1.0.227" || !versions[1].Yanked {
		t.Errorf("versions[1] = %+v, want 1.0.227 yanked", versions[1])
	}
	if !versions[1].Features["derive"] {
		t.Errorf("versions[1].Features = %+v, want derive", versions[1].Features)
	}
}

func TestVersionsSortedNewestFirst(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := `{"vers":"1.0.0","yanked":false}
{"vers":"1.2.0","yanked":false}
{"vers":"1.1.0","yanked":false}
`
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	reg := New(server.URL, nil)
	versions, err := reg.Versions(context.Background(), "serde")
	if err != nil {
		t.Fatalf("Versions failed: %v", err)
	}
	got := make([]string, len(versions))
	for i, v := range versions {
		got[i] = v.Number
	}
	want := []string{"1.2.0", "1.1.0", "1.0.0"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestSparseIndexPath(t *testing.T) {
	cases := map[string]string{
		"a":     "1/a",
		"ab":    "2/ab",
		"abc":   "3/a/abc",
		"abcd":  "ab/cd/abcd",
		"Serde": "se/rd/serde",
	}
	for name, want := range cases {
		if got := SparseIndexPath(name); got != want {
			t.Errorf("SparseIndexPath(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestEcosystem(t *testing.T) {
	reg := New("", nil)
	if reg.Ecosystem() != "cargo" {
		t.Errorf("Ecosystem() = %q, want cargo", reg.Ecosystem())
	}
}
