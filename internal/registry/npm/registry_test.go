package npm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPackage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"_id":         "react",
			"description": "React is a JavaScript library for building user interfaces.",
			"homepage":    "https://reactjs.org/",
			"repository": map[string]string{
				"url": "git+https://github.com/facebook/react.git",
			},
			"dist-tags": map[string]string{"latest": "18.3.1"},
			"versions": map[string]interface{}{
				"18.3.1": map[string]interface{}{"version": "18.3.1"},
			},
			"time": map[string]string{"18.3.1": "2024-04-26T16:09:06.245Z"},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	reg := New(server.URL, nil)
	pkg, err := reg.Package(context.Background(), "react")
	if err != nil {
		t.Fatalf("Package failed: %v", err)
	}
	if pkg.Name != "react" {
		t.Errorf("Name = %q, want react", pkg.Name)
	}
	if pkg.LatestStable != "18.3.1" {
		t.Errorf("LatestStable = %q, want 18.3.1", pkg.LatestStable)
	}
	if pkg.RepositoryURL != "git+https://github.com/facebook/react.git" {
		t.Errorf("RepositoryURL = %q", pkg.RepositoryURL)
	}
}

func TestVersionsMarksDeprecated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"_id": "left-pad",
			"versions": map[string]interface{}{
				"1.0.0": map[string]interface{}{"version": "1.0.0", "deprecated": "use String.prototype.padStart"},
				"1.3.0": map[string]interface{}{"version": "1.3.0"},
			},
			"time": map[string]string{
				"1.0.0": "2016-01-01T00:00:00Z",
				"1.3.0": "2018-01-01T00:00:00Z",
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	reg := New(server.URL, nil)
	versions, err := reg.Versions(context.Background(), "left-pad")
	if err != nil {
		t.Fatalf("Versions failed: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("len(versions) = %d, want 2", len(versions))
	}
	if versions[0].Number != "1.3.0" {
		t.Errorf("versions[0].Number = %q, want 1.3.0 (newest first)", versions[0].Number)
	}
	var sawDeprecated bool
	for _, v := range versions {
		if v.Number == "1.0.0" && v.Deprecated {
			sawDeprecated = true
		}
	}
	if !sawDeprecated {
		t.Error("expected 1.0.0 to be marked deprecated")
	}
}

func TestEcosystem(t *testing.T) {
	reg := New("", nil)
	if reg.Ecosystem() != "npm" {
		t.Errorf("Ecosystem() = %q, want npm", reg.Ecosystem())
	}
}
