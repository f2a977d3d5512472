package pypi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPackage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pypi/flask/json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(404)
			return
		}
		resp := packageResponse{
			Info: infoBlock{
				Name:        "Flask",
				Summary:     "A simple framework for building complex web applications.",
				Version:     "3.0.3",
				ProjectURLs: map[string]string{"Source": "https://github.com/pallets/flask"},
			},
			Releases: map[string][]releaseFile{
				"3.0.3": {{UploadTimeISO8601: "2024-04-15T00:00:00Z"}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	reg := New(server.URL, nil)
	pkg, err := reg.Package(context.Background(), "Flask")
	if err != nil {
		t.Fatalf("Package failed: %v", err)
	}
	if pkg.RepositoryURL != "https://github.com/pallets/flask" {
		t.Errorf("RepositoryURL = %q", pkg.RepositoryURL)
	}
	if pkg.LatestStable != "3.0.3" {
		t.Errorf("LatestStable = %q, want 3.0.3", pkg.LatestStable)
	}
}

func TestVersionsMarksYankedAndPrerelease(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := packageResponse{
			Info: infoBlock{Name: "example"},
			Releases: map[string][]releaseFile{
				"1.0.0":   {{UploadTimeISO8601: "2024-01-01T00:00:00Z"}},
				"1.1.0a1": {{UploadTimeISO8601: "2024-02-01T00:00:00Z"}},
				"0.9.0":   {{UploadTimeISO8601: "2023-01-01T00:00:00Z", Yanked: true}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	reg := New(server.URL, nil)
	versions, err := reg.Versions(context.Background(), "example")
	if err != nil {
		t.Fatalf("Versions failed: %v", err)
	}
	found := map[string]bool{}
	for _, v := range versions {
		found[v.Number] = true
		if v.Number == "1.1.0a1" && !v.Prerelease {
			t.Error("1.1.0a1 should be marked prerelease")
		}
		if v.Number == "0.9.0" && !v.Yanked {
			t.Error("0.9.0 should be marked yanked")
		}
	}
	if len(found) != 3 {
		t.Errorf("found %d distinct versions, want 3", len(found))
	}
}

func TestEcosystem(t *testing.T) {
	reg := New("", nil)
	if reg.Ecosystem() != "pypi" {
		t.Errorf("Ecosystem() = %q, want pypi", reg.Ecosystem())
	}
}
