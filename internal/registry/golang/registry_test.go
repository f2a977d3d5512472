package golang

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry"
)

func TestPackage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/github.com/gorilla/mux/@v/list":
			w.Write([]byte("v1.8.0\nv1.7.0\n"))
		case "/github.com/gorilla/mux/@v/v1.8.0.info":
			_ = json.NewEncoder(w).Encode(versionInfo{Version: "v1.8.0", Time: time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC)})
		case "/github.com/gorilla/mux/@v/v1.7.0.info":
			_ = json.NewEncoder(w).Encode(versionInfo{Version: "v1.7.0", Time: time.Date(2022, 6, 1, 12, 0, 0, 0, time.UTC)})
		default:
			w.WriteHeader(404)
		}
	}))
	defer server.Close()

	reg := New(server.URL, nil)
	pkg, err := reg.Package(context.Background(), "github.com/gorilla/mux")
	if err != nil {
		t.Fatalf("Package failed: %v", err)
	}
	if pkg.Name != "github.com/gorilla/mux" {
		t.Errorf("Name = %q", pkg.Name)
	}
	if pkg.RepositoryURL != "https://github.com/gorilla/mux" {
		t.Errorf("RepositoryURL = %q", pkg.RepositoryURL)
	}
	if pkg.LatestStable != "v1.8.0" {
		t.Errorf("LatestStable = %q, want v1.8.0", pkg.LatestStable)
	}
}

func TestVersionsEmptyListIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(""))
	}))
	defer server.Close()

	reg := New(server.URL, nil)
	_, err := reg.Versions(context.Background(), "github.com/nonexistent/pkg")
	if _, ok := err.(*registry.PackageNotFoundError); !ok {
		t.Errorf("error = %T, want *registry.PackageNotFoundError", err)
	}
}

func TestVersionsFallsBackToBareLineOnInfoFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rsc.io/quote/@v/list":
			w.Write([]byte("v1.5.2\n"))
		default:
			w.WriteHeader(404)
		}
	}))
	defer server.Close()

	reg := New(server.URL, nil)
	versions, err := reg.Versions(context.Background(), "rsc.io/quote")
	if err != nil {
		t.Fatalf("Versions failed: %v", err)
	}
	if len(versions) != 1 || versions[0].Number != "v1.5.2" {
		t.Errorf("versions = %+v, want single v1.5.2 entry", versions)
	}
}

func TestEncodeForProxy(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"github.com/gorilla/mux", "github.com/gorilla/mux"},
		{"github.com/Azure/azure-sdk-for-go", "github.com/!azure/azure-sdk-for-go"},
		{"github.com/BurntSushi/toml", "github.com/!burnt!sushi/toml"},
		{"golang.org/x/net", "golang.org/x/net"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := EncodeForProxy(tt.input)
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestDeriveRepoURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"github.com/gorilla/mux", "https://github.com/gorilla/mux"},
		{"github.com/gorilla/mux/subpkg", "https://github.com/gorilla/mux"},
		{"gitlab.com/my/project", "https://gitlab.com/my/project"},
		{"golang.org/x/net", "https://golang.org/x/net"},
		{"rsc.io/quote", "https://rsc.io/quote"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := deriveRepoURL(tt.input)
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSearchIsUnsupported(t *testing.T) {
	reg := New("", nil)
	results, err := reg.Search(context.Background(), "mux", 10)
	if err != nil || results != nil {
		t.Errorf("Search = (%v, %v), want (nil, nil)", results, err)
	}
}

func TestEcosystem(t *testing.T) {
	reg := New("", nil)
	if reg.Ecosystem() != "golang" {
		t.Errorf("Ecosystem() = %q, want golang", reg.Ecosystem())
	}
}
