package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDefaultClientUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := DefaultClient()
	_, _ = client.GetBody(context.Background(), server.URL)

	if gotUA != "deps-lsp" {
		t.Errorf("default User-Agent = %q, want %q", gotUA, "deps-lsp")
	}
}

func TestClientWithUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(WithUserAgent("custom-agent/2.0"))
	_, _ = client.GetBody(context.Background(), server.URL)

	if gotUA != "custom-agent/2.0" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "custom-agent/2.0")
	}
}

func TestClientRetriesOn5xxThenSucceeds(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(WithMaxRetries(5))
	client.BaseDelay = 0
	body, err := client.GetBody(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetBody returned error: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("body = %q", body)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestClientReturns404Immediately(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(WithMaxRetries(5))
	client.BaseDelay = 0
	_, err := client.GetBody(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected an error")
	}
	var httpErr *HTTPError
	if !isHTTPError(err, &httpErr) || !httpErr.IsNotFound() {
		t.Fatalf("expected *HTTPError with 404, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on 404)", attempts)
	}
}
