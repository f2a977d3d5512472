package httpcache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestCache(opts ...Option) *Cache {
	c := New(opts...)
	// Tests run against loopback addresses the DNS cache can't help with,
	// and circuit breaker backoff would slow down error-path tests.
	c.httpClient.Transport = http.DefaultTransport
	return c
}

func TestCacheCoalescesConcurrentRequests(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		time.Sleep(20 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"v":1}`))
	}))
	defer server.Close()

	c := newTestCache()

	var wg sync.WaitGroup
	results := make([][]byte, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body, err := c.Get(context.Background(), server.URL)
			if err != nil {
				t.Errorf("Get() error: %v", err)
				return
			}
			results[i] = body
		}(i)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&requests); got != 1 {
		t.Errorf("outbound requests = %d, want 1", got)
	}
	for i, r := range results {
		if string(r) != `{"v":1}` {
			t.Errorf("result[%d] = %q", i, r)
		}
	}
}

func TestCacheRevalidatesWithETag(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&requests, 1)
		if n > 1 && r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"v":1}`))
	}))
	defer server.Close()

	c := newTestCache(WithStaleness(0))

	body1, err := c.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("first Get: %v", err)
	}
	body2, err := c.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if string(body1) != string(body2) {
		t.Errorf("revalidated body changed: %q vs %q", body1, body2)
	}
	if requests != 2 {
		t.Errorf("requests = %d, want 2 (initial + revalidation)", requests)
	}
}

func TestCacheServesFreshEntryWithoutRequest(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"v":1}`))
	}))
	defer server.Close()

	c := newTestCache(WithStaleness(time.Minute))

	if _, err := c.Get(context.Background(), server.URL); err != nil {
		t.Fatalf("first Get: %v", err)
	}
	if _, err := c.Get(context.Background(), server.URL); err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1 (second call served from cache)", requests)
	}
}

func TestCacheEvictsOldestByFetchTime(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := newTestCache(WithMaxEntries(5), WithStaleness(time.Minute))

	for i := 0; i < 8; i++ {
		url := server.URL + "/" + string(rune('a'+i))
		if _, err := c.Get(context.Background(), url); err != nil {
			t.Fatalf("Get(%s): %v", url, err)
		}
	}

	if got := c.Len(); got > 5 {
		t.Errorf("cache holds %d entries, want <= 5", got)
	}
}

func TestCacheReturnsNotFoundError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestCache()
	_, err := c.Get(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := err.(*NotFoundError); !ok {
		t.Errorf("error = %T, want *NotFoundError", err)
	}
}
