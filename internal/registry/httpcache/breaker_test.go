package httpcache

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBreakingTransportTripsAfterThreshold(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	transport := newBreakingTransport(http.DefaultTransport)
	client := &http.Client{Transport: transport}

	for i := 0; i < 5; i++ {
		req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
		_, _ = client.Do(req)
	}

	states := transport.BreakerStates()
	host := hostOfURL(t, server.URL)
	if states[host] != "open" {
		t.Errorf("breaker state for %s = %q, want open after 5 consecutive failures", host, states[host])
	}
}

func hostOfURL(t *testing.T, rawURL string) string {
	t.Helper()
	r, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	return r.URL.Host
}
