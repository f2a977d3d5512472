package httpcache

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
)

// ErrCircuitOpen is returned when a host's breaker has tripped and is not
// yet ready to admit a probe request.
type ErrCircuitOpen struct {
	Host string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for host %s", e.Host)
}

// breakingTransport wraps an http.RoundTripper with one circuit breaker per
// destination host, so a downed registry stops accumulating timeouts across
// every in-flight dependency lookup instead of failing each one slowly.
type breakingTransport struct {
	next     http.RoundTripper
	breakers map[string]*circuit.Breaker
	mu       sync.RWMutex
}

// newBreakingTransport wraps next with per-host circuit breaking. Trips
// once the breaker has counted 5 failures in its rolling window (a success
// in between does not reset the count); backs off from 30s up to 5m
// between probes.
func newBreakingTransport(next http.RoundTripper) *breakingTransport {
	return &breakingTransport{
		next:     next,
		breakers: make(map[string]*circuit.Breaker),
	}
}

func (t *breakingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	host := req.URL.Host
	breaker := t.breaker(host)

	if !breaker.Ready() {
		return nil, &ErrCircuitOpen{Host: host}
	}

	var resp *http.Response
	err := breaker.Call(func() error {
		var callErr error
		resp, callErr = t.next.RoundTrip(req)
		if callErr == nil && resp.StatusCode >= 500 {
			callErr = fmt.Errorf("upstream %s returned HTTP %d", host, resp.StatusCode)
		}
		return callErr
	}, 0)

	if err != nil && resp == nil {
		return nil, err
	}
	return resp, nil
}

func (t *breakingTransport) breaker(host string) *circuit.Breaker {
	t.mu.RLock()
	b, ok := t.breakers[host]
	t.mu.RUnlock()
	if ok {
		return b
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if b, ok := t.breakers[host]; ok {
		return b
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	b = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(5),
	})
	t.breakers[host] = b
	return b
}

// BreakerStates reports open/closed per host, for diagnostics logging.
func (t *breakingTransport) BreakerStates() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	states := make(map[string]string, len(t.breakers))
	for host, b := range t.breakers {
		if b.Tripped() {
			states[host] = "open"
		} else {
			states[host] = "closed"
		}
	}
	return states
}
