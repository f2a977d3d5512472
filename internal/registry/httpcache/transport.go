package httpcache

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/dnscache"
)

// NewTransport returns an http.RoundTripper that resolves hosts through a
// DNS cache refreshed every 5 minutes, so hammering a registry host across
// many dependency lookups does not also hammer its resolver.
func NewTransport() http.RoundTripper {
	resolver := &dnscache.Resolver{}
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			resolver.Refresh(true)
		}
	}()

	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	return &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			ips, err := resolver.LookupHost(ctx, host)
			if err != nil {
				return nil, err
			}
			var lastErr error
			for _, ip := range ips {
				conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
				if err == nil {
					return conn, nil
				}
				lastErr = err
			}
			return nil, fmt.Errorf("failed to dial any resolved IP for %s: %w", host, lastErr)
		},
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
