package registry

import (
	"errors"
	"fmt"
)

// ErrPackageNotFound is the sentinel wrapped by PackageNotFoundError.
var ErrPackageNotFound = errors.New("package not found")

// HTTPError represents a non-2xx HTTP response from a registry.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.URL)
}

func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == 404
}

// PackageNotFoundError is produced for a 404 response (spec §4.5:
// package_not_found{package}). It becomes a per-declaration diagnostic,
// never a global failure.
type PackageNotFoundError struct {
	Ecosystem string
	Package   string
}

func (e *PackageNotFoundError) Error() string {
	return fmt.Sprintf("%s: package %q not found", e.Ecosystem, e.Package)
}

func (e *PackageNotFoundError) Unwrap() error {
	return ErrPackageNotFound
}

// TransportError wraps a network-level failure (spec §4.5:
// registry_error{package, source}). The fetch task logs it and treats the
// latest version as unknown - it never becomes a diagnostic.
type TransportError struct {
	Ecosystem string
	Package   string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: registry request failed for %q: %v", e.Ecosystem, e.Package, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIResponseError wraps a response body that could not be decoded in the
// shape the client expected (spec §4.5: api_response_error{package, source}).
type APIResponseError struct {
	Ecosystem string
	Package   string
	Err       error
}

func (e *APIResponseError) Error() string {
	return fmt.Sprintf("%s: malformed registry response for %q: %v", e.Ecosystem, e.Package, e.Err)
}

func (e *APIResponseError) Unwrap() error {
	return e.Err
}

// RateLimitError is returned when the registry itself rate limits requests.
type RateLimitError struct {
	RetryAfter int // seconds
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %d seconds", e.RetryAfter)
}
