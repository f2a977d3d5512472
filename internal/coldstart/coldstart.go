// Package coldstart implements the cold-start loader (C8): materializing
// a document from disk when the editor queries it without ever having
// sent a didOpen, subject to the safety limits spec §4.8 requires.
package coldstart

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.lsp.dev/uri"
	"go.uber.org/zap"
)

const (
	// maxSize is the hard reject threshold (spec §4.8).
	maxSize = 10 * 1024 * 1024
	// warnSize logs a warning above this size but still loads the file.
	warnSize = 1 * 1024 * 1024
)

// TooLargeError is returned for a file exceeding maxSize.
type TooLargeError struct {
	Path string
	Size int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("%s: %d bytes exceeds the 10 MB cold-start limit", e.Path, e.Size)
}

// bucket is a simple per-URI token bucket: one token refills every
// interval, capacity 1, matching spec §4.8's "rate-limit cold-start
// attempts per URI" requirement without needing a burst allowance bigger
// than one in-flight load per document.
type bucket struct {
	mu       sync.Mutex
	last     time.Time
	interval time.Duration
}

func (b *bucket) allow(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if now.Sub(b.last) < b.interval {
		return false
	}
	b.last = now
	return true
}

// Loader implements spec §4.8's ensure_document_loaded.
type Loader struct {
	logger *zap.Logger

	mu      sync.Mutex
	buckets map[string]*bucket
	rate    time.Duration
}

// New constructs a Loader. rate is the minimum interval between
// cold-start attempts for the same URI (spec §6's cold_start.rate_limit_ms,
// default 100ms = 10/sec).
func New(logger *zap.Logger, rate time.Duration) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rate <= 0 {
		rate = 100 * time.Millisecond
	}
	return &Loader{logger: logger, buckets: make(map[string]*bucket), rate: rate}
}

// Document is the narrow document-store contract the loader depends on -
// satisfied by *document.Store. Kept to these two methods so this package
// does not import internal/document and create a cycle.
type Document interface {
	Has(docURI string) bool
	OnOpen(ctx context.Context, docURI string, content string)
}

// EnsureLoaded implements spec §4.8. It is a no-op if the document is
// already tracked. Otherwise it refuses non-file URIs, enforces the size
// limits, reads the file as UTF-8, and runs the synchronous on_open path
// (which itself spawns the usual fetch task).
func (l *Loader) EnsureLoaded(ctx context.Context, docs Document, docURI string) error {
	if docs.Has(docURI) {
		return nil
	}

	if !l.allow(docURI) {
		return fmt.Errorf("cold start rate limit exceeded for %s", docURI)
	}

	path, err := filename(docURI)
	if err != nil {
		return nil // non-file URI: silent empty result, per spec §4.8
	}

	info, err := os.Stat(path)
	if err != nil {
		l.logger.Debug("cold start stat failed", zap.String("path", path), zap.Error(err))
		return nil // silent empty result; logged at debug
	}
	if info.IsDir() {
		return nil
	}
	if info.Size() > maxSize {
		return &TooLargeError{Path: path, Size: info.Size()}
	}
	if info.Size() > warnSize {
		l.logger.Warn("cold start loading large manifest", zap.String("path", path), zap.Int64("bytes", info.Size()))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			l.logger.Warn("cold start permission denied", zap.String("path", path), zap.Error(err))
		} else {
			l.logger.Debug("cold start read failed", zap.String("path", path), zap.Error(err))
		}
		return nil
	}
	if !isValidUTF8(content) {
		return fmt.Errorf("cold start: %s is not valid UTF-8", path)
	}

	docs.OnOpen(ctx, docURI, string(content))
	return nil
}

func (l *Loader) allow(docURI string) bool {
	l.mu.Lock()
	b, ok := l.buckets[docURI]
	if !ok {
		b = &bucket{interval: l.rate}
		l.buckets[docURI] = b
	}
	l.mu.Unlock()
	return b.allow(time.Now())
}

func filename(docURI string) (fn string, err error) {
	if !strings.HasPrefix(docURI, "file://") {
		return "", fmt.Errorf("not a file URI: %s", docURI)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid URI %s: %v", docURI, r)
		}
	}()
	return uri.URI(docURI).Filename(), nil
}

func isValidUTF8(b []byte) bool {
	return utf8.Valid(b)
}
