// Package progress implements the work-done progress reporter (C10): the
// Begin/Report/End lifecycle for one document fetch, plus a best-effort
// finalizer so a reporter dropped without an explicit End never leaves a
// client-visible progress indicator dangling.
package progress

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Sender is the subset of the LSP client the reporter needs: creating a
// work-done token and sending $/progress notifications against it. The
// concrete implementation lives in internal/server, over go.lsp.dev's
// client stub; this interface keeps progress testable without a real
// connection.
type Sender interface {
	CreateWorkDoneProgress(ctx context.Context) (token string, err error)
	ProgressBegin(ctx context.Context, token, title string, total int)
	ProgressReport(ctx context.Context, token string, percent int, message string)
	ProgressEnd(ctx context.Context, token, message string)
}

// Reporter tracks one fetch task's work-done progress token. The zero
// value is not usable; construct with New.
type Reporter struct {
	sender Sender
	logger *zap.Logger

	mu      sync.Mutex
	token   string
	ended   int32
	total   int
	current int
}

// New requests a work-done token from sender and sends Begin. Title is
// shown in the client's progress UI; total is the number of packages the
// fetch task expects to resolve, used to compute the percent on Report.
func New(ctx context.Context, sender Sender, logger *zap.Logger, title string, total int) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Reporter{sender: sender, logger: logger, total: total}

	token, err := sender.CreateWorkDoneProgress(ctx)
	if err != nil {
		logger.Debug("progress token request failed, proceeding without one", zap.Error(err))
		return r
	}
	r.token = token
	sender.ProgressBegin(ctx, token, title, total)

	// A reporter that the caller forgets to End (a panic recovered further
	// up the stack, an early return on an error path) must not leave a
	// dangling "Fetching..." indicator in the client. The finalizer is a
	// backstop, not the primary mechanism - callers should still defer
	// r.End() in the normal path.
	runtime.SetFinalizer(r, func(r *Reporter) { r.End("") })

	return r
}

// Report advances the progress bar to current/total packages fetched.
func (r *Reporter) Report(current int, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.token == "" || atomic.LoadInt32(&r.ended) != 0 {
		return
	}
	r.current = current
	percent := 0
	if r.total > 0 {
		percent = current * 100 / r.total
		if percent > 100 {
			percent = 100
		}
	}
	r.sender.ProgressReport(context.Background(), r.token, percent, message)
}

// End closes the progress token. Safe to call more than once and safe to
// call on a Reporter whose token request failed.
func (r *Reporter) End(message string) {
	if !atomic.CompareAndSwapInt32(&r.ended, 0, 1) {
		return
	}
	r.mu.Lock()
	token := r.token
	r.mu.Unlock()
	if token == "" {
		return
	}
	r.sender.ProgressEnd(context.Background(), token, message)
	runtime.SetFinalizer(r, nil)
}
