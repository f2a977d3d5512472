package server

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/progress"
)

// clientSender adapts protocol.Client to progress.Sender (C10), the
// work-done progress token lifecycle spec §4.10 and §6 describe.
type clientSender struct {
	client  protocol.Client
	logger  *zap.Logger
	counter uint64
}

var _ progress.Sender = (*clientSender)(nil)

func newClientSender(client protocol.Client, logger *zap.Logger) *clientSender {
	return &clientSender{client: client, logger: logger}
}

func (s *clientSender) CreateWorkDoneProgress(ctx context.Context) (string, error) {
	token := fmt.Sprintf("deps-lsp-%d", atomic.AddUint64(&s.counter, 1))
	if err := s.client.CreateWorkDoneProgress(ctx, &protocol.WorkDoneProgressCreateParams{
		Token: protocol.ProgressToken(token),
	}); err != nil {
		return "", err
	}
	return token, nil
}

func (s *clientSender) ProgressBegin(ctx context.Context, token, title string, total int) {
	s.send(ctx, token, &protocol.WorkDoneProgressBegin{
		Kind:  "begin",
		Title: title,
	})
}

func (s *clientSender) ProgressReport(ctx context.Context, token string, percent int, message string) {
	s.send(ctx, token, &protocol.WorkDoneProgressReport{
		Kind:       "report",
		Message:    message,
		Percentage: uint32(percent),
	})
}

func (s *clientSender) ProgressEnd(ctx context.Context, token, message string) {
	s.send(ctx, token, &protocol.WorkDoneProgressEnd{
		Kind:    "end",
		Message: message,
	})
}

func (s *clientSender) send(ctx context.Context, token string, value interface{}) {
	err := s.client.Progress(ctx, &protocol.ProgressParams{
		Token: protocol.ProgressToken(token),
		Value: value,
	})
	if err != nil && s.logger != nil {
		s.logger.Debug("progress notification failed", zap.String("token", token), zap.Error(err))
	}
}
