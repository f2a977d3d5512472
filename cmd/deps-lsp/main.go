// Command deps-lsp is the stdio entrypoint for the dependency-manifest
// language server. Argument parsing, process lifecycle, and the raw
// JSON-RPC framing are treated as given collaborators per the spec; this
// file only wires them to internal/server.
package main

import (
	"context"
	"flag"
	"os"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/server"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger := newLogger(*debug)
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("deps-lsp exited with error", zap.Error(err))
	}
}

func newLogger(debug bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	// The editor reads protocol frames from stdout; logs must never land
	// there, so they go to stderr regardless of build mode.
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger
}

func run(logger *zap.Logger) error {
	stream := jsonrpc2.NewStream(stdrwc{})
	conn := jsonrpc2.NewConn(stream)

	client := protocol.ClientDispatcher(conn, logger.Named("client"))
	ctx := protocol.WithClient(context.Background(), client)

	srv := server.New(client, logger.Named("server"))
	conn.Go(ctx, protocol.ServerHandler(srv, jsonrpc2.MethodNotFoundHandler))

	<-conn.Done()
	return conn.Err()
}

// stdrwc adapts os.Stdin/os.Stdout to io.ReadWriteCloser for jsonrpc2's
// stream constructor.
type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdrwc) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}
