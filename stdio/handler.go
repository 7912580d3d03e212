package stdio

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/plugrpc/plugrpc-go/internal/dispatch"
	"github.com/plugrpc/plugrpc-go/plugservice"
)

// maxLineBytes bounds a single request line. Hosts shipping larger payloads
// should use the HTTP transport.
const maxLineBytes = 16 * 1024 * 1024

// Handler is a single-connection line transport that reads one request
// envelope per input line and writes one response envelope per output line.
// By default it uses os.Stdin and os.Stdout.
//
// The handler is transport-only; all protocol semantics live in the
// dispatcher and the capability registry.
type Handler struct {
	r io.Reader
	w io.Writer
	l *slog.Logger
	d *dispatch.Dispatcher
}

// NewHandler constructs a stdio Handler with defaults and applies options.
func NewHandler(svc *plugservice.Service, opts ...Option) *Handler {
	h := &Handler{
		r: os.Stdin,
		w: os.Stdout,
		l: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.d = dispatch.New(svc, dispatch.WithLogger(h.l))
	return h
}

// Serve runs the line loop until EOF on the reader or the context is
// canceled. It is safe to call at most once per Handler. Every line that
// reaches the dispatcher produces exactly one response line, including
// malformed input; Serve itself only fails on I/O errors.
func (h *Handler) Serve(ctx context.Context) error {
	scanner := bufio.NewScanner(h.r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		resp := h.d.Handle(ctx, line)
		if _, err := h.w.Write(append(resp, '\n')); err != nil {
			return fmt.Errorf("failed to write response line: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read request line: %w", err)
	}
	h.l.InfoContext(ctx, "stdio.serve.eof")
	return nil
}
