package plugrpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/plugrpc/plugrpc-go/auth"
	"github.com/plugrpc/plugrpc-go/httpserve"
	"github.com/plugrpc/plugrpc-go/plugservice"
	"github.com/plugrpc/plugrpc-go/stdio"
)

const shutdownGrace = 5 * time.Second

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	logger  *slog.Logger
	stdioIn io.Reader
	stdioOu io.Writer
}

// WithLogger overrides the logger used by the selected transport.
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStdioIO overrides the streams used by the stdio transport. Intended
// for embedding and tests; the default is os.Stdin/os.Stdout.
func WithStdioIO(r io.Reader, w io.Writer) Option {
	return func(c *runConfig) {
		c.stdioIn = r
		c.stdioOu = w
	}
}

// Run starts the transport selected by cfg and blocks until the channel is
// exhausted (stdio EOF), the context is canceled, or the server fails.
func Run(ctx context.Context, svc *plugservice.Service, cfg Config, opts ...Option) error {
	if svc == nil {
		return fmt.Errorf("service is required")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	rc := &runConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(rc)
	}

	switch cfg.Transport {
	case TransportStdio:
		sopts := []stdio.Option{stdio.WithLogger(rc.logger)}
		if rc.stdioIn != nil || rc.stdioOu != nil {
			sopts = append(sopts, stdio.WithIO(rc.stdioIn, rc.stdioOu))
		}
		return stdio.NewHandler(svc, sopts...).Serve(ctx)

	case TransportHTTP:
		h, err := httpserve.New(svc, auth.NewStaticToken(cfg.Token), httpserve.WithLogger(rc.logger))
		if err != nil {
			return err
		}
		srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Port), Handler: h}

		errCh := make(chan error, 1)
		go func() { errCh <- srv.ListenAndServe() }()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("http shutdown: %w", err)
			}
			return ctx.Err()
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("http serve: %w", err)
		}

	default:
		return fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}
