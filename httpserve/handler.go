package httpserve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/elnormous/contenttype"
	"github.com/google/uuid"
	"github.com/plugrpc/plugrpc-go/auth"
	"github.com/plugrpc/plugrpc-go/internal/dispatch"
	"github.com/plugrpc/plugrpc-go/internal/logctx"
	"github.com/plugrpc/plugrpc-go/plugservice"
)

var _ http.Handler = (*Handler)(nil)

var jsonMediaType = contenttype.NewMediaType("application/json")

const (
	authorizationHeader   = "Authorization"
	wwwAuthenticateHeader = "WWW-Authenticate"
	bearerPrefix          = "Bearer "
)

// genericErrorBody is the fixed body for unexpected pipeline failures that
// occur outside the dispatcher's own error handling.
const genericErrorBody = `{"id":null,"error":{"code":-32603,"message":"Internal server error"}}`

// Option configures a Handler.
type Option func(*Handler)

// WithLogger overrides the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// Handler accepts one request envelope per POST body and answers with one
// response envelope. Concurrent connections are handled independently; the
// only state shared across them is the configured bearer token, which is
// read-only after startup.
type Handler struct {
	log  *slog.Logger
	auth auth.Authenticator
	d    *dispatch.Dispatcher
}

// New constructs a Handler over the given capability registry, gated by the
// given authenticator.
func New(svc *plugservice.Service, authenticator auth.Authenticator, opts ...Option) (*Handler, error) {
	if svc == nil {
		return nil, fmt.Errorf("service is required")
	}
	if authenticator == nil {
		return nil, fmt.Errorf("authenticator is required")
	}

	h := &Handler{log: slog.Default(), auth: authenticator}
	for _, opt := range opts {
		opt(h)
	}
	h.log = slog.New(logctx.Handler{Handler: h.log.Handler()})
	h.d = dispatch.New(svc, dispatch.WithLogger(h.log))
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := logctx.WithRequestData(r.Context(), &logctx.RequestData{
		RequestID:  uuid.NewString(),
		Method:     r.Method,
		RemoteAddr: r.RemoteAddr,
		Path:       r.URL.Path,
	})

	defer func() {
		if rec := recover(); rec != nil {
			h.log.ErrorContext(ctx, "http.pipeline.panic", slog.Any("panic", rec))
			writeGenericError(w)
		}
	}()

	h.log.InfoContext(ctx, "http.request.start")

	// Loopback peers are rejected: a co-located host is expected to drive the
	// plugin over the stdio transport, so a local connection here indicates a
	// misrouted client.
	if isLoopback(r.RemoteAddr) {
		h.log.WarnContext(ctx, "origin.check.fail")
		w.WriteHeader(http.StatusForbidden)
		return
	}

	if !h.checkAuthentication(ctx, r, w) {
		return
	}

	if r.Method != http.MethodPost {
		h.log.WarnContext(ctx, "http.method.unsupported")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctype, err := contenttype.GetMediaType(r)
	if err != nil || !ctype.Matches(jsonMediaType) {
		h.log.WarnContext(ctx, "content_type.unsupported")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// The body is buffered in full before the dispatcher runs; truncated or
	// oversized bodies fail here rather than mid-dispatch.
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.log.ErrorContext(ctx, "http.body.read.fail", slog.String("err", err.Error()))
		writeGenericError(w)
		return
	}

	resp := h.d.Handle(ctx, body)

	w.Header().Set("Content-Type", jsonMediaType.String())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(resp); err != nil {
		h.log.ErrorContext(ctx, "http.response.write.fail", slog.String("err", err.Error()))
		return
	}
	h.log.InfoContext(ctx, "http.request.ok", slog.Duration("dur", time.Since(start)))
}

// checkAuthentication enforces the bearer-token gate. It writes the response
// on failure and reports whether the request may proceed.
func (h *Handler) checkAuthentication(ctx context.Context, r *http.Request, w http.ResponseWriter) bool {
	header := r.Header.Get(authorizationHeader)
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		h.log.InfoContext(ctx, "auth.check.missing")
		w.Header().Set(wwwAuthenticateHeader, "Bearer")
		w.WriteHeader(http.StatusUnauthorized)
		return false
	}

	tok := strings.TrimSpace(header[len(bearerPrefix):])
	if err := h.auth.CheckAuthentication(ctx, tok); err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			h.log.InfoContext(ctx, "auth.check.fail")
		} else {
			h.log.ErrorContext(ctx, "auth.check.err", slog.String("err", err.Error()))
		}
		w.Header().Set(wwwAuthenticateHeader, `Bearer error="invalid_token"`)
		w.WriteHeader(http.StatusUnauthorized)
		return false
	}

	h.log.InfoContext(ctx, "auth.check.ok")
	return true
}

// isLoopback reports whether the remote socket address is 127.0.0.1 or ::1.
func isLoopback(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func writeGenericError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", jsonMediaType.String())
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = io.WriteString(w, genericErrorBody)
}
