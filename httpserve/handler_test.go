package httpserve_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/plugrpc/plugrpc-go/auth"
	"github.com/plugrpc/plugrpc-go/httpserve"
	"github.com/plugrpc/plugrpc-go/plugservice"
)

const testToken = "test-secret"

func mustHandler(t *testing.T, svc *plugservice.Service) *httpserve.Handler {
	t.Helper()
	h, err := httpserve.New(svc, auth.NewStaticToken(testToken),
		httpserve.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h
}

type postOptions struct {
	method      string
	contentType string
	authz       string
	remoteAddr  string
}

func doRequest(t *testing.T, h *httpserve.Handler, body string, mod func(*postOptions)) *httptest.ResponseRecorder {
	t.Helper()

	opts := postOptions{
		method:      "POST",
		contentType: "application/json",
		authz:       "Bearer " + testToken,
		// httptest defaults to a TEST-NET peer address, which the origin
		// check admits; keep that explicit here.
		remoteAddr: "192.0.2.1:1234",
	}
	if mod != nil {
		mod(&opts)
	}

	req := httptest.NewRequest(opts.method, "http://plugin.example/", strings.NewReader(body))
	req.RemoteAddr = opts.remoteAddr
	if opts.contentType != "" {
		req.Header.Set("Content-Type", opts.contentType)
	}
	if opts.authz != "" {
		req.Header.Set("Authorization", opts.authz)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestOriginCheck(t *testing.T) {
	h := mustHandler(t, plugservice.NewService())

	t.Run("LoopbackPeersAreRejected", func(t *testing.T) {
		for _, addr := range []string{"127.0.0.1:9999", "[::1]:9999"} {
			rec := doRequest(t, h, `{"id":"1","method":"health","params":{}}`, func(o *postOptions) {
				o.remoteAddr = addr
			})
			if rec.Code != 403 {
				t.Fatalf("remote %s: want 403, got %d", addr, rec.Code)
			}
		}
	})

	t.Run("OriginCheckPrecedesAuth", func(t *testing.T) {
		rec := doRequest(t, h, ``, func(o *postOptions) {
			o.remoteAddr = "127.0.0.1:9999"
			o.authz = ""
		})
		if rec.Code != 403 {
			t.Fatalf("want 403, got %d", rec.Code)
		}
	})
}

func TestAuthentication(t *testing.T) {
	h := mustHandler(t, plugservice.NewService())

	t.Run("MissingHeader", func(t *testing.T) {
		rec := doRequest(t, h, `{"id":"1","method":"health","params":{}}`, func(o *postOptions) {
			o.authz = ""
		})
		if rec.Code != 401 {
			t.Fatalf("want 401, got %d", rec.Code)
		}
		if rec.Header().Get("WWW-Authenticate") == "" {
			t.Fatalf("expected a bearer challenge")
		}
	})

	t.Run("WrongToken", func(t *testing.T) {
		rec := doRequest(t, h, `{"id":"1","method":"health","params":{}}`, func(o *postOptions) {
			o.authz = "Bearer wrong"
		})
		if rec.Code != 401 {
			t.Fatalf("want 401, got %d", rec.Code)
		}
	})

	t.Run("NonBearerScheme", func(t *testing.T) {
		rec := doRequest(t, h, `{"id":"1","method":"health","params":{}}`, func(o *postOptions) {
			o.authz = "Basic dXNlcjpwdw=="
		})
		if rec.Code != 401 {
			t.Fatalf("want 401, got %d", rec.Code)
		}
	})

	t.Run("BadCredentialsNeverReachDispatch", func(t *testing.T) {
		dispatched := false
		svc := plugservice.NewService(
			plugservice.WithHealth(func(ctx context.Context) (plugservice.HealthResult, error) {
				dispatched = true
				return plugservice.HealthResult{Status: "OK"}, nil
			}),
		)
		rec := doRequest(t, mustHandler(t, svc), `{"id":"1","method":"health","params":{}}`, func(o *postOptions) {
			o.authz = "Bearer wrong"
		})
		if rec.Code != 401 {
			t.Fatalf("want 401, got %d", rec.Code)
		}
		if dispatched {
			t.Fatalf("request with bad credentials reached the dispatcher")
		}
	})
}

func TestMethodAndContentType(t *testing.T) {
	h := mustHandler(t, plugservice.NewService())

	t.Run("NonPOST", func(t *testing.T) {
		rec := doRequest(t, h, ``, func(o *postOptions) { o.method = "GET" })
		if rec.Code != 405 {
			t.Fatalf("want 405, got %d", rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Fatalf("expected empty body, got %q", rec.Body.String())
		}
	})

	t.Run("NonJSONContentType", func(t *testing.T) {
		rec := doRequest(t, h, `{"id":"1","method":"health","params":{}}`, func(o *postOptions) {
			o.contentType = "text/plain"
		})
		if rec.Code != 405 {
			t.Fatalf("want 405, got %d", rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Fatalf("expected empty body, got %q", rec.Body.String())
		}
	})

	t.Run("JSONWithCharsetAccepted", func(t *testing.T) {
		rec := doRequest(t, h, `{"id":"1","method":"health","params":{}}`, func(o *postOptions) {
			o.contentType = "application/json; charset=utf-8"
		})
		if rec.Code != 200 {
			t.Fatalf("want 200, got %d", rec.Code)
		}
	})
}

func TestDispatchOverHTTP(t *testing.T) {
	h := mustHandler(t, plugservice.NewService())

	t.Run("MethodNotFoundIsStill200", func(t *testing.T) {
		rec := doRequest(t, h, `{"id":"3","method":"nope","params":{}}`, nil)
		if rec.Code != 200 {
			t.Fatalf("want 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type %q", ct)
		}
		want := "{\"id\":\"3\",\"error\":{\"code\":-32601,\"message\":\"Method `nope` not found\"}}"
		if rec.Body.String() != want {
			t.Fatalf("unexpected body:\nwant %s\ngot  %s", want, rec.Body.String())
		}
	})

	t.Run("SuccessBodyIsDispatcherOutputVerbatim", func(t *testing.T) {
		rec := doRequest(t, h, `{"id":"2","method":"kernelExecute","params":{"code":"1+1","instance":"k1"}}`, nil)
		if rec.Code != 200 {
			t.Fatalf("want 200, got %d", rec.Code)
		}
		if want := `{"id":"2","result":{"outputs":[],"messages":[]}}`; rec.Body.String() != want {
			t.Fatalf("unexpected body:\nwant %s\ngot  %s", want, rec.Body.String())
		}
	})

	t.Run("MalformedBodyIsParseErrorEnvelope", func(t *testing.T) {
		rec := doRequest(t, h, `{"id":`, nil)
		if rec.Code != 200 {
			t.Fatalf("want 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"code":-32700`) {
			t.Fatalf("expected parse error envelope, got %s", rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), `"id":null`) {
			t.Fatalf("expected null id, got %s", rec.Body.String())
		}
	})

	t.Run("PanickingCapabilityYields500GenericBody", func(t *testing.T) {
		svc := plugservice.NewService(
			plugservice.WithHealth(func(ctx context.Context) (plugservice.HealthResult, error) {
				panic("unexpected")
			}),
		)
		rec := doRequest(t, mustHandler(t, svc), `{"id":"1","method":"health","params":{}}`, nil)
		if rec.Code != 500 {
			t.Fatalf("want 500, got %d", rec.Code)
		}
		want := `{"id":null,"error":{"code":-32603,"message":"Internal server error"}}`
		if rec.Body.String() != want {
			t.Fatalf("unexpected body:\nwant %s\ngot  %s", want, rec.Body.String())
		}
	})
}
