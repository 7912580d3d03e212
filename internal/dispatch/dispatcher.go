// Package dispatch implements the request/response core of the plugin
// runtime: it decodes request envelopes, resolves wire method names against
// the capability registry, validates and unpacks params, and converts every
// outcome into exactly one response envelope. Handle never fails across its
// own boundary; transports only ever see already-encoded responses.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/plugrpc/plugrpc-go/internal/logctx"
	"github.com/plugrpc/plugrpc-go/internal/wire"
	"github.com/plugrpc/plugrpc-go/plugservice"
	"github.com/xeipuuv/gojsonschema"
)

// method couples a compiled param schema with the capability invocation it
// guards.
type method struct {
	schema *gojsonschema.Schema
	invoke func(ctx context.Context, params json.RawMessage) (any, error)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger overrides the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}

// Dispatcher routes wire method names to capabilities on a Service. The
// method table is closed and built at construction time; unknown names fail
// a single explicit lookup.
type Dispatcher struct {
	svc     *plugservice.Service
	log     *slog.Logger
	methods map[string]method
}

// New builds a Dispatcher over the given capability registry.
func New(svc *plugservice.Service, opts ...Option) *Dispatcher {
	d := &Dispatcher{svc: svc, log: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	d.methods = map[string]method{
		"health": {
			schema: mustParamSchema[healthParams](),
			invoke: func(ctx context.Context, _ json.RawMessage) (any, error) {
				return d.svc.Health(ctx)
			},
		},
		"kernelStart": {
			schema: mustParamSchema[kernelStartParams](),
			invoke: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var p kernelStartParams
				if err := json.Unmarshal(raw, &p); err != nil {
					return nil, err
				}
				return d.svc.KernelStart(ctx, p.Kernel)
			},
		},
		"kernelStop": {
			schema: mustParamSchema[instanceParams](),
			invoke: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var p instanceParams
				if err := json.Unmarshal(raw, &p); err != nil {
					return nil, err
				}
				return nil, d.svc.KernelStop(ctx, p.Instance)
			},
		},
		"kernelInfo": {
			schema: mustParamSchema[instanceParams](),
			invoke: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var p instanceParams
				if err := json.Unmarshal(raw, &p); err != nil {
					return nil, err
				}
				return d.svc.KernelInfo(ctx, p.Instance)
			},
		},
		"kernelPackages": {
			schema: mustParamSchema[instanceParams](),
			invoke: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var p instanceParams
				if err := json.Unmarshal(raw, &p); err != nil {
					return nil, err
				}
				return d.svc.KernelPackages(ctx, p.Instance)
			},
		},
		"kernelExecute": {
			schema: mustParamSchema[codeParams](),
			invoke: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var p codeParams
				if err := json.Unmarshal(raw, &p); err != nil {
					return nil, err
				}
				return d.svc.KernelExecute(ctx, p.Code, p.Instance)
			},
		},
		"kernelEvaluate": {
			schema: mustParamSchema[codeParams](),
			invoke: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var p codeParams
				if err := json.Unmarshal(raw, &p); err != nil {
					return nil, err
				}
				return d.svc.KernelEvaluate(ctx, p.Code, p.Instance)
			},
		},
		"kernelList": {
			schema: mustParamSchema[instanceParams](),
			invoke: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var p instanceParams
				if err := json.Unmarshal(raw, &p); err != nil {
					return nil, err
				}
				return d.svc.KernelList(ctx, p.Instance)
			},
		},
		"kernelGet": {
			schema: mustParamSchema[variableParams](),
			invoke: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var p variableParams
				if err := json.Unmarshal(raw, &p); err != nil {
					return nil, err
				}
				return d.svc.KernelGet(ctx, p.Name, p.Instance)
			},
		},
		"kernelSet": {
			schema: mustParamSchema[variableSetParams](),
			invoke: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var p variableSetParams
				if err := json.Unmarshal(raw, &p); err != nil {
					return nil, err
				}
				return nil, d.svc.KernelSet(ctx, p.Name, p.Value, p.Instance)
			},
		},
		"kernelRemove": {
			schema: mustParamSchema[variableParams](),
			invoke: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var p variableParams
				if err := json.Unmarshal(raw, &p); err != nil {
					return nil, err
				}
				return nil, d.svc.KernelRemove(ctx, p.Name, p.Instance)
			},
		},
		"assistantSystemPrompt": {
			schema: mustParamSchema[assistantParams](),
			invoke: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var p assistantParams
				if err := json.Unmarshal(raw, &p); err != nil {
					return nil, err
				}
				return d.svc.AssistantSystemPrompt(ctx, p.Task, p.Options, p.Assistant)
			},
		},
		"assistantPerformTask": {
			schema: mustParamSchema[assistantParams](),
			invoke: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var p assistantParams
				if err := json.Unmarshal(raw, &p); err != nil {
					return nil, err
				}
				return d.svc.AssistantPerformTask(ctx, p.Task, p.Options, p.Assistant)
			},
		},
	}
	return d
}

// Handle processes one raw request and always returns exactly one encoded
// response. All failure paths are folded into failure envelopes; it never
// panics across its boundary for malformed or unsupported input.
func (d *Dispatcher) Handle(ctx context.Context, raw []byte) wire.Message {
	start := time.Now()

	req, err := wire.DecodeRequest(raw)
	if err != nil {
		d.log.WarnContext(ctx, "rpc.decode.fail", slog.String("err", err.Error()))
		return d.encode(ctx, wire.NewErrorResponse(nil, wire.ErrorCodeParseError, err.Error()))
	}

	ctx = logctx.WithRPCMessage(ctx, &logctx.RPCMessage{Method: req.Method, ID: req.ID.String()})

	m, ok := d.methods[req.Method]
	if !ok {
		d.log.WarnContext(ctx, "rpc.method.miss")
		return d.encode(ctx, wire.NewErrorResponse(req.ID, wire.ErrorCodeMethodNotFound, fmt.Sprintf("Method `%s` not found", req.Method)))
	}

	params := req.Params
	if len(params) == 0 {
		params = json.RawMessage("{}")
	}
	if err := validateParams(m.schema, params); err != nil {
		d.log.WarnContext(ctx, "rpc.params.invalid", slog.String("err", err.Error()))
		return d.encode(ctx, wire.NewErrorResponse(req.ID, wire.ErrorCodeInvalidParams, err.Error()))
	}

	result, err := m.invoke(ctx, params)
	if err != nil {
		d.log.WarnContext(ctx, "rpc.dispatch.fail", slog.String("err", err.Error()), slog.Duration("dur", time.Since(start)))
		return d.encode(ctx, wire.NewErrorResponse(req.ID, wire.ErrorCodeInternalError, err.Error()))
	}

	resp, err := wire.NewResultResponse(req.ID, result)
	if err != nil {
		d.log.ErrorContext(ctx, "rpc.result.marshal.fail", slog.String("err", err.Error()))
		return d.encode(ctx, wire.NewErrorResponse(req.ID, wire.ErrorCodeInternalError, "failed to encode result"))
	}

	d.log.InfoContext(ctx, "rpc.dispatch.ok", slog.Duration("dur", time.Since(start)))
	return d.encode(ctx, resp)
}

// encode renders a response envelope, falling back to a fixed internal error
// body if encoding itself fails.
func (d *Dispatcher) encode(ctx context.Context, resp *wire.Response) wire.Message {
	msg, err := resp.Encode()
	if err != nil {
		d.log.ErrorContext(ctx, "rpc.response.encode.fail", slog.String("err", err.Error()))
		return wire.Message(`{"id":null,"error":{"code":-32603,"message":"Internal server error"}}`)
	}
	return msg
}
