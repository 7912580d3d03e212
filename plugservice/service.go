package plugservice

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotImplemented is the cause reported by capabilities that have no
// meaningful default and were not overridden by the plugin.
var ErrNotImplemented = errors.New("not implemented")

// Per-capability override signatures. Failure is signaled by returning an
// error, never by a sentinel value.
type (
	HealthFunc                func(ctx context.Context) (HealthResult, error)
	KernelStartFunc           func(ctx context.Context, kernel string) (KernelStartResult, error)
	KernelStopFunc            func(ctx context.Context, instance string) error
	KernelInfoFunc            func(ctx context.Context, instance string) (KernelInfo, error)
	KernelPackagesFunc        func(ctx context.Context, instance string) ([]string, error)
	KernelExecuteFunc         func(ctx context.Context, code string, instance string) (ExecuteResult, error)
	KernelEvaluateFunc        func(ctx context.Context, code string, instance string) (EvaluateResult, error)
	KernelListFunc            func(ctx context.Context, instance string) ([]Variable, error)
	KernelGetFunc             func(ctx context.Context, name string, instance string) (any, error)
	KernelSetFunc             func(ctx context.Context, name string, value any, instance string) error
	KernelRemoveFunc          func(ctx context.Context, name string, instance string) error
	AssistantSystemPromptFunc func(ctx context.Context, task Task, options TaskOptions, assistant string) (string, error)
	AssistantPerformTaskFunc  func(ctx context.Context, task Task, options TaskOptions, assistant string) (any, error)
)

// Option configures a Service.
type Option func(*Service)

// Service is the composed capability registry backing one plugin process.
// Each capability resolves to the plugin's override when present and to the
// documented default otherwise. A Service is safe for concurrent use as long
// as the overrides themselves are.
type Service struct {
	health                HealthFunc
	kernelStart           KernelStartFunc
	kernelStop            KernelStopFunc
	kernelInfo            KernelInfoFunc
	kernelPackages        KernelPackagesFunc
	kernelExecute         KernelExecuteFunc
	kernelEvaluate        KernelEvaluateFunc
	kernelList            KernelListFunc
	kernelGet             KernelGetFunc
	kernelSet             KernelSetFunc
	kernelRemove          KernelRemoveFunc
	assistantSystemPrompt AssistantSystemPromptFunc
	assistantPerformTask  AssistantPerformTaskFunc
}

// NewService builds a Service by overlaying the supplied overrides onto the
// default behaviors.
func NewService(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithHealth overrides the health capability.
func WithHealth(fn HealthFunc) Option {
	return func(s *Service) { s.health = fn }
}

// WithKernelStart overrides kernel instance creation. Plugins that manage
// distinct instance state should override this to mint real instance names.
func WithKernelStart(fn KernelStartFunc) Option {
	return func(s *Service) { s.kernelStart = fn }
}

// WithKernelStop overrides kernel instance teardown.
func WithKernelStop(fn KernelStopFunc) Option {
	return func(s *Service) { s.kernelStop = fn }
}

// WithKernelInfo overrides the kernel info capability. Any plugin that
// provides a kernel must supply this.
func WithKernelInfo(fn KernelInfoFunc) Option {
	return func(s *Service) { s.kernelInfo = fn }
}

// WithKernelPackages overrides the package listing capability.
func WithKernelPackages(fn KernelPackagesFunc) Option {
	return func(s *Service) { s.kernelPackages = fn }
}

// WithKernelExecute overrides code execution.
func WithKernelExecute(fn KernelExecuteFunc) Option {
	return func(s *Service) { s.kernelExecute = fn }
}

// WithKernelEvaluate overrides expression evaluation.
func WithKernelEvaluate(fn KernelEvaluateFunc) Option {
	return func(s *Service) { s.kernelEvaluate = fn }
}

// WithKernelList overrides variable enumeration.
func WithKernelList(fn KernelListFunc) Option {
	return func(s *Service) { s.kernelList = fn }
}

// WithKernelGet overrides variable retrieval.
func WithKernelGet(fn KernelGetFunc) Option {
	return func(s *Service) { s.kernelGet = fn }
}

// WithKernelSet overrides variable assignment.
func WithKernelSet(fn KernelSetFunc) Option {
	return func(s *Service) { s.kernelSet = fn }
}

// WithKernelRemove overrides variable removal.
func WithKernelRemove(fn KernelRemoveFunc) Option {
	return func(s *Service) { s.kernelRemove = fn }
}

// WithAssistantSystemPrompt overrides system prompt rendering.
func WithAssistantSystemPrompt(fn AssistantSystemPromptFunc) Option {
	return func(s *Service) { s.assistantSystemPrompt = fn }
}

// WithAssistantPerformTask overrides task execution. Any plugin that
// provides an assistant must supply this.
func WithAssistantPerformTask(fn AssistantPerformTaskFunc) Option {
	return func(s *Service) { s.assistantPerformTask = fn }
}

// Health reports liveness. Default: current time plus status "OK".
func (s *Service) Health(ctx context.Context) (HealthResult, error) {
	if s.health != nil {
		return s.health(ctx)
	}
	return HealthResult{Timestamp: time.Now().UnixMilli(), Status: "OK"}, nil
}

// KernelStart creates a kernel instance. Default: the kernel name doubles as
// the instance name.
func (s *Service) KernelStart(ctx context.Context, kernel string) (KernelStartResult, error) {
	if s.kernelStart != nil {
		return s.kernelStart(ctx, kernel)
	}
	return KernelStartResult{Instance: kernel}, nil
}

// KernelStop retires a kernel instance. Default: no-op.
func (s *Service) KernelStop(ctx context.Context, instance string) error {
	if s.kernelStop != nil {
		return s.kernelStop(ctx, instance)
	}
	return nil
}

// KernelInfo describes the kernel backing an instance. There is no sensible
// generic answer, so the default fails.
func (s *Service) KernelInfo(ctx context.Context, instance string) (KernelInfo, error) {
	if s.kernelInfo != nil {
		return s.kernelInfo(ctx, instance)
	}
	return KernelInfo{}, fmt.Errorf("kernelInfo must be overridden by the plugin: %w", ErrNotImplemented)
}

// KernelPackages lists packages available to an instance. Default: empty.
func (s *Service) KernelPackages(ctx context.Context, instance string) ([]string, error) {
	if s.kernelPackages != nil {
		return s.kernelPackages(ctx, instance)
	}
	return []string{}, nil
}

// KernelExecute runs a block of code in an instance. Default: no outputs.
func (s *Service) KernelExecute(ctx context.Context, code string, instance string) (ExecuteResult, error) {
	if s.kernelExecute != nil {
		return s.kernelExecute(ctx, code, instance)
	}
	return ExecuteResult{Outputs: []any{}, Messages: []any{}}, nil
}

// KernelEvaluate evaluates a single expression in an instance. Default: no output.
func (s *Service) KernelEvaluate(ctx context.Context, code string, instance string) (EvaluateResult, error) {
	if s.kernelEvaluate != nil {
		return s.kernelEvaluate(ctx, code, instance)
	}
	return EvaluateResult{Output: []any{}, Messages: []any{}}, nil
}

// KernelList enumerates an instance's variables. Default: empty.
func (s *Service) KernelList(ctx context.Context, instance string) ([]Variable, error) {
	if s.kernelList != nil {
		return s.kernelList(ctx, instance)
	}
	return []Variable{}, nil
}

// KernelGet retrieves a variable. Default: nil, the not-found sentinel.
func (s *Service) KernelGet(ctx context.Context, name string, instance string) (any, error) {
	if s.kernelGet != nil {
		return s.kernelGet(ctx, name, instance)
	}
	return nil, nil
}

// KernelSet assigns a variable. Default: no-op.
func (s *Service) KernelSet(ctx context.Context, name string, value any, instance string) error {
	if s.kernelSet != nil {
		return s.kernelSet(ctx, name, value, instance)
	}
	return nil
}

// KernelRemove deletes a variable. Default: no-op.
func (s *Service) KernelRemove(ctx context.Context, name string, instance string) error {
	if s.kernelRemove != nil {
		return s.kernelRemove(ctx, name, instance)
	}
	return nil
}

// AssistantSystemPrompt renders the system prompt for a task. Default: empty.
func (s *Service) AssistantSystemPrompt(ctx context.Context, task Task, options TaskOptions, assistant string) (string, error) {
	if s.assistantSystemPrompt != nil {
		return s.assistantSystemPrompt(ctx, task, options, assistant)
	}
	return "", nil
}

// AssistantPerformTask executes an assistant task. There is no sensible
// generic answer, so the default fails.
func (s *Service) AssistantPerformTask(ctx context.Context, task Task, options TaskOptions, assistant string) (any, error) {
	if s.assistantPerformTask != nil {
		return s.assistantPerformTask(ctx, task, options, assistant)
	}
	return nil, fmt.Errorf("assistantPerformTask must be implemented by the plugin: %w", ErrNotImplemented)
}
