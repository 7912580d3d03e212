// Package plugservice defines the capability contract between the RPC
// runtime and a concrete plugin. A plugin composes a Service from
// per-capability overrides; every capability it does not supply falls back
// to a defined default, so a plugin that contributes nothing still answers
// every method with a well-formed empty result.
//
// Two capabilities have no meaningful generic behavior and fail loudly when
// left at their defaults: KernelInfo and AssistantPerformTask. This converts
// "silently wrong" into an explicit capability-not-supported failure at the
// protocol boundary.
//
// Example:
//
//	svc := plugservice.NewService(
//	    plugservice.WithKernelInfo(func(ctx context.Context, instance string) (plugservice.KernelInfo, error) {
//	        return plugservice.KernelInfo{Name: "echo", Version: "1.0.0"}, nil
//	    }),
//	    plugservice.WithKernelExecute(myExec),
//	)
package plugservice
