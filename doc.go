// Package plugrpc is a small RPC runtime that lets an external host process
// drive a plugin's kernel and assistant capabilities over one of two
// transports: newline-delimited JSON on stdio, or an authenticated HTTP
// endpoint.
//
// A plugin builds a plugservice.Service from per-capability overrides and
// hands it to Run together with the transport configuration:
//
//	svc := plugservice.NewService(
//	    plugservice.WithKernelInfo(info),
//	    plugservice.WithKernelExecute(exec),
//	)
//	cfg, _ := plugrpc.ConfigFromEnv()
//	if err := plugrpc.Run(ctx, svc, cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// How the host discovers, launches, and supervises the plugin process is out
// of scope; the runtime only consumes the resulting configuration.
package plugrpc
