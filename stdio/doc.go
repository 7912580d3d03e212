// Package stdio implements the line-oriented transport over stdin/stdout.
// It is intended for plugins embedded as subprocesses of a host, where
// piping newline-delimited JSON is simpler than running an HTTP server.
//
// Characteristics
//
//	Connection model : 1 process <-> 1 host
//	Auth             : none (trusted local channel)
//	Framing          : one JSON request per line in, one JSON response per line out
//
// Each line is handled independently and its response is written as soon as
// it is ready; the input is an inherently sequential stream, so responses
// echo back in request order.
//
// Options allow supplying alternate io.Reader / io.Writer or a custom logger.
//
// Example:
//
//	svc := plugservice.NewService(
//	    plugservice.WithKernelExecute(myExec),
//	)
//	h := stdio.NewHandler(svc)
//	if err := h.Serve(context.Background()); err != nil { log.Fatal(err) }
package stdio
