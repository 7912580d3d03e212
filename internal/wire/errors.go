package wire

// ErrorCode is a wire-visible dispatch failure code. The numbering follows
// the JSON-RPC 2.0 convention.
type ErrorCode int

const (
	// ErrorCodeParseError indicates the input was not a well-formed request envelope.
	ErrorCodeParseError ErrorCode = -32700
	// ErrorCodeInvalidRequest indicates a structurally invalid request object.
	ErrorCodeInvalidRequest ErrorCode = -32600
	// ErrorCodeMethodNotFound indicates the method does not name a capability.
	ErrorCodeMethodNotFound ErrorCode = -32601
	// ErrorCodeInvalidParams indicates the params mapping failed its method schema.
	ErrorCodeInvalidParams ErrorCode = -32602
	// ErrorCodeInternalError indicates a capability failed during execution.
	ErrorCodeInternalError ErrorCode = -32603
)
