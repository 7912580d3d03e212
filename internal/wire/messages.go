package wire

import (
	"encoding/json"
	"fmt"
)

// Message is the raw JSON encoding of a protocol envelope.
type Message []byte

// Request is a single inbound command envelope. The ID correlates the
// eventual response and is opaque to the runtime; Params carries the
// method-specific argument mapping.
type Request struct {
	ID     *RequestID      `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// DecodeRequest parses raw as a request envelope. There is no partial or
// best-effort parse: anything short of a well-formed envelope is an error.
func DecodeRequest(raw []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("invalid request envelope: %w", err)
	}
	if req.Method == "" {
		return nil, fmt.Errorf("request envelope is missing a method")
	}
	if len(req.Params) > 0 {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(req.Params, &probe); err != nil {
			return nil, fmt.Errorf("request params must be an object: %w", err)
		}
	}
	return &req, nil
}

// Response carries the outcome of one request. Exactly one of Result and Err
// is present on the wire; a success with no meaningful value carries an
// explicit JSON null, never an absent field.
type Response struct {
	ID     *RequestID
	Result json.RawMessage
	Err    *Error
}

// Error is the wire representation of a dispatch failure.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d)", e.Message, e.Code)
}

// NewResultResponse builds a success envelope. A nil result is encoded as
// JSON null.
func NewResultResponse(id *RequestID, result any) (*Response, error) {
	b, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &Response{ID: id, Result: b}, nil
}

// NewErrorResponse builds a failure envelope with the given code.
func NewErrorResponse(id *RequestID, code ErrorCode, message string) *Response {
	return &Response{ID: id, Err: &Error{Code: code, Message: message}}
}

// MarshalJSON enforces the exactly-one-of invariant: a failure envelope has
// only id and error; a success envelope has only id and result, with null
// substituted when the result is empty.
func (r *Response) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(struct {
			ID  *RequestID `json:"id"`
			Err *Error     `json:"error"`
		}{ID: r.ID, Err: r.Err})
	}
	result := r.Result
	if len(result) == 0 {
		result = json.RawMessage("null")
	}
	return json.Marshal(struct {
		ID     *RequestID      `json:"id"`
		Result json.RawMessage `json:"result"`
	}{ID: r.ID, Result: result})
}

// UnmarshalJSON accepts either envelope form and rejects hybrids.
func (r *Response) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     *RequestID      `json:"id"`
		Result json.RawMessage `json:"result"`
		Err    *Error          `json:"error"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid response envelope: %w", err)
	}
	if raw.Err != nil && len(raw.Result) > 0 {
		return fmt.Errorf("response envelope cannot carry both result and error")
	}
	if raw.Err == nil && len(raw.Result) == 0 {
		return fmt.Errorf("response envelope must carry either result or error")
	}
	r.ID = raw.ID
	r.Result = raw.Result
	r.Err = raw.Err
	return nil
}

// Encode renders the response as a single-line wire message.
func (r *Response) Encode() (Message, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	return Message(b), nil
}
