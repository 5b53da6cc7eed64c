/*
Package pharpc contains a set of types used for JSON-RPC communication with
Phantasma nodes: request/response envelopes, the node's error object and the
Failure taxonomy every client operation reports errors with.
*/
package pharpc

import (
	"bytes"
	"encoding/json"
)

const (
	// JSONRPCVersion is the only JSON-RPC protocol version supported.
	JSONRPCVersion = "2.0"
)

type (
	// Request represents JSON-RPC request. Phantasma methods take positional
	// parameters only.
	Request struct {
		// JSONRPC is the protocol version, only valid when it contains JSONRPCVersion.
		JSONRPC string `json:"jsonrpc"`
		// Method is the method being called.
		Method string `json:"method"`
		// Params is a set of method-specific parameters passed to the call.
		Params []any `json:"params"`
		// ID is an identifier associated with this request.
		ID uint64 `json:"id"`
	}

	// Header is a generic JSON-RPC 2.0 response header (ID and JSON-RPC version).
	Header struct {
		ID      json.RawMessage `json:"id"`
		JSONRPC string          `json:"jsonrpc"`
	}

	// HeaderAndError adds an Error (that can be empty) to the Header, it's used
	// to construct type-specific responses.
	HeaderAndError struct {
		Header
		Error *Error `json:"error,omitempty"`
	}

	// Response represents a standard raw JSON-RPC 2.0
	// response: http://www.jsonrpc.org/specification#response_object.
	Response struct {
		HeaderAndError
		Result json.RawMessage `json:"result,omitempty"`
	}
)

// inlineError is the shape of an application error some node versions put
// into the result field instead of the error object.
type inlineError struct {
	Error *string `json:"error"`
}

// ResultError returns the application error carried inside a result payload
// as {"error": "text"}, or nil if the payload is not such an object.
func ResultError(result json.RawMessage) *Error {
	trimmed := bytes.TrimSpace(result)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var ie inlineError
	if err := json.Unmarshal(trimmed, &ie); err != nil || ie.Error == nil {
		return nil
	}
	return &Error{Code: InternalServerErrorCode, Message: *ie.Error}
}
