package pharpc

import (
	"errors"
	"fmt"
)

type (
	// Error represents JSON-RPC 2.0 error type.
	Error struct {
		Code    int64  `json:"code"`
		Message string `json:"message"`
		Data    string `json:"data,omitempty"`
	}
)

// Standard RPC error codes defined by the JSON-RPC 2.0 specification.
const (
	// InternalServerErrorCode is returned for internal RPC server error.
	InternalServerErrorCode = -32603
	// BadRequestCode is returned on parse error.
	BadRequestCode = -32700
	// InvalidRequestCode is returned on invalid request.
	InvalidRequestCode = -32600
	// MethodNotFoundCode is returned on unknown method calling.
	MethodNotFoundCode = -32601
	// InvalidParamsCode is returned on request with invalid params.
	InvalidParamsCode = -32602
)

// NewError is an Error constructor that takes Error contents from its parameters.
func NewError(code int64, message string, data string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Data) == 0 {
		return fmt.Sprintf("%s (%d)", e.Message, e.Code)
	}
	return fmt.Sprintf("%s (%d) - %s", e.Message, e.Code, e.Data)
}

// Is denotes whether the error matches the target one.
func (e *Error) Is(target error) bool {
	var clTarget *Error
	if errors.As(target, &clTarget) {
		return e.Code == clTarget.Code
	}
	return false
}

// ErrorKind classifies failures of node and wallet operations.
type ErrorKind byte

// Failure kinds.
const (
	KindTimeout ErrorKind = iota + 1
	KindTransport
	KindAPI
	KindDecode
	KindHashMismatch
	KindNetworkMismatch
)

var kindNames = map[ErrorKind]string{
	KindTimeout:         "timeout",
	KindTransport:       "transport error",
	KindAPI:             "api error",
	KindDecode:          "decode error",
	KindHashMismatch:    "hash mismatch",
	KindNetworkMismatch: "network mismatch",
}

// String implements the fmt.Stringer interface.
func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", byte(k))
}

// Retryable reports whether an operation failing with this kind may be
// attempted again.
func (k ErrorKind) Retryable() bool {
	return k == KindTimeout || k == KindTransport
}

// Failure is the error returned by every client operation. Match it with
// errors.Is against the Err* sentinels or inspect it with errors.As.
type Failure struct {
	Kind    ErrorKind
	Message string
	// Err is the underlying cause, if any.
	Err error
}

// Sentinels for errors.Is matching by kind. An ErrHashMismatch failure also
// matches ErrAPI.
var (
	ErrTimeout         = &Failure{Kind: KindTimeout}
	ErrTransport       = &Failure{Kind: KindTransport}
	ErrAPI             = &Failure{Kind: KindAPI}
	ErrDecode          = &Failure{Kind: KindDecode}
	ErrHashMismatch    = &Failure{Kind: KindHashMismatch}
	ErrNetworkMismatch = &Failure{Kind: KindNetworkMismatch}
)

// NewFailure creates a Failure of the given kind.
func NewFailure(kind ErrorKind, err error, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Error implements the error interface.
func (f *Failure) Error() string {
	msg := f.Kind.String()
	if f.Message != "" {
		msg += ": " + f.Message
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (f *Failure) Unwrap() error {
	return f.Err
}

// Is matches failures by kind.
func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	if !ok {
		return false
	}
	if f.Kind == t.Kind {
		return true
	}
	return f.Kind == KindHashMismatch && t.Kind == KindAPI
}

// KindOf returns the kind of the first Failure in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return 0
}
