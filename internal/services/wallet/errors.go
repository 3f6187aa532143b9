package wallet

import "errors"

// ErrorKind classifies every failure the wallet service can produce. Callers
// switch on the kind exhaustively instead of inspecting error strings.
type ErrorKind int

const (
	// KindValidation means the input was malformed (e.g. a non-positive
	// amount). Never retryable as-is.
	KindValidation ErrorKind = iota
	// KindNotFound means a wallet or user the operation needs does not exist.
	KindNotFound
	// KindUnprocessable means a business rule blocked the operation:
	// insufficient funds, minimum-balance breach, self-transfer.
	KindUnprocessable
	// KindStore means the underlying store failed. The whole operation rolled
	// back, so retrying is safe.
	KindStore
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnprocessable:
		return "unprocessable"
	case KindStore:
		return "store"
	default:
		return "unknown"
	}
}

// Error is the single error type the wallet service returns.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts a *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var werr *Error
	if errors.As(err, &werr) {
		return werr, true
	}
	return nil, false
}

func validationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func notFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func unprocessableError(message string) *Error {
	return &Error{Kind: KindUnprocessable, Message: message}
}

func storeError(err error) *Error {
	return &Error{Kind: KindStore, Message: "store operation failed", Err: err}
}
