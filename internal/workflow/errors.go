package workflow

import "errors"

// ErrorKind classifies action-layer failures at the boundary. The set is
// closed: anything the mapping does not recognize lands on KindUnrecognized
// and its raw message passes through verbatim.
type ErrorKind int

const (
	KindUnrecognized ErrorKind = iota
	KindInvalidCredentials
)

// Backend failure detail the classification recognizes.
const detailNoActiveAccount = "No active account found with the given credentials"

// User-facing messages.
const (
	MsgInvalidCredentials = "we could not find an account matching that email and password"
	MsgPasswordMismatch   = "passwords do not match"
)

// ActionError is a failure reported by the action layer.
type ActionError struct {
	Kind    ErrorKind
	Message string
}

func (e *ActionError) Error() string {
	return e.Message
}

// ClassifyMessage maps a raw backend failure message onto the closed kind
// set.
func ClassifyMessage(message string) *ActionError {
	if message == detailNoActiveAccount {
		return &ActionError{Kind: KindInvalidCredentials, Message: message}
	}
	return &ActionError{Kind: KindUnrecognized, Message: message}
}

// UserMessage renders an action failure for display: recognized kinds get
// the friendly phrase, everything else shows the raw message.
func UserMessage(err error) string {
	var actionErr *ActionError
	if errors.As(err, &actionErr) && actionErr.Kind == KindInvalidCredentials {
		return MsgInvalidCredentials
	}
	return err.Error()
}

// ValidationError is a local input failure. It is surfaced immediately and
// never reaches the dispatcher or any lifecycle.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
