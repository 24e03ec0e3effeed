package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotInRoom   = "not_in_room"
	ErrCodeStorage     = "storage_error"
	ErrCodeIDExhausted = "id_exhausted"
)

var (
	ErrBadRequest  = errors.New("bad request")
	ErrNotInRoom   = errors.New("not in room")
	ErrStorage     = errors.New("storage failure")
	ErrIDExhausted = errors.New("room id generation exhausted")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

// Unwrap maps the code back to its sentinel so callers can use
// errors.Is without inspecting code strings.
func (e *CoreError) Unwrap() error {
	switch e.Code {
	case ErrCodeBadRequest:
		return ErrBadRequest
	case ErrCodeNotInRoom:
		return ErrNotInRoom
	case ErrCodeStorage:
		return ErrStorage
	case ErrCodeIDExhausted:
		return ErrIDExhausted
	default:
		return nil
	}
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

// AsCoreError extracts a *CoreError from err, mapping unknown errors
// to a storage_error so the wire layer always has a code to send.
func AsCoreError(err error) *CoreError {
	if err == nil {
		return nil
	}
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce
	}
	return coreError(ErrCodeStorage, err.Error())
}
