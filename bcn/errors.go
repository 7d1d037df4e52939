package bcn

import "errors"

// ErrorCode identifies the category of a codec API error.
type ErrorCode uint32

const (
	// Success is the code carried by a nil error.
	Success ErrorCode = 0

	// ErrBadParam reports a malformed argument: nil or short buffer,
	// invalid fit parameters, or an out-of-range option.
	ErrBadParam ErrorCode = 1

	// ErrUnsupportedFormat reports a format selector outside BC1-BC5.
	ErrUnsupportedFormat ErrorCode = 2

	// ErrInvalidBlockLength reports a compressed block whose byte length
	// does not match the format (8 bytes for BC1/BC4, 16 otherwise).
	ErrInvalidBlockLength ErrorCode = 3

	// ErrBadDimensions reports an image buffer that does not match its
	// stated width and height.
	ErrBadDimensions ErrorCode = 4

	// ErrBadContainer reports a malformed or truncated DDS container.
	ErrBadContainer ErrorCode = 5
)

// ErrorString returns the stable symbolic name for a code, or "" for an
// unknown code.
func ErrorString(code ErrorCode) string {
	switch code {
	case Success:
		return "BCN_SUCCESS"
	case ErrBadParam:
		return "BCN_ERR_BAD_PARAM"
	case ErrUnsupportedFormat:
		return "BCN_ERR_UNSUPPORTED_FORMAT"
	case ErrInvalidBlockLength:
		return "BCN_ERR_INVALID_BLOCK_LENGTH"
	case ErrBadDimensions:
		return "BCN_ERR_BAD_DIMENSIONS"
	case ErrBadContainer:
		return "BCN_ERR_BAD_CONTAINER"
	default:
		return ""
	}
}

// Error is a typed error carrying an ErrorCode.
type Error struct {
	Code ErrorCode
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg != "" {
		return e.Msg
	}
	if s := ErrorString(e.Code); s != "" {
		return "bcn: " + s
	}
	return "bcn: error"
}

// ErrorCodeOf returns the code carried by err, or Success for nil.
//
// For errors that did not originate in this package it returns ErrBadParam
// as a conservative fallback.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrBadParam
}

func newError(code ErrorCode, msg string) error {
	return &Error{Code: code, Msg: msg}
}
