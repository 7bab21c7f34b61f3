package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ERR is the error code carried by every *Error.
type ERR int32

const (
	ERR_UNKNOWN ERR = iota
	ERR_INVALID_ARGUMENT
	ERR_THRESHOLD_EXCEEDED
	ERR_NOT_FOUND
	ERR_PROCESSING
	ERR_CONFIGURATION
	ERR_CONTEXT_CANCELED
	ERR_BLOCK_NOT_FOUND
	ERR_BLOCK_INVALID
	ERR_BLOCK_EXISTS
	ERR_TX_NOT_FOUND
	ERR_TX_INVALID
	ERR_SERVICE_ERROR
	ERR_STORAGE_ERROR
	ERR_SPENT
	ERR_UTXO_NOT_FOUND
	ERR_IMMATURE_SPEND
)

var errName = map[ERR]string{
	ERR_UNKNOWN:            "UNKNOWN",
	ERR_INVALID_ARGUMENT:   "INVALID_ARGUMENT",
	ERR_THRESHOLD_EXCEEDED: "THRESHOLD_EXCEEDED",
	ERR_NOT_FOUND:          "NOT_FOUND",
	ERR_PROCESSING:         "PROCESSING",
	ERR_CONFIGURATION:      "CONFIGURATION",
	ERR_CONTEXT_CANCELED:   "CONTEXT_CANCELED",
	ERR_BLOCK_NOT_FOUND:    "BLOCK_NOT_FOUND",
	ERR_BLOCK_INVALID:      "BLOCK_INVALID",
	ERR_BLOCK_EXISTS:       "BLOCK_EXISTS",
	ERR_TX_NOT_FOUND:       "TX_NOT_FOUND",
	ERR_TX_INVALID:         "TX_INVALID",
	ERR_SERVICE_ERROR:      "SERVICE_ERROR",
	ERR_STORAGE_ERROR:      "STORAGE_ERROR",
	ERR_SPENT:              "SPENT",
	ERR_UTXO_NOT_FOUND:     "UTXO_NOT_FOUND",
	ERR_IMMATURE_SPEND:     "IMMATURE_SPEND",
}

// Error is a coded error with an optional wrapped cause.
type Error struct {
	code       ERR
	message    string
	wrappedErr error
}

func (e *Error) Code() ERR {
	if e == nil {
		return ERR_UNKNOWN
	}

	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}

	return e.message
}

func (e *Error) WrappedErr() error {
	if e == nil {
		return nil
	}

	return e.wrappedErr
}

func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(errName[e.code])
	sb.WriteString(" (")
	sb.WriteString(fmt.Sprintf("%d", e.code))
	sb.WriteString("): ")
	sb.WriteString(e.message)

	if e.wrappedErr != nil {
		sb.WriteString(" -> ")
		sb.WriteString(e.wrappedErr.Error())
	}

	return sb.String()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.wrappedErr
}

// Is matches on the error code, so sentinel comparisons like
// errors.Is(err, ErrBlockNotFound) work across wrapping.
func (e *Error) Is(target error) bool {
	var te *Error
	if !errors.As(target, &te) {
		return false
	}

	return e.code == te.code
}

// New creates a coded error. The last parameter may be an error, in which
// case it becomes the wrapped cause; any remaining parameters are treated as
// fmt args for the message.
func New(code ERR, message string, params ...interface{}) *Error {
	var wErr error

	if len(params) > 0 {
		lastParam := params[len(params)-1]

		if err, ok := lastParam.(error); ok {
			wErr = err
			params = params[:len(params)-1]
		}
	}

	if len(params) > 0 {
		message = fmt.Sprintf(message, params...)
	}

	return &Error{
		code:       code,
		message:    message,
		wrappedErr: wErr,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
