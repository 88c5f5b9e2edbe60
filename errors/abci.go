package errors

import (
	"errors"
	"fmt"
	"reflect"
)

// SuccessABCICode is the code of a transaction or query that did not fail.
const SuccessABCICode = 0

const (
	// internalABCICode is used for every error that was not registered.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and the log of an ABCI response for given error.
//
// Registered errors expose their code and message. Any other error, and a
// recovered panic, is reported as an internal error with a generic log so
// that clients do not see implementation details. In debug mode the full
// message, including the stack trace when one was recorded, is always
// returned.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessABCICode, ""
	}
	code, public := classify(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case public:
		return code, err.Error()
	default:
		return code, internalABCILog
	}
}

// Redact replaces an error that must not reach a client with a generic
// internal error. Registered errors are returned unchanged. With debug set
// nothing is redacted.
func Redact(err error, debug bool) error {
	if debug || errIsNil(err) {
		return err
	}
	if _, public := classify(err); !public {
		return errors.New(internalABCILog)
	}
	return err
}

// classify returns the ABCI code of an error and whether its message can be
// shown to a client.
func classify(err error) (uint32, bool) {
	if ErrPanic.Is(err) {
		return ErrPanic.ABCICode(), false
	}
	code := abciCode(err)
	return code, code != internalABCICode
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the first error in the cause chain that
// declares one.
func abciCode(err error) uint32 {
	for err != nil {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return internalABCICode
}

// errIsNil is true for a nil interface and for an interface holding a nil
// pointer, such as (*Error)(nil).
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	val := reflect.ValueOf(err)
	return val.Kind() == reflect.Ptr && val.IsNil()
}
