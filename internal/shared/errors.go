package shared

import (
	"errors"
	"fmt"
)

// RequestError is used when we want a specific error message and StatusCode.
// Sane defaults are listed below. Error codes should be bubbled where the
// RequestError msg is expected to be returned to the user. If the user should
// see a generic error message but the error chain should include more detail
// for logging purposes, then a generic error should be joined that provides
// context.
//
// Verification and downstream sub-reasons are deliberately collapsed before
// they reach the caller: the chain keeps the detail for logs, the RequestError
// carries the public message.
type RequestError struct {
	StatusCode int
	Err        error
}

func (r *RequestError) Error() string {
	return fmt.Sprintf("status %d: err %v", r.StatusCode, r.Err)
}

var (
	ErrMissingAuth   = &RequestError{Err: errors.New("missing authorization header"), StatusCode: 401}
	ErrInvalidFormat = &RequestError{Err: errors.New("invalid authentication format"), StatusCode: 401}

	ErrInvalidQuestion = &RequestError{Err: errors.New("invalid question format"), StatusCode: 400}
	ErrInvalidSymbol   = &RequestError{Err: errors.New("invalid symbol parameter"), StatusCode: 400}
	ErrInvalidRequest  = &RequestError{Err: errors.New("invalid request body"), StatusCode: 400}

	ErrVerificationFailed = &RequestError{Err: errors.New("machine verification failed"), StatusCode: 401}

	ErrNoData = &RequestError{Err: errors.New("no data found"), StatusCode: 404}

	ErrDownstreamUnavailable = &RequestError{Err: errors.New("downstream service unavailable"), StatusCode: 500}
	ErrInternalServerError   = &RequestError{Err: errors.New("internal server error"), StatusCode: 500}
)

// AsRequestError walks an error chain and returns the first RequestError,
// falling back to ErrInternalServerError so a handler can always answer.
func AsRequestError(err error) *RequestError {
	var re *RequestError
	if errors.As(err, &re) {
		return re
	}
	return ErrInternalServerError
}
