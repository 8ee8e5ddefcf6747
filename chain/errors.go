package chain

import (
	"errors"
	"fmt"
)

var (
	ErrEndpointUnavailable = errors.New("endpoint unavailable")
	ErrRequestTimeout      = errors.New("request timeout")
	ErrMalformedResponse   = errors.New("malformed response")
	ErrNotFound            = errors.New("not found")

	ErrBlockNotFound       error = &notFoundError{resource: "block"}
	ErrTransactionNotFound error = &notFoundError{resource: "transaction"}
	ErrAccountNotFound     error = &notFoundError{resource: "account"}
	ErrValidatorNotFound   error = &notFoundError{resource: "validator"}
)

// notFoundError values match both themselves and ErrNotFound under errors.Is.
type notFoundError struct {
	resource string
}

func (e *notFoundError) Error() string {
	return e.resource + " not found"
}

func (e *notFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// RequestError describes a failed call against a single upstream endpoint.
// Kind is one of the sentinels above; Cause is the underlying error, if any.
type RequestError struct {
	Endpoint   string
	StatusCode int
	Kind       error
	Cause      error
}

func (e *RequestError) Error() string {
	msg := fmt.Sprintf("%v: %s", e.Kind, e.Endpoint)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *RequestError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Reclassify returns err with its kind replaced when it is a RequestError,
// keeping the endpoint. Other errors are wrapped with kind.
func Reclassify(err error, kind error) error {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return &RequestError{
			Endpoint:   reqErr.Endpoint,
			StatusCode: reqErr.StatusCode,
			Kind:       kind,
			Cause:      reqErr.Cause,
		}
	}
	return fmt.Errorf("%w: %v", kind, err)
}

func IsTimeout(err error) bool {
	return errors.Is(err, ErrRequestTimeout)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// EndpointOf returns the endpoint recorded on err, or "" when none is.
func EndpointOf(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Endpoint
	}
	return ""
}

// Malformed reports a payload that decoded but lacks a required field.
func Malformed(endpoint string, format string, args ...interface{}) error {
	return &RequestError{Endpoint: endpoint, Kind: ErrMalformedResponse, Cause: fmt.Errorf(format, args...)}
}

// Unavailable folds any non-timeout failure into ErrEndpointUnavailable.
// Malformed payloads keep matching ErrMalformedResponse.
func Unavailable(err error) error {
	if err == nil || IsTimeout(err) {
		return err
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		cause := reqErr.Cause
		if errors.Is(reqErr.Kind, ErrMalformedResponse) {
			if cause == nil {
				cause = ErrMalformedResponse
			} else {
				cause = fmt.Errorf("%w: %v", ErrMalformedResponse, cause)
			}
		}
		return &RequestError{
			Endpoint:   reqErr.Endpoint,
			StatusCode: reqErr.StatusCode,
			Kind:       ErrEndpointUnavailable,
			Cause:      cause,
		}
	}
	return fmt.Errorf("%w: %v", ErrEndpointUnavailable, err)
}
