package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind labels a fetch failure for logs and metrics.
type ErrorKind string

const (
	KindTimeout        ErrorKind = "timeout"
	KindConnection     ErrorKind = "connection"
	KindForbidden      ErrorKind = "forbidden"
	KindNotFound       ErrorKind = "not_found"
	KindRateLimited    ErrorKind = "rate_limited"
	KindUpstream       ErrorKind = "upstream"
	KindInvalidPayload ErrorKind = "invalid_payload"
	KindOther          ErrorKind = "other"
)

// FetchError is a failed upstream request.
type FetchError struct {
	Kind       ErrorKind
	StatusCode int
	URL        string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s returned %d: %v", e.Kind, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Classify wraps err in a FetchError whose Kind is derived from the status
// code and the error chain.
func Classify(err error, statusCode int, url string) *FetchError {
	if err == nil {
		err = errors.New(http.StatusText(statusCode))
	}
	return &FetchError{Kind: kindOf(err, statusCode), StatusCode: statusCode, URL: url, Err: err}
}

// KindOf returns the label of err, or "other" when it is not a FetchError.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindOther
}

func kindOf(err error, statusCode int) ErrorKind {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return KindRateLimited
	case statusCode == http.StatusForbidden:
		return KindForbidden
	case statusCode == http.StatusNotFound:
		return KindNotFound
	case statusCode >= 300:
		return KindUpstream
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindConnection
	}
	return KindOther
}
