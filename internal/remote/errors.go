package remote

import (
	"errors"
	"fmt"
)

// NetworkError means the request never completed successfully: transport
// failure, non-2xx status, or an open circuit breaker.
type NetworkError struct {
	Endpoint   string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError means the response arrived but its JSON or shape was malformed.
type ParseError struct {
	Endpoint string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse response: %v", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DomainFailure is a well-formed response that signals failure, such as a
// prediction with success=false.
type DomainFailure struct {
	Endpoint string
	Reason   string
}

func (e *DomainFailure) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: service reported failure", e.Endpoint)
	}
	return fmt.Sprintf("%s: service reported failure: %s", e.Endpoint, e.Reason)
}

// RangeError rejects a lookup parameter before any request is made.
type RangeError struct {
	Param    string
	Value    int
	Min, Max int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s=%d out of range [%d, %d]", e.Param, e.Value, e.Min, e.Max)
}

// Kind classifies an error for logs and metric labels.
func Kind(err error) string {
	var (
		netErr    *NetworkError
		parseErr  *ParseError
		domainErr *DomainFailure
		rangeErr  *RangeError
	)
	switch {
	case err == nil:
		return "none"
	case errors.As(err, &netErr):
		return "network"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &domainErr):
		return "domain"
	case errors.As(err, &rangeErr):
		return "range"
	default:
		return "unknown"
	}
}
