package iamport

import (
	"errors"
	"fmt"
	"net"
	"syscall"
)

// ErrorKind classifies a failed gateway call so the service layer can map it
// to the right HTTP response without inspecting transport details.
type ErrorKind string

const (
	KindAuth        ErrorKind = "auth"
	KindTimeout     ErrorKind = "timeout"
	KindUnavailable ErrorKind = "unavailable"
	KindUpstream    ErrorKind = "upstream"
)

// GatewayError wraps any failure talking to the gateway. StatusCode carries
// the upstream HTTP status for KindUpstream, 0 otherwise.
type GatewayError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("iamport: %s (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("iamport: %s: %v", e.Kind, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// classifyTransportError maps a net/http client error to timeout or
// unavailable. Connection refused and DNS failures count as unavailable.
func classifyTransportError(err error) *GatewayError {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &GatewayError{Kind: KindTimeout, Err: err}
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return &GatewayError{Kind: KindUnavailable, Err: err}
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &GatewayError{Kind: KindUnavailable, Err: err}
	}
	return &GatewayError{Kind: KindUnavailable, Err: err}
}
