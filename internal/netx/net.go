// Package netx classifies transport failures.
package netx

import (
	"context"
	"errors"
	"net"
	"net/url"
	"syscall"
)

// IsUnreachable reports whether err means the request never got an answer:
// DNS failure, refused or reset connection, or a transport timeout. Context
// cancellation by the caller is not considered unreachable.
func IsUnreachable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
