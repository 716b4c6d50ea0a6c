package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"
)

// ProbeTLSHandshake measures dial + TLS handshake latency against the
// candidate on its TLS port, with the candidate hostname as SNI.
// Certificate trust is irrelevant here: the handshake round trip is the
// signal, so verification is skipped.
func ProbeTLSHandshake(ctx context.Context, candidate Candidate, timeout time.Duration) (time.Duration, error) {
	if timeout <= 0 {
		timeout = time.Second
	}

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dialer := &net.Dialer{Timeout: timeout}
	tlsConfig := &tls.Config{
		ServerName:         candidate.Host,
		InsecureSkipVerify: true,
	}

	start := time.Now()
	conn, err := tls.DialWithDialer(dialer, "tcp", candidate.Address(), tlsConfig)
	if err != nil {
		return 0, fmt.Errorf("tls handshake %s: %w", candidate.Address(), err)
	}
	latency := time.Since(start)
	_ = conn.Close()

	select {
	case <-probeCtx.Done():
		if probeCtx.Err() != nil {
			return 0, probeCtx.Err()
		}
	default:
	}

	return latency, nil
}
