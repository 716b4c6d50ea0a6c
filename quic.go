package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/quic-go/quic-go"
)

// ProbeQUICHandshake performs a QUIC handshake to measure RTT, for
// candidates that also serve HTTP/3.
func ProbeQUICHandshake(ctx context.Context, candidate Candidate, timeout time.Duration) (time.Duration, error) {
	if timeout <= 0 {
		timeout = time.Second
	}

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tlsConf := &tls.Config{
		ServerName:         candidate.Host,
		InsecureSkipVerify: true,
		NextProtos:         []string{"h3"},
	}

	quicConf := &quic.Config{
		HandshakeIdleTimeout: timeout,
	}

	start := time.Now()
	conn, err := quic.DialAddr(probeCtx, candidate.Address(), tlsConf, quicConf)
	latency := time.Since(start)

	if conn != nil {
		_ = conn.CloseWithError(0, "probe")
	}

	if err != nil {
		// A CRYPTO_ERROR rejection still means the server answered the
		// ClientHello, so the round trip is a valid latency sample.
		errStr := err.Error()
		if !strings.Contains(errStr, "CRYPTO_ERROR") && !strings.Contains(errStr, "APPLICATION_ERROR") {
			return 0, fmt.Errorf("quic handshake %s: %w", candidate.Address(), err)
		}
		if latency >= timeout-50*time.Millisecond {
			return 0, fmt.Errorf("quic handshake timeout %s: %w", candidate.Address(), err)
		}
	}
	return latency, nil
}
