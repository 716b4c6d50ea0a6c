package main

import (
	"context"
	"fmt"
	"net"
	"time"

	utls "github.com/refraction-networking/utls"
)

// ProbeChromeHandshake measures dial + TLS handshake latency using a
// Chrome-fingerprint ClientHello. A Reality inbound presents exactly this
// handshake to censors, so the chrome mode measures what the proxy will
// actually mimic. Default probe mode.
func ProbeChromeHandshake(ctx context.Context, candidate Candidate, timeout time.Duration) (time.Duration, error) {
	if timeout <= 0 {
		timeout = time.Second
	}

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	deadline := time.Now().Add(timeout)
	dialer := &net.Dialer{}

	start := time.Now()
	conn, err := dialer.DialContext(probeCtx, "tcp", candidate.Address())
	if err != nil {
		return 0, fmt.Errorf("dial %s: %w", candidate.Address(), err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(deadline)

	client := utls.UClient(conn, &utls.Config{
		ServerName:         candidate.Host,
		InsecureSkipVerify: true,
		NextProtos:         []string{"h2", "http/1.1"},
	}, utls.HelloChrome_Auto)
	if err := client.Handshake(); err != nil {
		return 0, fmt.Errorf("chrome handshake %s: %w", candidate.Address(), err)
	}
	latency := time.Since(start)
	_ = client.Close()

	return latency, nil
}
