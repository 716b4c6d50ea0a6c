package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

var (
	ErrListUnavailable = errors.New("candidate list unavailable")
	ErrInvalidHostname = errors.New("invalid hostname")
)

// Candidate is a camouflage-domain candidate drawn from the remote list.
// Index is the position in the input, so tie-breaks resolve the same way a
// serial scan holding the running minimum would.
type Candidate struct {
	Host  string
	Port  int
	Index int
}

func (candidate Candidate) Address() string {
	return fmt.Sprintf("%s:%d", candidate.Host, candidate.Port)
}

// The list is operator-controlled plain text; anything bigger is garbage.
const maxListBytes = 1 << 20

var listClient = &http.Client{Timeout: 10 * time.Second}

// FetchCandidates downloads the operator-configured domain list and parses
// it into probe candidates. Malformed entries are returned in skipped so the
// caller can warn; a list that yields zero usable hostnames is treated the
// same as an unreachable one.
func FetchCandidates(ctx context.Context, listURL string, port int) (candidates []Candidate, skipped []string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrListUnavailable, err)
	}

	resp, err := listClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrListUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, fmt.Errorf("%w: unexpected status %s", ErrListUnavailable, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxListBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading body: %v", ErrListUnavailable, err)
	}

	candidates, skipped = ParseCandidates(string(body), port)
	if len(candidates) == 0 {
		return nil, skipped, fmt.Errorf("%w: no usable hostnames in list", ErrListUnavailable)
	}
	return candidates, skipped, nil
}

// ParseCandidates splits a whitespace/newline-separated hostname list.
// Duplicates survive (they are simply re-probed); input order is preserved.
func ParseCandidates(body string, port int) (candidates []Candidate, skipped []string) {
	for _, field := range strings.Fields(body) {
		host := strings.ToLower(strings.TrimSpace(field))
		if err := ValidateHostname(host); err != nil {
			skipped = append(skipped, field)
			continue
		}
		candidates = append(candidates, Candidate{
			Host:  host,
			Port:  port,
			Index: len(candidates),
		})
	}
	return candidates, skipped
}

// ValidateHostname checks that host is a syntactically plausible DNS name
// usable as a TLS SNI value. The list is untrusted input; the goal is to
// reject junk before it reaches a ClientHello, not full RFC conformance.
func ValidateHostname(host string) error {
	if host == "" {
		return fmt.Errorf("%w: empty", ErrInvalidHostname)
	}
	if len(host) > 253 {
		return fmt.Errorf("%w: %q exceeds 253 bytes", ErrInvalidHostname, host)
	}
	if net.ParseIP(host) != nil {
		return fmt.Errorf("%w: %q is an IP literal", ErrInvalidHostname, host)
	}
	for _, label := range strings.Split(host, ".") {
		if label == "" || len(label) > 63 {
			return fmt.Errorf("%w: %q", ErrInvalidHostname, host)
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return fmt.Errorf("%w: %q", ErrInvalidHostname, host)
		}
		for _, r := range label {
			switch {
			case r >= 'a' && r <= 'z':
			case r >= 'A' && r <= 'Z':
			case r >= '0' && r <= '9':
			case r == '-':
			default:
				return fmt.Errorf("%w: %q contains %q", ErrInvalidHostname, host, r)
			}
		}
	}
	return nil
}
