package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseCandidates(t *testing.T) {
	body := "www.apple.com\n  cdn.jsdelivr.net\tWWW.Bing.COM \n\nwww.apple.com\nbad_host\n192.0.2.7\n"
	candidates, skipped := ParseCandidates(body, 443)

	wantHosts := []string{"www.apple.com", "cdn.jsdelivr.net", "www.bing.com", "www.apple.com"}
	if len(candidates) != len(wantHosts) {
		t.Fatalf("candidate count: got=%d want=%d", len(candidates), len(wantHosts))
	}
	for i, want := range wantHosts {
		if candidates[i].Host != want {
			t.Fatalf("candidate[%d]: got=%s want=%s", i, candidates[i].Host, want)
		}
		if candidates[i].Index != i {
			t.Fatalf("candidate[%d] index: got=%d want=%d", i, candidates[i].Index, i)
		}
		if candidates[i].Port != 443 {
			t.Fatalf("candidate[%d] port: got=%d want=443", i, candidates[i].Port)
		}
	}

	if len(skipped) != 2 {
		t.Fatalf("skipped count: got=%d want=2 (%v)", len(skipped), skipped)
	}
}

func TestValidateHostname(t *testing.T) {
	testCases := []struct {
		name  string
		host  string
		valid bool
	}{
		{name: "plain", host: "www.apple.com", valid: true},
		{name: "single_label", host: "localhost", valid: true},
		{name: "digits_and_hyphen", host: "a-1.b-2.net", valid: true},
		{name: "punycode", host: "xn--fiq228c.example", valid: true},
		{name: "empty", host: "", valid: false},
		{name: "ip_literal", host: "192.0.2.1", valid: false},
		{name: "ipv6_literal", host: "2001:db8::1", valid: false},
		{name: "leading_dot", host: ".example.com", valid: false},
		{name: "trailing_dot", host: "example.com.", valid: false},
		{name: "double_dot", host: "a..com", valid: false},
		{name: "underscore", host: "bad_host.com", valid: false},
		{name: "control_char", host: "bad\x01host.com", valid: false},
		{name: "leading_hyphen_label", host: "-bad.com", valid: false},
		{name: "url_not_hostname", host: "https://example.com/x", valid: false},
		{name: "overlong", host: strings.Repeat("a", 254), valid: false},
		{name: "overlong_label", host: strings.Repeat("a", 64) + ".com", valid: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := ValidateHostname(testCase.host)
			if testCase.valid && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !testCase.valid {
				if err == nil {
					t.Fatal("expected rejection, got nil")
				}
				if !errors.Is(err, ErrInvalidHostname) {
					t.Fatalf("error not ErrInvalidHostname: %v", err)
				}
			}
		})
	}
}

func TestFetchCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "www.apple.com\ncdn.jsdelivr.net\n")
	}))
	defer server.Close()

	candidates, skipped, err := FetchCandidates(context.Background(), server.URL, 443)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(candidates) != 2 || len(skipped) != 0 {
		t.Fatalf("unexpected parse: candidates=%d skipped=%d", len(candidates), len(skipped))
	}
}

func TestFetchCandidatesEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "")
	}))
	defer server.Close()

	_, _, err := FetchCandidates(context.Background(), server.URL, 443)
	if !errors.Is(err, ErrListUnavailable) {
		t.Fatalf("unexpected error: got=%v want=%v", err, ErrListUnavailable)
	}
}

func TestFetchCandidatesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, _, err := FetchCandidates(context.Background(), server.URL, 443)
	if !errors.Is(err, ErrListUnavailable) {
		t.Fatalf("unexpected error: got=%v want=%v", err, ErrListUnavailable)
	}
}

func TestFetchCandidatesUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	_, _, err := FetchCandidates(context.Background(), server.URL, 443)
	if !errors.Is(err, ErrListUnavailable) {
		t.Fatalf("unexpected error: got=%v want=%v", err, ErrListUnavailable)
	}
}

func TestFetchCandidatesAllMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "bad_one\n192.0.2.9\n")
	}))
	defer server.Close()

	_, skipped, err := FetchCandidates(context.Background(), server.URL, 443)
	if !errors.Is(err, ErrListUnavailable) {
		t.Fatalf("unexpected error: got=%v want=%v", err, ErrListUnavailable)
	}
	if len(skipped) != 2 {
		t.Fatalf("skipped count: got=%d want=2", len(skipped))
	}
}
