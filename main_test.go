package main

import (
	"context"
	"testing"
	"time"
)

func TestRankingRows(t *testing.T) {
	results := []ProbeResult{
		{Candidate: Candidate{Host: "fast.com", Index: 0}, Latency: 42 * time.Millisecond},
		{Candidate: Candidate{Host: "dead.com", Index: 1}, Err: context.DeadlineExceeded},
	}

	rows := rankingRows(results)
	if len(rows) != 2 {
		t.Fatalf("row count: got=%d want=2", len(rows))
	}
	if rows[0][0] != "fast.com" || rows[0][1] != "42" || rows[0][2] != "ok" {
		t.Fatalf("unexpected success row: %v", rows[0])
	}
	if rows[1][0] != "dead.com" || rows[1][1] != "" || rows[1][2] == "" {
		t.Fatalf("unexpected failure row: %v", rows[1])
	}
}
