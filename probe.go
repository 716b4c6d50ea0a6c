package main

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ProbeResult holds the outcome of probing a single candidate. Err is nil
// exactly when the handshake completed inside the per-candidate timeout.
type ProbeResult struct {
	Candidate Candidate
	Latency   time.Duration
	Err       error
}

func (result ProbeResult) Success() bool {
	return result.Err == nil
}

// ProbeFunc measures the handshake latency for one candidate.
type ProbeFunc func(ctx context.Context, candidate Candidate, timeout time.Duration) (time.Duration, error)

type ProbeType string

const (
	ProbeTLS    ProbeType = "tls"
	ProbeChrome ProbeType = "chrome"
	ProbeQUIC   ProbeType = "quic"
)

var (
	ErrUnsupportedProbe     = errors.New("unsupported probe type")
	ErrNoCandidateSucceeded = errors.New("no candidate succeeded")
)

func ProberForType(probeType ProbeType) (ProbeFunc, error) {
	switch probeType {
	case ProbeTLS:
		return ProbeTLSHandshake, nil
	case ProbeChrome:
		return ProbeChromeHandshake, nil
	case ProbeQUIC:
		return ProbeQUICHandshake, nil
	default:
		return nil, ErrUnsupportedProbe
	}
}

// RunProbes executes one probe pass with bounded concurrency.
// Per-candidate errors never abort the pass; failed results are kept so the
// ranking can report them.
func RunProbes(ctx context.Context, candidates []Candidate, concurrency int, perProbeTimeout time.Duration, probe ProbeFunc) []ProbeResult {
	if concurrency <= 0 {
		concurrency = 1
	}

	jobs := make(chan Candidate)
	results := make(chan ProbeResult, len(candidates))

	var workerGroup sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		workerGroup.Add(1)
		go func() {
			defer workerGroup.Done()
			for candidate := range jobs {
				latency, err := probe(ctx, candidate, perProbeTimeout)
				if err != nil {
					results <- ProbeResult{Candidate: candidate, Err: err}
					continue
				}
				results <- ProbeResult{Candidate: candidate, Latency: latency}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, candidate := range candidates {
			select {
			case <-ctx.Done():
				return
			case jobs <- candidate:
			}
		}
	}()

	go func() {
		workerGroup.Wait()
		close(results)
	}()

	collected := make([]ProbeResult, 0, len(candidates))
	for result := range results {
		collected = append(collected, result)
	}
	return collected
}

// SelectBest reduces a pass to its winner: filter successes, arg-min by
// latency, ties broken by input order. The reduction is a pure function of
// the result set, so concurrent and serial passes select identically.
func SelectBest(results []ProbeResult) (ProbeResult, error) {
	var best ProbeResult
	found := false
	for _, result := range results {
		if !result.Success() {
			continue
		}
		if !found ||
			result.Latency < best.Latency ||
			(result.Latency == best.Latency && result.Candidate.Index < best.Candidate.Index) {
			best = result
			found = true
		}
	}
	if !found {
		return ProbeResult{}, ErrNoCandidateSucceeded
	}
	return best, nil
}

// SortRanking orders successful results by latency ascending, then failed
// results, both with input order as the tie-break.
func SortRanking(results []ProbeResult) {
	sort.Slice(results, func(i, j int) bool {
		left, right := results[i], results[j]
		if left.Success() != right.Success() {
			return left.Success()
		}
		if left.Success() && left.Latency != right.Latency {
			return left.Latency < right.Latency
		}
		return left.Candidate.Index < right.Candidate.Index
	})
}
