package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Selection is the accepted camouflage domain. Verified is true only when
// the domain completed a handshake during a probe pass; a manually entered
// domain stays unverified so downstream consumers can decide whether to
// warn.
type Selection struct {
	Domain   string
	Latency  time.Duration
	Verified bool
}

// SessionConfig carries the per-pass settings that survive a retry. The
// original tool threw away all operator input on retry; here only the
// measurements are discarded.
type SessionConfig struct {
	ListURL     string
	Port        int
	Concurrency int
	Timeout     time.Duration
	Probe       ProbeFunc
}

// RunPass executes one complete probe pass: fetch the list, probe every
// candidate concurrently, rank, and pick the winner. List-fetch failure and
// all-candidates-failed are surfaced as distinct errors; neither is fatal to
// the session.
func RunPass(ctx context.Context, cfg SessionConfig, out io.Writer) ([]ProbeResult, ProbeResult, error) {
	candidates, skipped, err := FetchCandidates(ctx, cfg.ListURL, cfg.Port)
	for _, entry := range skipped {
		fmt.Fprintf(out, "WARN: skipping malformed hostname %q\n", entry)
	}
	if err != nil {
		return nil, ProbeResult{}, err
	}

	results := RunProbes(ctx, candidates, cfg.Concurrency, cfg.Timeout, cfg.Probe)
	SortRanking(results)

	best, err := SelectBest(results)
	if err != nil {
		return results, ProbeResult{}, err
	}
	return results, best, nil
}

// ChooseDomain runs probe passes until the operator settles on a domain.
// After each pass the operator may accept the winner, retry with fresh
// measurements, or enter a hostname manually. Probing and prompting never
// overlap: the pass blocks the prompt and the prompt blocks the next pass.
func ChooseDomain(ctx context.Context, cfg SessionConfig, in io.Reader, out io.Writer) (Selection, []ProbeResult, error) {
	reader := bufio.NewReader(in)

	for {
		results, best, passErr := RunPass(ctx, cfg, out)
		PrintRanking(out, results)

		switch {
		case passErr == nil:
			fmt.Fprintf(out, "Best: %s (%.1fms)\n",
				best.Candidate.Host, float64(best.Latency)/float64(time.Millisecond))
		case errors.Is(passErr, ErrListUnavailable):
			fmt.Fprintf(out, "ERROR: %v (retry, or enter a domain manually)\n", passErr)
		case errors.Is(passErr, ErrNoCandidateSucceeded):
			fmt.Fprintf(out, "ERROR: %v (retry, or enter a domain manually)\n", passErr)
		default:
			return Selection{}, results, passErr
		}

		retry, selection, err := promptChoice(reader, out, best, passErr)
		if err != nil {
			return Selection{}, results, err
		}
		if retry {
			continue
		}
		return selection, results, nil
	}
}

// promptChoice runs the accept/retry/manual prompt for one finished pass.
// retry=true means the caller should run a fresh pass.
func promptChoice(reader *bufio.Reader, out io.Writer, best ProbeResult, passErr error) (retry bool, selection Selection, err error) {
	for {
		fmt.Fprint(out, "[a]ccept best / [r]etry / [m]anual: ")

		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			// Input exhausted; accept the winner if the pass produced one.
			if passErr == nil {
				return false, selectionFrom(best), nil
			}
			return false, Selection{}, fmt.Errorf("input closed with no domain selected: %w", passErr)
		}

		switch choice := strings.ToLower(strings.TrimSpace(line)); choice {
		case "", "a", "accept":
			if passErr != nil {
				fmt.Fprintln(out, "no measured domain to accept; retry or enter one manually")
				continue
			}
			return false, selectionFrom(best), nil
		case "r", "retry":
			return true, Selection{}, nil
		case "m", "manual":
			fmt.Fprint(out, "hostname: ")
			manualLine, manualErr := reader.ReadString('\n')
			host := strings.ToLower(strings.TrimSpace(manualLine))
			if err := ValidateHostname(host); err != nil {
				fmt.Fprintf(out, "rejected: %v\n", err)
				if manualErr != nil {
					return false, Selection{}, fmt.Errorf("input closed with no domain selected: %w", err)
				}
				continue
			}
			fmt.Fprintf(out, "WARN: %s was not probed; reachability is unverified\n", host)
			return false, Selection{Domain: host, Verified: false}, nil
		default:
			fmt.Fprintf(out, "unrecognized choice %q\n", choice)
		}
	}
}

func selectionFrom(best ProbeResult) Selection {
	return Selection{
		Domain:   best.Candidate.Host,
		Latency:  best.Latency,
		Verified: true,
	}
}

// PrintRanking writes the per-candidate outcome table.
func PrintRanking(out io.Writer, results []ProbeResult) {
	if len(results) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%-32s  %9s  %s\n", "DOMAIN", "LATENCY", "STATUS")
	fmt.Fprintln(out, strings.Repeat("-", 60))
	for _, result := range results {
		if result.Success() {
			fmt.Fprintf(out, "%-32s  %7.1fms  OK\n",
				result.Candidate.Host, float64(result.Latency)/float64(time.Millisecond))
			continue
		}
		fmt.Fprintf(out, "%-32s  %9s  %v\n", result.Candidate.Host, "-", result.Err)
	}
	fmt.Fprintln(out)
}
