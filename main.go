package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"
)

func main() {
	listURL := flag.String("url", os.Getenv("REALITY_LIST_URL"), "URL of the candidate domain list")
	probeMode := flag.String("probe", "chrome", "Probe mode: tls | chrome | quic")
	port := flag.Int("port", 443, "Target TLS port for probing")
	listenPort := flag.Int("listen-port", 443, "Listen port in the emitted Reality inbound")
	timeoutStr := flag.String("timeout", "1s", "Per-candidate handshake timeout")
	concurrency := flag.Int("n", runtime.NumCPU()*2, "Number of concurrent probes")
	outputFile := flag.String("o", "", "Optional ranking CSV file path")
	configFile := flag.String("config", "", "Optional path for a sing-box Reality inbound snippet")
	assumeYes := flag.Bool("yes", false, "Accept the best measured domain without prompting")
	flag.Parse()

	if *listURL == "" {
		fmt.Fprintln(os.Stderr, "ERROR: -url (or REALITY_LIST_URL) is required")
		os.Exit(2)
	}
	if *concurrency <= 0 {
		fmt.Fprintln(os.Stderr, "ERROR: -n must be > 0")
		os.Exit(2)
	}
	if *port <= 0 || *port > 65535 || *listenPort <= 0 || *listenPort > 65535 {
		fmt.Fprintln(os.Stderr, "ERROR: ports must be in 1..65535")
		os.Exit(2)
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: invalid timeout %q: %v\n", *timeoutStr, err)
		os.Exit(2)
	}

	probe, err := ProberForType(ProbeType(*probeMode))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v: %s\n", err, *probeMode)
		os.Exit(2)
	}

	cfg := SessionConfig{
		ListURL:     *listURL,
		Port:        *port,
		Concurrency: *concurrency,
		Timeout:     timeout,
		Probe:       probe,
	}

	ctx := context.Background()

	var selection Selection
	var results []ProbeResult
	if *assumeYes {
		var best ProbeResult
		results, best, err = RunPass(ctx, cfg, os.Stderr)
		PrintRanking(os.Stderr, results)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
		selection = Selection{Domain: best.Candidate.Host, Latency: best.Latency, Verified: true}
	} else {
		selection, results, err = ChooseDomain(ctx, cfg, os.Stdin, os.Stderr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
	}

	if *outputFile != "" {
		if err := writeCSV(*outputFile, results); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: writing CSV: %v\n", err)
			os.Exit(1)
		}
	}
	if *configFile != "" {
		if err := WriteRealityConfig(*configFile, selection, uint16(*listenPort), uint16(*port)); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: writing Reality config: %v\n", err)
			os.Exit(1)
		}
	}

	if selection.Verified {
		fmt.Fprintf(os.Stderr, "Selected: %s (%.1fms)\n",
			selection.Domain, float64(selection.Latency)/float64(time.Millisecond))
	} else {
		fmt.Fprintf(os.Stderr, "Selected: %s (unverified)\n", selection.Domain)
	}
	fmt.Println(selection.Domain)
}

func writeCSV(path string, results []ProbeResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	for _, row := range rankingRows(results) {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// rankingRows renders results as (domain, latency ms, status) records.
// Failed candidates get an empty latency column and the error as status.
func rankingRows(results []ProbeResult) [][]string {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		if result.Success() {
			latencyMs := fmt.Sprintf("%d", result.Latency.Milliseconds())
			rows = append(rows, []string{result.Candidate.Host, latencyMs, "ok"})
			continue
		}
		rows = append(rows, []string{result.Candidate.Host, "", result.Err.Error()})
	}
	return rows
}
