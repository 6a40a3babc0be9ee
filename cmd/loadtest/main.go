// Loadtest is a concurrent HTTP load generator for the trigger functions. It
// mixes query, body, malformed-body and empty requests and reports throughput,
// latency percentiles and where each greeting name was resolved from.
//
// Usage:
//
//	go run ./cmd/loadtest --url http://localhost:8080/api/greet-dataset --concurrency 10 --requests 1000
//	go run ./cmd/loadtest --url http://localhost:8080/api/greet-arithmetic --out summary.json
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sourcegraph/conc/pool"
	flag "github.com/spf13/pflag"

	"github.com/angeloszaimis/trigger-functions/internal/function"
)

type scenario string

const (
	scenarioQuery     scenario = "query"
	scenarioBody      scenario = "body"
	scenarioMalformed scenario = "malformed"
	scenarioEmpty     scenario = "empty"
)

var scenarios = []scenario{scenarioQuery, scenarioBody, scenarioMalformed, scenarioEmpty}

type options struct {
	target      string
	key         string
	concurrency int
	requests    int
	timeout     time.Duration
}

type Latencies struct {
	Min float64 `json:"min_ms"`
	Avg float64 `json:"avg_ms"`
	Max float64 `json:"max_ms"`
	P50 float64 `json:"p50_ms"`
	P90 float64 `json:"p90_ms"`
	P95 float64 `json:"p95_ms"`
	P99 float64 `json:"p99_ms"`
}

type summary struct {
	Target        string                      `json:"target"`
	Requests      int                         `json:"requests"`
	Sent          int                         `json:"sent"`
	Concurrency   int                         `json:"concurrency"`
	Success       int                         `json:"success"`
	Failure       int                         `json:"failure"`
	DurationMS    int64                       `json:"duration_ms"`
	ThroughputRPS float64                     `json:"throughput_rps"`
	StatusCodes   map[int]int                 `json:"status_codes"`
	Sources       map[scenario]map[string]int `json:"sources"`
	Latencies     Latencies                   `json:"latencies"`
}

type result struct {
	scenario scenario
	status   int
	source   string
	duration time.Duration
	err      error
}

func main() {
	os.Exit(execute())
}

func execute() int {
	var opts options
	flag.StringVar(&opts.target, "url", "http://localhost:8080/api/greet-dataset", "target function URL")
	flag.StringVar(&opts.key, "key", function.DefaultKey, "name of the resolved parameter")
	flag.IntVar(&opts.concurrency, "concurrency", 10, "number of concurrent workers")
	flag.IntVar(&opts.requests, "requests", 100, "total number of requests to send")
	flag.DurationVar(&opts.timeout, "timeout", 10*time.Second, "per-request timeout")
	outJSON := flag.String("out", "", "write the JSON summary to this file instead of stdout")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	report := run(ctx, &http.Client{Timeout: opts.timeout}, opts)

	out := io.Writer(os.Stdout)
	if *outJSON != "" {
		f, err := os.Create(*outJSON)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create json file: %v\n", err)
			return 1
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write summary: %v\n", err)
		return 1
	}

	if report.Failure > 0 {
		return 2
	}
	return 0
}

func run(ctx context.Context, client *http.Client, opts options) summary {
	if opts.concurrency < 1 {
		opts.concurrency = 1
	}

	var (
		mu      sync.Mutex
		results = make([]result, 0, opts.requests)
	)

	p := pool.New().WithMaxGoroutines(opts.concurrency)
	start := time.Now()

	for i := 0; i < opts.requests; i++ {
		if ctx.Err() != nil {
			break
		}
		idx := i
		p.Go(func() {
			res := send(ctx, client, opts, idx)
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		})
	}
	p.Wait()

	return summarize(opts, results, time.Since(start))
}

func send(ctx context.Context, client *http.Client, opts options, idx int) result {
	sc := scenarios[idx%len(scenarios)]
	res := result{scenario: sc}

	req, err := newRequest(ctx, opts, sc, idx)
	if err != nil {
		res.err = err
		return res
	}

	start := time.Now()
	resp, err := client.Do(req)
	res.duration = time.Since(start)
	if err != nil {
		res.err = err
		return res
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	res.status = resp.StatusCode
	res.source = resp.Header.Get(function.ResolvedSourceHeader)
	if res.source == "" {
		res.source = "(unknown)"
	}

	return res
}

func newRequest(ctx context.Context, opts options, sc scenario, idx int) (*http.Request, error) {
	name := fmt.Sprintf("user-%d", idx)

	switch sc {
	case scenarioQuery:
		u, err := url.Parse(opts.target)
		if err != nil {
			return nil, err
		}
		q := u.Query()
		q.Set(opts.key, name)
		u.RawQuery = q.Encode()
		return http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)

	case scenarioBody:
		raw, err := json.Marshal(map[string]string{opts.key: name})
		if err != nil {
			return nil, err
		}
		return jsonRequest(ctx, opts.target, raw)

	case scenarioMalformed:
		return jsonRequest(ctx, opts.target, []byte(`{"`+opts.key+`":`))

	default:
		return http.NewRequestWithContext(ctx, http.MethodGet, opts.target, nil)
	}
}

func jsonRequest(ctx context.Context, target string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func summarize(opts options, results []result, elapsed time.Duration) summary {
	report := summary{
		Target:      opts.target,
		Requests:    opts.requests,
		Sent:        len(results),
		Concurrency: opts.concurrency,
		DurationMS:  elapsed.Milliseconds(),
		StatusCodes: make(map[int]int),
		Sources:     make(map[scenario]map[string]int),
	}

	var latencies []time.Duration
	for _, r := range results {
		if r.err != nil || r.status < 200 || r.status > 299 {
			report.Failure++
		} else {
			report.Success++
		}
		if r.err != nil {
			continue
		}

		report.StatusCodes[r.status]++
		if report.Sources[r.scenario] == nil {
			report.Sources[r.scenario] = make(map[string]int)
		}
		report.Sources[r.scenario][strings.ToLower(r.source)]++
		latencies = append(latencies, r.duration)
	}

	if elapsed > 0 {
		report.ThroughputRPS = float64(len(results)) / elapsed.Seconds()
	}
	report.Latencies = latencyStats(latencies)

	return report
}

func latencyStats(durations []time.Duration) Latencies {
	if len(durations) == 0 {
		return Latencies{}
	}

	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}

	pick := func(p float64) float64 {
		return ms(sorted[int(float64(len(sorted)-1)*p)])
	}

	return Latencies{
		Min: ms(sorted[0]),
		Avg: ms(sum / time.Duration(len(sorted))),
		Max: ms(sorted[len(sorted)-1]),
		P50: pick(0.50),
		P90: pick(0.90),
		P95: pick(0.95),
		P99: pick(0.99),
	}
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
