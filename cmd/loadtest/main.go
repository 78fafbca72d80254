// Command loadtest seeds the search service with generated documents and
// hammers the search endpoint from concurrent workers, reporting throughput
// and latency percentiles.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

var vocabulary = []string{
	"search", "index", "document", "query", "token", "ranking", "score",
	"engine", "cache", "cluster", "latency", "storage", "system", "data",
	"network", "request", "response", "server", "client", "stream",
}

type result struct {
	latency time.Duration
	status  int
	err     error
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "service base URL")
	seedDocs := flag.Int("docs", 1000, "documents to seed before the run")
	workers := flag.Int("workers", 10, "concurrent search workers")
	requests := flag.Int("requests", 5000, "total search requests")
	apiKey := flag.String("api-key", "", "X-API-Key header value, if auth is enabled")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	fmt.Printf("seeding %d documents...\n", *seedDocs)
	if err := seed(client, *baseURL, *apiKey, *seedDocs); err != nil {
		fmt.Fprintf(os.Stderr, "seeding failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("running %d searches across %d workers...\n", *requests, *workers)
	results := run(client, *baseURL, *apiKey, *workers, *requests)
	report(results)
}

func seed(client *http.Client, baseURL, apiKey string, n int) error {
	for i := 0; i < n; i++ {
		body, _ := json.Marshal(map[string]string{"text": randomText(5 + rand.Intn(50))})
		req, err := http.NewRequest(http.MethodPost, baseURL+"/document", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		if apiKey != "" {
			req.Header.Set("X-API-Key", apiKey)
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("seed request %d returned status %d", i, resp.StatusCode)
		}
	}
	return nil
}

func run(client *http.Client, baseURL, apiKey string, workers, total int) []result {
	jobs := make(chan int)
	out := make(chan result, total)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				out <- search(client, baseURL, apiKey)
			}
		}()
	}

	start := time.Now()
	for i := 0; i < total; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(out)
	elapsed := time.Since(start)

	results := make([]result, 0, total)
	for r := range out {
		results = append(results, r)
	}
	fmt.Printf("completed in %v (%.1f req/s)\n", elapsed.Round(time.Millisecond),
		float64(total)/elapsed.Seconds())
	return results
}

func search(client *http.Client, baseURL, apiKey string) result {
	q := url.Values{}
	q.Set("q", randomText(1+rand.Intn(3)))
	req, err := http.NewRequest(http.MethodGet, baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return result{err: err}
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	start := time.Now()
	resp, err := client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return result{latency: latency, err: err}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{latency: latency, status: resp.StatusCode}
}

func report(results []result) {
	var latencies []time.Duration
	var errors, non200 int
	for _, r := range results {
		if r.err != nil {
			errors++
			continue
		}
		if r.status != http.StatusOK {
			non200++
		}
		latencies = append(latencies, r.latency)
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	fmt.Printf("errors: %d, non-200: %d\n", errors, non200)
	if len(latencies) == 0 {
		return
	}
	fmt.Printf("latency p50: %v\n", percentile(latencies, 0.50))
	fmt.Printf("latency p95: %v\n", percentile(latencies, 0.95))
	fmt.Printf("latency p99: %v\n", percentile(latencies, 0.99))
	fmt.Printf("latency max: %v\n", latencies[len(latencies)-1])
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	idx := int(p * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func randomText(words int) string {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = vocabulary[rand.Intn(len(vocabulary))]
	}
	return strings.Join(parts, " ")
}
