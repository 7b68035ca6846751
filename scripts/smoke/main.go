// Command smoke probes a running report-card API instance and verifies that
// each configured endpoint answers with the expected status and a well formed
// response envelope. It exits non-zero when a critical check fails, which
// makes it usable as a deploy gate.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type check struct {
	Method       string `json:"method"`
	Path         string `json:"path"`
	ExpectStatus int    `json:"expect_status"`
	Token        string `json:"token"`
	Critical     bool   `json:"critical"`
}

type config struct {
	Checks []check `json:"checks"`
}

type result struct {
	Check    check
	Status   int
	Envelope bool
	Duration time.Duration
	Error    error
}

func main() {
	var (
		base       string
		checksPath string
		timeout    time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&checksPath, "checks", filepath.Join("scripts", "smoke", "checks.json"), "Path to JSON checks file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	checks, err := loadChecks(checksPath)
	if err != nil {
		log.Fatalf("failed to load checks: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		results  []result
		breaking int
		warnings int
	)

	for _, c := range checks {
		res := runCheck(client, base, c)
		if res.Error != nil || res.Status != c.ExpectStatus || !res.Envelope {
			if c.Critical {
				breaking++
			} else {
				warnings++
			}
		}
		results = append(results, res)
	}

	printReport(results)

	fmt.Printf("Failures: %d, Warnings: %d\n", breaking, warnings)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadChecks(path string) ([]check, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Checks) == 0 {
		return nil, fmt.Errorf("no checks defined in %s", path)
	}
	return cfg.Checks, nil
}

func runCheck(client *http.Client, base string, c check) result {
	res := result{Check: c}

	method := strings.ToUpper(strings.TrimSpace(c.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := c.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		res.Error = err
		return res
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = err
		return res
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Error = fmt.Errorf("read body: %w", err)
		return res
	}
	res.Envelope = wellFormed(resp.Header.Get("Content-Type"), body)
	return res
}

// wellFormed accepts any non-JSON payload (exports, metrics) and requires
// JSON payloads to carry a data or error key.
func wellFormed(contentType string, body []byte) bool {
	if !strings.Contains(contentType, "application/json") {
		return true
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return false
	}
	if _, ok := envelope["data"]; ok {
		return true
	}
	if _, ok := envelope["error"]; ok {
		return true
	}
	// Health and readiness endpoints answer with a bare status object.
	_, ok := envelope["status"]
	return ok
}

func printReport(results []result) {
	fmt.Println("Smoke Check Report")
	fmt.Println("==================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if res.Status != res.Check.ExpectStatus || !res.Envelope {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Check.Method, res.Check.Path)
		fmt.Printf("  Status: %d (want %d) in %s\n", res.Status, res.Check.ExpectStatus, res.Duration)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
		} else {
			fmt.Printf("  Envelope: %t | Critical: %t\n", res.Envelope, res.Check.Critical)
		}
	}
}
