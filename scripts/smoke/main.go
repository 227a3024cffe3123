package main

import (
	"bytes"
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

type target struct {
	Name       string          `json:"name"`
	Method     string          `json:"method"`
	Path       string          `json:"path"`
	Body       json.RawMessage `json:"body,omitempty"`
	WantStatus int             `json:"want_status"`
	Critical   bool            `json:"critical"`
}

type plan struct {
	Targets []target `json:"targets"`
}

type result struct {
	Target   target
	Status   int
	Pass     bool
	Error    error
	Duration time.Duration
}

func main() {
	var (
		baseURL  string
		planPath string
		timeout  time.Duration
	)

	flag.StringVar(&baseURL, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&planPath, "plan", filepath.Join("scripts", "smoke", "targets.json"), "Path to JSON smoke plan")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadPlan(planPath)
	if err != nil {
		log.Fatalf("failed to load smoke plan: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	sessionID, err := openSession(client, baseURL)
	if err != nil {
		log.Fatalf("failed to open session: %v", err)
	}

	var (
		results  []result
		breaking int
		soft     int
	)

	for _, t := range targets {
		res := runTarget(client, baseURL, sessionID, t)
		if !res.Pass {
			if t.Critical {
				breaking++
			} else {
				soft++
			}
		}
		results = append(results, res)
	}

	printReport(results)

	fmt.Printf("Critical failures: %d, Soft failures: %d\n", breaking, soft)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadPlan(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if len(p.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return p.Targets, nil
}

// openSession makes an initial request and reads back the session ID the
// API mints, so every following request lands in the same planner session.
func openSession(client *http.Client, base string) (string, error) {
	resp, err := client.Get(strings.TrimRight(base, "/") + "/api/v1/courses")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	id := resp.Header.Get("X-Session-ID")
	if id == "" {
		return "", fmt.Errorf("server did not return X-Session-ID")
	}
	return id, nil
}

func runTarget(client *http.Client, base, sessionID string, tgt target) result {
	res := result{Target: tgt}

	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := strings.TrimRight(base, "/") + path

	var body io.Reader
	if len(tgt.Body) > 0 {
		body = bytes.NewReader(tgt.Body)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		res.Error = err
		return res
	}
	req.Header.Set("X-Session-ID", sessionID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = err
		return res
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	res.Status = resp.StatusCode
	want := tgt.WantStatus
	if want == 0 {
		want = http.StatusOK
	}
	res.Pass = res.Status == want
	return res
}

func printReport(results []result) {
	fmt.Println("Smoke Report")
	fmt.Println("============")
	for _, res := range results {
		status := "PASS"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.Pass {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s %s %s\n", status, res.Target.Method, res.Target.Path, res.Target.Name)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Status: %d, want %d (%s) | Critical: %t\n", res.Status, res.Target.WantStatus, res.Duration, res.Target.Critical)
	}
}
