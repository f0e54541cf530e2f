package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Endpoint is one proxy operation exercised by the load test
type Endpoint struct {
	Name   string
	Method string
	Path   string
	Body   string
}

// Endpoints are the proxy operations, requested round-robin by every user
var Endpoints = []Endpoint{
	{Name: "rates", Method: http.MethodGet, Path: "/api/rates"},
	{Name: "symbols", Method: http.MethodGet, Path: "/api/symbols"},
	{Name: "convert", Method: http.MethodPost, Path: "/api/convert", Body: `{"from":"USD","to":"EUR"}`},
	{Name: "historical", Method: http.MethodPost, Path: "/api/historical", Body: `{"date":"2020-01-01"}`},
}

// LoadTestConfig holds configuration for load testing
type LoadTestConfig struct {
	BaseURL         string
	Only            string
	ConcurrentUsers int
	RequestsPerUser int
	Timeout         time.Duration
	TestDuration    time.Duration
	RampUpDuration  time.Duration
	ThinkTime       time.Duration
}

// LoadTestResult holds the result of a single request
type LoadTestResult struct {
	UserID     int
	RequestID  int
	Endpoint   string
	StatusCode int
	Duration   time.Duration
	Success    bool
	Error      error
	Timestamp  time.Time
}

// LoadTestSummary holds the summary of load test results
type LoadTestSummary struct {
	TotalRequests       int
	SuccessfulRequests  int
	FailedRequests      int
	TotalDuration       time.Duration
	AverageResponseTime time.Duration
	MinResponseTime     time.Duration
	MaxResponseTime     time.Duration
	RequestsPerSecond   float64
	ErrorRate           float64
	ResponseTime95th    time.Duration
	ResponseTime99th    time.Duration
}

func main() {
	var config LoadTestConfig

	flag.StringVar(&config.BaseURL, "url", "http://localhost:3000", "Base URL of the proxy")
	flag.StringVar(&config.Only, "endpoint", "", "Only exercise this endpoint (rates, symbols, convert, historical)")
	flag.IntVar(&config.ConcurrentUsers, "users", 10, "Number of concurrent users")
	flag.IntVar(&config.RequestsPerUser, "requests", 100, "Number of requests per user")
	flag.DurationVar(&config.Timeout, "timeout", 30*time.Second, "Request timeout")
	flag.DurationVar(&config.TestDuration, "duration", 0, "Test duration (0 = run until all requests complete)")
	flag.DurationVar(&config.RampUpDuration, "rampup", 5*time.Second, "Ramp-up duration")
	flag.DurationVar(&config.ThinkTime, "think", 100*time.Millisecond, "Think time between requests")
	flag.Parse()

	if config.ConcurrentUsers < 1 {
		config.ConcurrentUsers = 1
	}

	fmt.Printf("Starting load test...\n")
	fmt.Printf("URL: %s\n", config.BaseURL)
	fmt.Printf("Concurrent Users: %d\n", config.ConcurrentUsers)
	fmt.Printf("Requests per User: %d\n", config.RequestsPerUser)
	fmt.Printf("Timeout: %v\n", config.Timeout)
	fmt.Printf("Ramp-up Duration: %v\n", config.RampUpDuration)
	fmt.Printf("Think Time: %v\n", config.ThinkTime)
	fmt.Printf("Test Duration: %v\n", config.TestDuration)
	fmt.Println()

	endpoints, err := selectEndpoints(config.Only)
	if err != nil {
		fmt.Println(err)
		return
	}

	// Run load test
	summary := runLoadTest(config, endpoints)

	// Print results
	printSummary(summary)
}

func selectEndpoints(only string) ([]Endpoint, error) {
	if only == "" {
		return Endpoints, nil
	}
	for _, endpoint := range Endpoints {
		if endpoint.Name == only {
			return []Endpoint{endpoint}, nil
		}
	}
	return nil, fmt.Errorf("unknown endpoint %q", only)
}

func runLoadTest(config LoadTestConfig, endpoints []Endpoint) LoadTestSummary {
	results := make(chan LoadTestResult, config.ConcurrentUsers*config.RequestsPerUser)

	// Create HTTP client with timeout
	client := &http.Client{
		Timeout: config.Timeout,
	}

	// Start time
	startTime := time.Now()

	// Create context for test duration
	ctx := context.Background()
	if config.TestDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.TestDuration)
		defer cancel()
	}

	// Launch user goroutines
	group, groupCtx := errgroup.WithContext(ctx)
	rampUpDelay := config.RampUpDuration / time.Duration(config.ConcurrentUsers)

	for userID := 0; userID < config.ConcurrentUsers; userID++ {
		uid := userID
		group.Go(func() error {
			// Ramp-up delay
			if !sleep(groupCtx, time.Duration(uid)*rampUpDelay) {
				return nil
			}

			// Make requests
			for reqID := 0; reqID < config.RequestsPerUser; reqID++ {
				if groupCtx.Err() != nil {
					return nil
				}

				endpoint := endpoints[(uid+reqID)%len(endpoints)]
				results <- makeRequest(groupCtx, client, config.BaseURL, endpoint, uid, reqID)

				// Think time
				if !sleep(groupCtx, config.ThinkTime) {
					return nil
				}
			}
			return nil
		})
	}

	// Wait for all users to complete
	_ = group.Wait()
	close(results)

	totalDuration := time.Since(startTime)

	// Process results
	return processResults(results, totalDuration)
}

// sleep waits for d and reports false when ctx ended first
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func makeRequest(ctx context.Context, client *http.Client, baseURL string, endpoint Endpoint, userID, requestID int) LoadTestResult {
	start := time.Now()

	result := LoadTestResult{
		UserID:    userID,
		RequestID: requestID,
		Endpoint:  endpoint.Name,
		Timestamp: start,
	}

	req, err := http.NewRequestWithContext(ctx, endpoint.Method, strings.TrimRight(baseURL, "/")+endpoint.Path, strings.NewReader(endpoint.Body))
	if err != nil {
		result.Error = err
		return result
	}
	if endpoint.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	result.Duration = time.Since(start)
	result.Error = err

	if err != nil {
		result.Success = false
		result.StatusCode = 0
		return result
	}

	result.StatusCode = resp.StatusCode
	result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300

	// Read response body to ensure complete request
	if resp.Body != nil {
		resp.Body.Close()
	}

	return result
}

func processResults(results <-chan LoadTestResult, totalDuration time.Duration) LoadTestSummary {
	var summary LoadTestSummary
	var responseTimes []time.Duration

	summary.TotalDuration = totalDuration

	for result := range results {
		summary.TotalRequests++
		responseTimes = append(responseTimes, result.Duration)

		if result.Success {
			summary.SuccessfulRequests++
		} else {
			summary.FailedRequests++
		}
	}

	if summary.TotalRequests == 0 {
		return summary
	}

	// Calculate metrics
	summary.ErrorRate = float64(summary.FailedRequests) / float64(summary.TotalRequests) * 100
	summary.RequestsPerSecond = float64(summary.TotalRequests) / totalDuration.Seconds()

	// Calculate response time statistics
	if len(responseTimes) > 0 {
		var totalResponseTime time.Duration
		summary.MinResponseTime = responseTimes[0]
		summary.MaxResponseTime = responseTimes[0]

		for _, rt := range responseTimes {
			totalResponseTime += rt
			if rt < summary.MinResponseTime {
				summary.MinResponseTime = rt
			}
			if rt > summary.MaxResponseTime {
				summary.MaxResponseTime = rt
			}
		}

		summary.AverageResponseTime = totalResponseTime / time.Duration(len(responseTimes))

		// Calculate percentiles
		summary.ResponseTime95th = calculatePercentile(responseTimes, 95)
		summary.ResponseTime99th = calculatePercentile(responseTimes, 99)
	}

	return summary
}

func calculatePercentile(times []time.Duration, percentile int) time.Duration {
	if len(times) == 0 {
		return 0
	}

	sorted := append([]time.Duration(nil), times...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	index := int(float64(len(sorted)) * float64(percentile) / 100.0)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}

func printSummary(summary LoadTestSummary) {
	fmt.Println("=== Load Test Results ===")
	fmt.Printf("Total Requests: %d\n", summary.TotalRequests)
	fmt.Printf("Successful Requests: %d (%.2f%%)\n", summary.SuccessfulRequests,
		float64(summary.SuccessfulRequests)/float64(summary.TotalRequests)*100)
	fmt.Printf("Failed Requests: %d (%.2f%%)\n", summary.FailedRequests, summary.ErrorRate)
	fmt.Printf("Total Duration: %v\n", summary.TotalDuration)
	fmt.Printf("Requests per Second: %.2f\n", summary.RequestsPerSecond)
	fmt.Printf("Average Response Time: %v\n", summary.AverageResponseTime)
	fmt.Printf("Min Response Time: %v\n", summary.MinResponseTime)
	fmt.Printf("Max Response Time: %v\n", summary.MaxResponseTime)
	fmt.Printf("95th Percentile Response Time: %v\n", summary.ResponseTime95th)
	fmt.Printf("99th Percentile Response Time: %v\n", summary.ResponseTime99th)

	// Performance assessment
	fmt.Println("\n=== Performance Assessment ===")
	if summary.ErrorRate > 5.0 {
		fmt.Printf("⚠️  High error rate: %.2f%% (target: < 5%%)\n", summary.ErrorRate)
	} else {
		fmt.Printf("✅ Error rate: %.2f%% (good)\n", summary.ErrorRate)
	}

	if summary.AverageResponseTime > 2*time.Second {
		fmt.Printf("⚠️  High average response time: %v (target: < 2s)\n", summary.AverageResponseTime)
	} else {
		fmt.Printf("✅ Average response time: %v (good)\n", summary.AverageResponseTime)
	}

	if summary.RequestsPerSecond < 10 {
		fmt.Printf("⚠️  Low throughput: %.2f req/s (target: > 10 req/s)\n", summary.RequestsPerSecond)
	} else {
		fmt.Printf("✅ Throughput: %.2f req/s (good)\n", summary.RequestsPerSecond)
	}
}
