package config

import (
	"os"
	"strconv"
	"time"
)

type GradingConfig struct {
	PollInterval    time.Duration
	MaxPollAttempts int
	// SubmitRetries is how many times a submit that failed in transport is retried
	SubmitRetries int
	// Concurrency bounds how many test cases of one submission are in flight; 1 is sequential
	Concurrency         int
	DefaultCPUTimeLimit float64 // seconds
	DefaultMemoryLimit  int     // KB
}

func NewGradingConfig() *GradingConfig {
	intervalMs, err := strconv.Atoi(os.Getenv("JUDGE_POLL_INTERVAL_MS"))
	if err != nil || intervalMs <= 0 {
		intervalMs = 1000
	}
	maxAttempts, err := strconv.Atoi(os.Getenv("JUDGE_POLL_MAX_ATTEMPTS"))
	if err != nil || maxAttempts <= 0 {
		maxAttempts = 30
	}
	retries, err := strconv.Atoi(os.Getenv("JUDGE_SUBMIT_RETRIES"))
	if err != nil || retries < 0 {
		retries = 0
	}
	concurrency, err := strconv.Atoi(os.Getenv("GRADING_CONCURRENCY"))
	if err != nil || concurrency <= 0 {
		concurrency = 1
	}
	cpuLimit, err := strconv.ParseFloat(os.Getenv("JUDGE_DEFAULT_CPU_TIME_LIMIT"), 64)
	if err != nil || cpuLimit <= 0 {
		cpuLimit = 2
	}
	memLimit, err := strconv.Atoi(os.Getenv("JUDGE_DEFAULT_MEMORY_LIMIT_KB"))
	if err != nil || memLimit <= 0 {
		memLimit = 128000
	}
	return &GradingConfig{
		PollInterval:        time.Duration(intervalMs) * time.Millisecond,
		MaxPollAttempts:     maxAttempts,
		SubmitRetries:       retries,
		Concurrency:         concurrency,
		DefaultCPUTimeLimit: cpuLimit,
		DefaultMemoryLimit:  memLimit,
	}
}

// PollBudget is the longest a single dispatched run may wait for the judge
func (c *GradingConfig) PollBudget() time.Duration {
	return time.Duration(c.MaxPollAttempts) * c.PollInterval
}
