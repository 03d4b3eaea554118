package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type JudgeConfig struct {
	BaseURL string
	// RapidAPI style credentials
	APIKey  string
	APIHost string
	// self-hosted judge credentials, sent as X-Auth-Token
	AuthToken          string
	RequireCredentials bool
	RequestTimeout     time.Duration
	// LanguageOverrides maps logical language names to judge ids, extending
	// or replacing the built-in table.
	LanguageOverrides map[string]int
}

func NewJudgeConfig() *JudgeConfig {
	timeoutSec, err := strconv.Atoi(os.Getenv("JUDGE_REQUEST_TIMEOUT_SEC"))
	if err != nil || timeoutSec <= 0 {
		timeoutSec = 10
	}
	return &JudgeConfig{
		BaseURL:            strings.TrimRight(getEnv("JUDGE_BASE_URL", "https://judge0-ce.p.rapidapi.com"), "/"),
		APIKey:             os.Getenv("JUDGE_API_KEY"),
		APIHost:            getEnv("JUDGE_API_HOST", "judge0-ce.p.rapidapi.com"),
		AuthToken:          os.Getenv("JUDGE_AUTH_TOKEN"),
		RequireCredentials: os.Getenv("JUDGE_REQUIRE_CREDENTIALS") != "false",
		RequestTimeout:     time.Duration(timeoutSec) * time.Second,
		LanguageOverrides:  ParseLanguageOverrides(os.Getenv("JUDGE_LANGUAGE_OVERRIDES")),
	}
}

// ParseLanguageOverrides reads "python=92,cpp=76". Malformed entries are skipped.
func ParseLanguageOverrides(raw string) map[string]int {
	overrides := make(map[string]int)
	for _, entry := range strings.Split(raw, ",") {
		name, id, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok {
			continue
		}
		langID, err := strconv.Atoi(strings.TrimSpace(id))
		if err != nil || langID <= 0 {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		overrides[name] = langID
	}
	return overrides
}
