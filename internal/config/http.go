package config

import (
	"os"
	"strconv"
	"time"
)

type HTTPConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

func NewHTTPConfig() *HTTPConfig {
	port, err := strconv.Atoi(os.Getenv("HTTP_PORT"))
	if err != nil || port <= 0 {
		port = 8082
	}
	// grading requests extend their own write deadline past this to cover their budget
	writeTimeoutSec, err := strconv.Atoi(os.Getenv("HTTP_WRITE_TIMEOUT_SEC"))
	if err != nil || writeTimeoutSec <= 0 {
		writeTimeoutSec = 600
	}
	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Duration(writeTimeoutSec) * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
