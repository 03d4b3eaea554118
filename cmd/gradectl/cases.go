package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"gitlab.com/fcv-2025.net/grader/internal/domain"
)

// caseFile is the TOML layout accepted by `gradectl grade --cases`:
//
//	language = "python"
//	cpu_time_limit = 2.0
//	memory_limit = 128000
//
//	[[cases]]
//	input = "1 2"
//	expected_output = "3"
//	points = 20
type caseFile struct {
	Language     string            `toml:"language"`
	CPUTimeLimit float64           `toml:"cpu_time_limit"`
	MemoryLimit  int               `toml:"memory_limit"`
	Cases        []domain.TestCase `toml:"cases"`
}

func loadCases(path string) (*caseFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cases file: %w", err)
	}
	return parseCases(data)
}

func parseCases(data []byte) (*caseFile, error) {
	var file caseFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if file.CPUTimeLimit < 0 || file.MemoryLimit < 0 {
		return nil, fmt.Errorf("limits must not be negative")
	}
	for i, tc := range file.Cases {
		if tc.Points != nil && *tc.Points < 0 {
			return nil, fmt.Errorf("case %d: points must not be negative", i)
		}
	}
	return &file, nil
}
