package judge0

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"gitlab.com/fcv-2025.net/grader/internal/domain"
	"gitlab.com/fcv-2025.net/grader/internal/static/errs"
)

// Normalize decodes a raw submission document fetched with base64_encoded=true.
// Success is derived from the status id alone.
func Normalize(body []byte) (domain.ExecutionOutcome, error) {
	var raw rawResult
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.ExecutionOutcome{}, fmt.Errorf("%w: %v", errs.ErrMalformedResult, err)
	}
	return normalize(raw)
}

func normalize(raw rawResult) (domain.ExecutionOutcome, error) {
	if raw.Status == nil {
		return domain.ExecutionOutcome{}, fmt.Errorf("%w: missing status", errs.ErrMalformedResult)
	}

	outcome := domain.ExecutionOutcome{
		StatusID:    raw.Status.ID,
		Description: raw.Status.Description,
	}

	// ids up to StatusIDProcessing are non-terminal, including ones the judge never documents
	switch id := raw.Status.ID; {
	case id <= domain.StatusIDInQueue:
		outcome.Status = domain.ExecutionQueued
		return outcome, nil
	case id == domain.StatusIDProcessing:
		outcome.Status = domain.ExecutionProcessing
		return outcome, nil
	case id == domain.StatusIDAccepted:
		outcome.Status = domain.ExecutionCompleted
	default:
		outcome.Status = domain.ExecutionFailed
	}

	fields := []struct {
		name string
		src  *string
		dst  *string
	}{
		{"stdout", raw.Stdout, &outcome.Stdout},
		{"stderr", raw.Stderr, &outcome.Stderr},
		{"compile_output", raw.CompileOutput, &outcome.CompileOutput},
		{"message", raw.Message, &outcome.Message},
	}
	for _, f := range fields {
		text, err := decodeText(f.src)
		if err != nil {
			return domain.ExecutionOutcome{}, fmt.Errorf("%w: %s: %v", errs.ErrMalformedResult, f.name, err)
		}
		*f.dst = text
	}

	if raw.Time.Set {
		outcome.TimeSeconds = raw.Time.Value
	}
	if raw.Memory.Set {
		outcome.MemoryKB = int64(raw.Memory.Value)
	}
	return outcome, nil
}

// decodeText decodes a nullable base64 field. The judge wraps long values
// with newlines, which are not part of the encoding.
func decodeText(field *string) (string, error) {
	if field == nil || *field == "" {
		return "", nil
	}
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, *field)
	decoded, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func encodeText(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}
