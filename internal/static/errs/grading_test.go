package errs_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/fcv-2025.net/grader/internal/static/errs"
)

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "missing credentials", err: errs.ErrMissingCredentials, want: true},
		{name: "wrapped invalid credentials", err: fmt.Errorf("submit: %w", errs.ErrInvalidCredentials), want: true},
		{name: "unsupported language", err: fmt.Errorf("%w: brainfuck", errs.ErrUnsupportedLanguage), want: true},
		{name: "transport", err: fmt.Errorf("%w: connection refused", errs.ErrJudgeTransport), want: false},
		{name: "timeout", err: errs.ErrPollTimeout, want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errs.IsFatal(tt.err))
		})
	}
}

func TestIsConfiguration(t *testing.T) {
	assert.True(t, errs.IsConfiguration(errs.ErrMissingCredentials))
	assert.False(t, errs.IsConfiguration(errs.ErrUnsupportedLanguage))
}
