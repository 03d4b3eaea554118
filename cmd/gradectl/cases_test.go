package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCases(t *testing.T) {
	data := []byte(`
language = "cpp"
cpu_time_limit = 1.5

[[cases]]
input = "1 2"
expected_output = "3"
points = 20

[[cases]]
input = """
3
4 5 6
"""
expected_output = "15"
`)

	file, err := parseCases(data)

	require.NoError(t, err)
	assert.Equal(t, "cpp", file.Language)
	assert.InDelta(t, 1.5, file.CPUTimeLimit, 1e-9)
	assert.Zero(t, file.MemoryLimit)
	require.Len(t, file.Cases, 2)
	require.NotNil(t, file.Cases[0].Points)
	assert.Equal(t, 20, *file.Cases[0].Points)
	assert.Nil(t, file.Cases[1].Points)
	assert.Equal(t, "3\n4 5 6\n", file.Cases[1].Input)
}

func TestParseCasesRejectsBadInput(t *testing.T) {
	_, err := parseCases([]byte(`[[cases]`))
	require.Error(t, err)

	_, err = parseCases([]byte("[[cases]]\ninput = \"1\"\npoints = -5\n"))
	require.Error(t, err)

	_, err = parseCases([]byte("memory_limit = -1\n"))
	require.Error(t, err)
}

func TestLoadCasesMissingFile(t *testing.T) {
	_, err := loadCases("does-not-exist.toml")
	require.Error(t, err)
}
