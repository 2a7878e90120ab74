package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const narrative = "I was flying over my childhood home at night, and suddenly I was falling into the ocean."

func runCLI(t *testing.T, stdin string, args ...string) (int, output, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)

	var out output
	if stdout.Len() > 0 {
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &out), stdout.String())
	}
	return code, out, stderr.String()
}

func TestRun_Stdin(t *testing.T) {
	code, out, _ := runCLI(t, narrative, "-audio", "-tags", "lucid, ocean")

	assert.Equal(t, exitOK, code)
	require.NotNil(t, out.Evaluation)
	assert.NotEmpty(t, out.Evaluation.AITags)
	assert.Len(t, out.Evaluation.Emotions, 6)
	assert.Nil(t, out.Insights)
	assert.Empty(t, out.Error)
}

func TestRun_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dream.txt")
	require.NoError(t, os.WriteFile(path, []byte(narrative), 0o600))

	code, fromFile, _ := runCLI(t, "", path)
	require.Equal(t, exitOK, code)

	_, fromStdin, _ := runCLI(t, narrative)
	assert.Equal(t, fromStdin.Evaluation, fromFile.Evaluation)
}

func TestRun_Insights(t *testing.T) {
	code, out, _ := runCLI(t, narrative, "-insights")

	assert.Equal(t, exitOK, code)
	require.NotNil(t, out.Insights)
	assert.Contains(t, out.Insights.Interpretation, "Based on your dream")
}

func TestRun_ValidateTooShort(t *testing.T) {
	code, out, _ := runCLI(t, "I was flying.", "-validate")

	assert.Equal(t, exitInputShort, code)
	require.NotNil(t, out.Evaluation)
	assert.Contains(t, out.Error, "at least 20 characters")

	code, _, _ = runCLI(t, "I was flying.")
	assert.Equal(t, exitOK, code)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"negative likes", []string{"-likes", "-1"}},
		{"missing file", []string{filepath.Join(t.TempDir(), "nope.txt")}},
		{"unknown flag", []string{"-shiny"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, narrative, tt.args...)
			assert.Equal(t, exitError, code)
			assert.NotEmpty(t, stderr)
		})
	}
}

func TestSplitTags(t *testing.T) {
	assert.Nil(t, splitTags(""))
	assert.Equal(t, []string{"a", "b c"}, splitTags(" a ,, b c ,"))
}
