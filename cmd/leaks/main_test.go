package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-leaks-must-stop/internal/common"
	"github.com/Veraticus/the-leaks-must-stop/internal/model"
)

const netflixCSV = "Date,Description,Amount\n01/01/2025,NETFLIX.COM,15.99\n01/02/2025,NETFLIX.COM,15.99\n01/03/2025,NETFLIX.COM,15.99\n"

// execute runs the CLI in-process with an isolated home directory.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func setupEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("LEAKS_DATABASE_PATH", filepath.Join(home, "leaks.db"))
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	return home
}

func writeStatement(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "statement.csv")
	require.NoError(t, os.WriteFile(path, []byte(netflixCSV), 0600))
	return path
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"analyze", "parse", "redact", "history", "export", "auth", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestVersionCmd(t *testing.T) {
	setupEnv(t)
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "leaks version dev\n", stdout)
}

func TestAnalyzeJSON(t *testing.T) {
	home := setupEnv(t)
	path := writeStatement(t, home)

	stdout, _, err := execute(t, "analyze", path, "--no-llm", "--format", "json")
	require.NoError(t, err)

	var report model.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, 3, report.TransactionCount)
	require.Len(t, report.Subscriptions, 1)
	assert.Equal(t, "NETFLIX.COM", report.Subscriptions[0].Merchant)
	assert.False(t, report.Enriched)
}

func TestAnalyzeWithoutLLMKeyStillWorks(t *testing.T) {
	home := setupEnv(t)
	path := writeStatement(t, home)

	stdout, _, err := execute(t, "analyze", path, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"transactionCount": 3`)
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no input", args: []string{"analyze", "--no-llm"}},
		{name: "bad format", args: []string{"analyze", "x.csv", "--format", "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupEnv(t)
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)

			var userErr *common.UserError
			assert.ErrorAs(t, err, &userErr)
		})
	}
}

func TestSaveAndHistory(t *testing.T) {
	home := setupEnv(t)
	path := writeStatement(t, home)

	stdout, _, err := execute(t, "analyze", path, "--no-llm", "--save", "--format", "json")
	require.NoError(t, err)

	var report model.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	require.NotEmpty(t, report.ID)

	stdout, _, err = execute(t, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, report.ID)

	stdout, _, err = execute(t, "history", "show", report.ID, "--format", "json")
	require.NoError(t, err)
	var shown model.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &shown))
	assert.Equal(t, report.ID, shown.ID)
	assert.InDelta(t, report.MonthlyLeak, shown.MonthlyLeak, 0.001)

	stdout, _, err = execute(t, "history", "show", report.ID, "--transactions")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "date,description,category,amount", lines[0])

	_, _, err = execute(t, "history", "delete", report.ID)
	require.NoError(t, err)

	_, _, err = execute(t, "history", "show", report.ID)
	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestHistoryListEmpty(t *testing.T) {
	setupEnv(t)
	stdout, _, err := execute(t, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No saved reports yet")
}

func TestParseOutputs(t *testing.T) {
	home := setupEnv(t)
	path := writeStatement(t, home)

	stdout, _, err := execute(t, "parse", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "date,"))
	assert.Contains(t, lines[1], "NETFLIX.COM")

	stdout, _, err = execute(t, "parse", path, "--output", "json")
	require.NoError(t, err)
	var txns []model.Transaction
	require.NoError(t, json.Unmarshal([]byte(stdout), &txns))
	require.Len(t, txns, 3)
	assert.NotEmpty(t, txns[0].Category)

	_, _, err = execute(t, "parse", path, "--output", "xml")
	assert.Error(t, err)
}

func TestWriteRedacted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRedacted(&buf, []model.RedactedTransaction{
		{Date: "2024-01-15", Description: "TRANSFER TO [REDACTED]", Amount: 50, Category: model.CategoryTransfers},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "date,description,category,amount", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2024-01-15,TRANSFER TO [REDACTED],Transfers,"))
}

func TestRedactCmdRequiresFiles(t *testing.T) {
	setupEnv(t)
	_, _, err := execute(t, "redact")
	assert.Error(t, err)
}

func TestSetupLoggingRejectsBadFormat(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("logging.level", "debug")
	viper.Set("logging.format", "xml")
	assert.ErrorIs(t, setupLogging(), common.ErrInvalidConfig)

	viper.Set("logging.format", "json")
	assert.NoError(t, setupLogging())
}
