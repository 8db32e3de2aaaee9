package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-leaks-must-stop/internal/analysis"
	"github.com/Veraticus/the-leaks-must-stop/internal/common"
	"github.com/Veraticus/the-leaks-must-stop/internal/recurrence"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("LEAKS_TEST_DIR", "/tmp/leaks")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "tilde", in: "~", want: home},
		{name: "tilde prefix", in: "~/data/leaks.db", want: filepath.Join(home, "data/leaks.db")},
		{name: "env var", in: "$LEAKS_TEST_DIR/leaks.db", want: "/tmp/leaks/leaks.db"},
		{name: "plain", in: "/var/lib/leaks.db", want: "/var/lib/leaks.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestDatabasePath(t *testing.T) {
	resetViper(t)
	t.Setenv("HOME", "/home/tester")

	assert.Equal(t, "/home/tester/.local/share/leaks/leaks.db", DatabasePath())

	viper.Set("database.path", "/data/reports.db")
	assert.Equal(t, "/data/reports.db", DatabasePath())
}

func TestLoadLLMConfig(t *testing.T) {
	t.Run("anthropic from env", func(t *testing.T) {
		resetViper(t)
		t.Setenv("ANTHROPIC_API_KEY", "env-key")

		cfg, err := LoadLLMConfig()
		require.NoError(t, err)
		assert.Equal(t, "anthropic", cfg.Provider)
		assert.Equal(t, "env-key", cfg.APIKey)
		assert.Equal(t, 3, cfg.MaxRetries)
		assert.Equal(t, time.Second, cfg.RetryDelay)
		assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
		assert.Equal(t, analysis.DefaultEnrichTimeout, cfg.Timeout)
	})

	t.Run("openai from config", func(t *testing.T) {
		resetViper(t)
		viper.Set("llm.provider", "OpenAI")
		viper.Set("llm.openai_api_key", "cfg-key")
		viper.Set("llm.model", "gpt-4o-mini")
		viper.Set("llm.max_retries", 5)

		cfg, err := LoadLLMConfig()
		require.NoError(t, err)
		assert.Equal(t, "openai", cfg.Provider)
		assert.Equal(t, "cfg-key", cfg.APIKey)
		assert.Equal(t, "gpt-4o-mini", cfg.Model)
		assert.Equal(t, 5, cfg.MaxRetries)
	})

	t.Run("gemini from env", func(t *testing.T) {
		resetViper(t)
		viper.Set("llm.provider", "gemini")
		t.Setenv("GEMINI_API_KEY", "gem-key")

		cfg, err := LoadLLMConfig()
		require.NoError(t, err)
		assert.Equal(t, "gemini", cfg.Provider)
		assert.Equal(t, "gem-key", cfg.APIKey)
	})

	t.Run("missing key", func(t *testing.T) {
		resetViper(t)
		t.Setenv("ANTHROPIC_API_KEY", "")

		_, err := LoadLLMConfig()
		assert.ErrorIs(t, err, common.ErrMissingConfig)
	})

	t.Run("unknown provider", func(t *testing.T) {
		resetViper(t)
		viper.Set("llm.provider", "carrier-pigeon")

		_, err := LoadLLMConfig()
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}

func TestLoadPlaidConfig(t *testing.T) {
	resetViper(t)

	_, err := LoadPlaidConfig()
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	viper.Set("plaid.client_id", "id")
	viper.Set("plaid.secret", "secret")
	viper.Set("plaid.access_token", "access-sandbox-123")

	cfg, err := LoadPlaidConfig()
	require.NoError(t, err)
	assert.Equal(t, "sandbox", cfg.Environment)
	assert.Equal(t, "access-sandbox-123", cfg.AccessToken)
}

func TestKeywords(t *testing.T) {
	resetViper(t)
	viper.Set("keywords.known_subscriptions", []string{"MILKRUN PLUS"})
	viper.Set("keywords.fees", []string{"SURCHARGE"})
	viper.Set("keywords.food_delivery", []string{"MILKRUN"})

	kw := LoadKeywords()

	detector := kw.DetectorConfig()
	assert.Contains(t, detector.KnownSubscriptions, "MILKRUN PLUS")
	assert.Len(t, detector.KnownSubscriptions, len(recurrence.DefaultConfig().KnownSubscriptions)+1)

	leaks := kw.AnalysisKeywords()
	assert.Contains(t, leaks.Fees, "SURCHARGE")
	assert.Contains(t, leaks.FoodDelivery, "MILKRUN")
	assert.Contains(t, leaks.FoodDelivery, "DOORDASH")
}

func TestKeywordsEmpty(t *testing.T) {
	resetViper(t)

	kw := LoadKeywords()
	assert.Equal(t, recurrence.DefaultConfig().KnownSubscriptions, kw.DetectorConfig().KnownSubscriptions)
	assert.Equal(t, analysis.DefaultKeywords(), kw.AnalysisKeywords())
}

func TestLoadSheetsConfig(t *testing.T) {
	t.Run("service account from viper", func(t *testing.T) {
		resetViper(t)
		viper.Set("sheets.service_account_path", "/keys/sa.json")
		viper.Set("sheets.spreadsheet_id", "sheet-123")

		cfg, err := LoadSheetsConfig()
		require.NoError(t, err)
		assert.Equal(t, "/keys/sa.json", cfg.ServiceAccountPath)
		assert.Equal(t, "sheet-123", cfg.SpreadsheetID)
	})

	t.Run("oauth from environment", func(t *testing.T) {
		resetViper(t)
		t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "")
		t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "client")
		t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "secret")
		t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "refresh")
		t.Setenv("GOOGLE_SHEETS_SPREADSHEET_NAME", "My Leaks")

		cfg, err := LoadSheetsConfig()
		require.NoError(t, err)
		assert.True(t, cfg.HasOAuth())
		assert.Equal(t, "My Leaks", cfg.SpreadsheetName)
	})

	t.Run("no credentials", func(t *testing.T) {
		resetViper(t)
		for _, key := range []string{
			"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "GOOGLE_SHEETS_CLIENT_ID",
			"GOOGLE_SHEETS_CLIENT_SECRET", "GOOGLE_SHEETS_REFRESH_TOKEN",
		} {
			t.Setenv(key, "")
		}

		_, err := LoadSheetsConfig()
		assert.ErrorIs(t, err, common.ErrMissingConfig)
	})
}
