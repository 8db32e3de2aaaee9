// Package config turns viper settings into component configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/the-leaks-must-stop/internal/analysis"
	"github.com/Veraticus/the-leaks-must-stop/internal/common"
	"github.com/Veraticus/the-leaks-must-stop/internal/llm"
	"github.com/Veraticus/the-leaks-must-stop/internal/plaid"
	"github.com/Veraticus/the-leaks-must-stop/internal/recurrence"
)

// DefaultDatabasePath is used when database.path is unset.
const DefaultDatabasePath = "$HOME/.local/share/leaks/leaks.db"

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DatabasePath returns the expanded report history location.
func DatabasePath() string {
	path := viper.GetString("database.path")
	if path == "" {
		path = DefaultDatabasePath
	}
	return ExpandPath(path)
}

// ConfigDir is where tokens and the default config file live.
func ConfigDir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "leaks"), nil
}

// LoadLLMConfig reads llm.* settings. The API key falls back to the
// provider's usual environment variable.
func LoadLLMConfig() (llm.Config, error) {
	provider := strings.ToLower(viper.GetString("llm.provider"))
	if provider == "" {
		provider = "anthropic"
	}

	cfg := llm.Config{
		Provider:      provider,
		Model:         viper.GetString("llm.model"),
		BaseURL:       viper.GetString("llm.base_url"),
		Temperature:   viper.GetFloat64("llm.temperature"),
		MaxTokens:     viper.GetInt("llm.max_tokens"),
		MaxRetries:    viper.GetInt("llm.max_retries"),
		RetryDelay:    viper.GetDuration("llm.retry_delay"),
		CacheTTL:      viper.GetDuration("llm.cache_ttl"),
		RateLimit:     viper.GetInt("llm.rate_limit"),
		MaxConcurrent: viper.GetInt("llm.max_concurrent"),
		Timeout:       viper.GetDuration("llm.timeout"),
	}

	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = analysis.DefaultEnrichTimeout
	}

	var keyName, envName string
	switch provider {
	case "anthropic":
		keyName, envName = "llm.anthropic_api_key", "ANTHROPIC_API_KEY"
	case "openai":
		keyName, envName = "llm.openai_api_key", "OPENAI_API_KEY"
	case "gemini":
		keyName, envName = "llm.gemini_api_key", "GEMINI_API_KEY"
	default:
		return llm.Config{}, fmt.Errorf("%w: unsupported LLM provider %q", common.ErrInvalidConfig, provider)
	}

	cfg.APIKey = viper.GetString(keyName)
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(envName)
	}
	if cfg.APIKey == "" {
		return llm.Config{}, fmt.Errorf("%w: %s API key not found in %s or %s", common.ErrMissingConfig, provider, keyName, envName)
	}

	return cfg, nil
}

// LoadPlaidConfig reads plaid.* settings and validates them.
func LoadPlaidConfig() (plaid.Config, error) {
	cfg := plaid.Config{
		ClientID:    viper.GetString("plaid.client_id"),
		Secret:      viper.GetString("plaid.secret"),
		Environment: viper.GetString("plaid.environment"),
		AccessToken: viper.GetString("plaid.access_token"),
	}
	if cfg.Environment == "" {
		cfg.Environment = "sandbox"
	}
	if err := cfg.Validate(); err != nil {
		return plaid.Config{}, err
	}
	return cfg, nil
}

// Keywords are user additions to the built-in keyword tables.
type Keywords struct {
	KnownSubscriptions []string
	Fees               []string
	FoodDelivery       []string
}

// LoadKeywords reads keywords.* settings.
func LoadKeywords() Keywords {
	return Keywords{
		KnownSubscriptions: viper.GetStringSlice("keywords.known_subscriptions"),
		Fees:               viper.GetStringSlice("keywords.fees"),
		FoodDelivery:       viper.GetStringSlice("keywords.food_delivery"),
	}
}

// DetectorConfig returns the default detector tables plus any extra known
// subscription keywords.
func (k Keywords) DetectorConfig() recurrence.Config {
	cfg := recurrence.DefaultConfig()
	cfg.KnownSubscriptions = append(append([]string(nil), cfg.KnownSubscriptions...), k.KnownSubscriptions...)
	return cfg
}

// AnalysisKeywords returns the default leak keywords plus any extras.
func (k Keywords) AnalysisKeywords() analysis.Keywords {
	return analysis.DefaultKeywords().WithExtra(k.Fees, k.FoodDelivery)
}
