package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/Veraticus/the-leaks-must-stop/internal/sheets"
)

type sheetsBinding struct {
	target *string
	key    string
	env    string
	path   bool
}

// LoadSheetsConfig builds the export configuration. Values from viper
// (config file or LEAKS_SHEETS_* env) take precedence over the plain
// GOOGLE_SHEETS_* variables.
func LoadSheetsConfig() (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	bindings := []sheetsBinding{
		{target: &cfg.ServiceAccountPath, key: "sheets.service_account_path", env: "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", path: true},
		{target: &cfg.ClientID, key: "sheets.client_id", env: "GOOGLE_SHEETS_CLIENT_ID"},
		{target: &cfg.ClientSecret, key: "sheets.client_secret", env: "GOOGLE_SHEETS_CLIENT_SECRET"},
		{target: &cfg.RefreshToken, key: "sheets.refresh_token", env: "GOOGLE_SHEETS_REFRESH_TOKEN"},
		{target: &cfg.SpreadsheetID, key: "sheets.spreadsheet_id", env: "GOOGLE_SHEETS_SPREADSHEET_ID"},
		{target: &cfg.TimeZone, key: "sheets.timezone"},
	}

	for _, b := range bindings {
		v := viper.GetString(b.key)
		if v == "" && b.env != "" {
			v = os.Getenv(b.env)
		}
		if v == "" {
			continue
		}
		if b.path {
			v = ExpandPath(v)
		}
		*b.target = v
	}

	// The name has a non-empty default, so the env fallback only applies
	// while it is untouched.
	if v := viper.GetString("sheets.spreadsheet_name"); v != "" {
		cfg.SpreadsheetName = v
	} else if v := os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"); v != "" {
		cfg.SpreadsheetName = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
