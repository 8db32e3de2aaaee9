package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/sheets/v4"
)

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	expiry := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, saveToken(path, &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       expiry,
	}))

	token, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "access", token.AccessToken)
	assert.Equal(t, "refresh", token.RefreshToken)
	assert.True(t, token.Expiry.Equal(expiry))
}

func TestLoadTokenMissing(t *testing.T) {
	_, err := LoadToken(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestRefreshTokenIfNeededKeepsValidToken(t *testing.T) {
	token := &oauth2.Token{AccessToken: "still-good", Expiry: time.Now().Add(time.Hour)}

	got, err := RefreshTokenIfNeeded(context.Background(), OAuth2Config{}, token)
	require.NoError(t, err)
	assert.Same(t, token, got)
}

func TestOAuthConfig(t *testing.T) {
	cfg := oauthConfig("id", "secret", "http://localhost:8080/callback")
	assert.Equal(t, "id", cfg.ClientID)
	assert.Equal(t, "secret", cfg.ClientSecret)
	assert.Equal(t, []string{sheets.SpreadsheetsScope}, cfg.Scopes)
}

func TestCallbackHandler(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantCode string
		status   int
		wantErr  bool
	}{
		{name: "valid code", query: "?state=abc&code=xyz", status: http.StatusOK, wantCode: "xyz"},
		{name: "state mismatch", query: "?state=other&code=xyz", status: http.StatusBadRequest, wantErr: true},
		{name: "missing code", query: "?state=abc", status: http.StatusBadRequest, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes := make(chan string, 1)
			errs := make(chan error, 1)

			rec := httptest.NewRecorder()
			callbackHandler("abc", codes, errs).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback"+tt.query, nil))

			assert.Equal(t, tt.status, rec.Code)
			if tt.wantErr {
				assert.Len(t, errs, 1)
				assert.Empty(t, codes)
				return
			}
			require.Len(t, codes, 1)
			assert.Equal(t, tt.wantCode, <-codes)
		})
	}
}
