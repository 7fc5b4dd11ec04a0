package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-league-history/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func writeTokenFile(t *testing.T, tf TokenFile) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "yahoo_oauth.json")
	require.NoError(t, SaveTokenFile(path, tf))
	return path
}

func TestLoadTokenFile(t *testing.T) {
	t.Parallel()

	path := writeTokenFile(t, TokenFile{
		AccessToken:    "access-1",
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		RefreshToken:   "refresh-1",
		TokenTime:      1700000000.5,
		TokenType:      "bearer",
	})

	tf, err := LoadTokenFile(path)
	require.NoError(t, err)
	assert.Equal(t, "access-1", tf.AccessToken)

	tok := tf.Token()
	assert.Equal(t, time.Unix(1700000000, 500000000).Add(time.Hour).Unix(), tok.Expiry.Unix())

	cfg := tf.OAuthConfig()
	assert.Equal(t, "key", cfg.ClientID)
	assert.Equal(t, tokenURL, cfg.Endpoint.TokenURL)
}

func TestLoadTokenFile_RejectsMissingCredentials(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "yahoo_oauth.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"access_token":"a"}`), 0o600))

	_, err := LoadTokenFile(path)
	require.Error(t, err)
}

type staticTokenSource struct{ tok *oauth2.Token }

func (s staticTokenSource) Token() (*oauth2.Token, error) { return s.tok, nil }

func TestPersistingTokenSource_WritesRefreshedToken(t *testing.T) {
	t.Parallel()

	original := TokenFile{
		AccessToken:    "access-1",
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		RefreshToken:   "refresh-1",
		TokenType:      "bearer",
	}
	path := writeTokenFile(t, original)
	expiry := time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC)

	source := &persistingTokenSource{
		base:   staticTokenSource{tok: &oauth2.Token{AccessToken: "access-2", RefreshToken: "refresh-2", Expiry: expiry}},
		path:   path,
		file:   original,
		logger: logging.NewNop(),
		now:    time.Now,
	}

	tok, err := source.Token()
	require.NoError(t, err)
	assert.Equal(t, "access-2", tok.AccessToken)

	saved, err := LoadTokenFile(path)
	require.NoError(t, err)
	assert.Equal(t, "access-2", saved.AccessToken)
	assert.Equal(t, "refresh-2", saved.RefreshToken)
	assert.Equal(t, "key", saved.ConsumerKey)
	assert.InDelta(t, float64(expiry.Add(-time.Hour).Unix()), saved.TokenTime, 0.001)
}

func TestNewHTTPClient_SendsBearerToken(t *testing.T) {
	t.Parallel()

	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	path := writeTokenFile(t, TokenFile{
		AccessToken:    "access-1",
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		RefreshToken:   "refresh-1",
		TokenTime:      float64(time.Now().Unix()),
		TokenType:      "bearer",
	})

	httpClient, err := NewHTTPClient(context.Background(), path, 5*time.Second, nil)
	require.NoError(t, err)

	resp, err := httpClient.Get(server.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, "Bearer access-1", authHeader)
}
