package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fantasy-league-history/internal/platform/logging"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
)

const (
	authURL  = "https://api.login.yahoo.com/oauth2/request_auth"
	tokenURL = "https://api.login.yahoo.com/oauth2/get_token"

	// Yahoo access tokens live for one hour from token_time.
	accessTokenLifetime = time.Hour
)

var Endpoint = oauth2.Endpoint{
	AuthURL:   authURL,
	TokenURL:  tokenURL,
	AuthStyle: oauth2.AuthStyleInHeader,
}

// TokenFile is the on-disk credential document shared with the yahoo_oauth
// tooling that performs the interactive bootstrap.
type TokenFile struct {
	AccessToken    string  `json:"access_token"`
	ConsumerKey    string  `json:"consumer_key"`
	ConsumerSecret string  `json:"consumer_secret"`
	GUID           string  `json:"guid,omitempty"`
	RefreshToken   string  `json:"refresh_token"`
	TokenTime      float64 `json:"token_time"`
	TokenType      string  `json:"token_type"`
}

func LoadTokenFile(path string) (TokenFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return TokenFile{}, fmt.Errorf("read token file: %w", err)
	}

	var out TokenFile
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return TokenFile{}, fmt.Errorf("decode token file: %w", err)
	}
	if strings.TrimSpace(out.ConsumerKey) == "" || strings.TrimSpace(out.ConsumerSecret) == "" {
		return TokenFile{}, fmt.Errorf("token file %s: consumer_key and consumer_secret are required", path)
	}
	if strings.TrimSpace(out.RefreshToken) == "" && strings.TrimSpace(out.AccessToken) == "" {
		return TokenFile{}, fmt.Errorf("token file %s: access_token or refresh_token is required", path)
	}
	return out, nil
}

// SaveTokenFile writes through a temp file so a crash never leaves a half-written token.
func SaveTokenFile(path string, tf TokenFile) error {
	raw, err := sonic.ConfigStd.MarshalIndent(tf, "", "    ")
	if err != nil {
		return fmt.Errorf("encode token file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".yahoo_oauth-*.json")
	if err != nil {
		return fmt.Errorf("create temp token file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp token file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp token file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}

func (tf TokenFile) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     tf.ConsumerKey,
		ClientSecret: tf.ConsumerSecret,
		Endpoint:     Endpoint,
		RedirectURL:  "oob",
	}
}

func (tf TokenFile) Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  tf.AccessToken,
		RefreshToken: tf.RefreshToken,
		TokenType:    tf.TokenType,
	}
	if tf.TokenTime > 0 {
		issued := time.Unix(0, int64(tf.TokenTime*float64(time.Second)))
		tok.Expiry = issued.Add(accessTokenLifetime)
	}
	return tok
}

// persistingTokenSource writes every newly issued access token back to the token file.
type persistingTokenSource struct {
	mu     sync.Mutex
	base   oauth2.TokenSource
	path   string
	file   TokenFile
	logger *logging.Logger
	now    func() time.Time
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh yahoo token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken == s.file.AccessToken {
		return tok, nil
	}

	s.file.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		s.file.RefreshToken = tok.RefreshToken
	}
	if tok.TokenType != "" {
		s.file.TokenType = tok.TokenType
	}
	issued := s.now()
	if !tok.Expiry.IsZero() {
		issued = tok.Expiry.Add(-accessTokenLifetime)
	}
	s.file.TokenTime = float64(issued.UnixNano()) / float64(time.Second)

	if err := SaveTokenFile(s.path, s.file); err != nil {
		s.logger.Warn("persist refreshed yahoo token failed", "path", s.path, "error", err)
	} else {
		s.logger.Info("yahoo access token refreshed", "path", s.path)
	}
	return tok, nil
}

// NewHTTPClient builds an OAuth2-authenticated, traced HTTP client from the
// token file at path. An expired access token is refreshed on first use.
func NewHTTPClient(ctx context.Context, path string, timeout time.Duration, logger *logging.Logger) (*http.Client, error) {
	if logger == nil {
		logger = logging.Default()
	}
	tf, err := LoadTokenFile(path)
	if err != nil {
		return nil, err
	}

	refreshClient := &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, refreshClient)

	tok := tf.Token()
	source := &persistingTokenSource{
		base:   oauth2.ReuseTokenSource(tok, tf.OAuthConfig().TokenSource(ctx, tok)),
		path:   path,
		file:   tf,
		logger: logger,
		now:    time.Now,
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &oauth2.Transport{
			Source: source,
			Base:   otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}
