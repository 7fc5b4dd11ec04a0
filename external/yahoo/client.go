package yahoo

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-league-history/internal/platform/logging"
	"github.com/riskibarqy/fantasy-league-history/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-league-history/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	SourceName          = "yahoo"
	defaultBaseURL      = "https://fantasysports.yahooapis.com/fantasy/v2"
	defaultRetryBackoff = time.Second
	maxResponseBytes    = 6 << 20
)

var errYahooTransient = crerr.New("yahoo transient failure")

type ClientConfig struct {
	// HTTPClient must already authenticate requests, see NewHTTPClient.
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches league, standings and scoreboard payloads from the Yahoo
// Fantasy Sports v2 API and returns them verbatim.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	retryBackoff   time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight[[]byte]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	retryBackoff := cfg.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = defaultRetryBackoff
	}

	breakerCfg := cfg.CircuitBreaker
	if breakerCfg.Name == "" {
		breakerCfg.Name = SourceName
	}
	breakerCfg = resilience.NormalizeCircuitBreakerConfig(breakerCfg)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     max(cfg.MaxRetries, 0),
		retryBackoff:   retryBackoff,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchLeagueMetadata(ctx context.Context, leagueKey string) (usecase.LeagueMetadata, error) {
	leagueKey = strings.TrimSpace(leagueKey)
	if leagueKey == "" {
		return usecase.LeagueMetadata{}, fmt.Errorf("%w: league key is required", usecase.ErrInvalidInput)
	}

	leagueRaw, err := c.get(ctx, leaguePath(leagueKey, ""))
	if err != nil {
		return usecase.LeagueMetadata{}, fmt.Errorf("fetch league league_key=%s: %w", leagueKey, err)
	}
	// Head-to-head only needs the week range, so a failed standings call
	// still yields metadata with an empty standings payload.
	standingsRaw, err := c.get(ctx, leaguePath(leagueKey, "/standings"))
	if err != nil {
		if ctx.Err() != nil {
			return usecase.LeagueMetadata{}, fmt.Errorf("fetch standings league_key=%s: %w", leagueKey, err)
		}
		c.logger.WarnContext(ctx, "yahoo standings unavailable, keeping league week range",
			"league_key", leagueKey,
			"error", err,
		)
		standingsRaw = nil
	}

	return usecase.NewLeagueMetadata(leagueKey, leagueRaw, standingsRaw)
}

func (c *Client) FetchWeekScoreboard(ctx context.Context, leagueKey string, week int) ([]byte, error) {
	leagueKey = strings.TrimSpace(leagueKey)
	if leagueKey == "" {
		return nil, fmt.Errorf("%w: league key is required", usecase.ErrInvalidInput)
	}
	if week <= 0 {
		return nil, fmt.Errorf("%w: week must be greater than zero", usecase.ErrInvalidInput)
	}

	raw, err := c.get(ctx, leaguePath(leagueKey, "/scoreboard;week="+strconv.Itoa(week)))
	if err != nil {
		return nil, fmt.Errorf("fetch scoreboard league_key=%s week=%d: %w", leagueKey, week, err)
	}
	return raw, nil
}

func leaguePath(leagueKey, suffix string) string {
	return "/league/" + url.PathEscape(leagueKey) + suffix
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "yahoo circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: yahoo fantasy api is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path + "?format=json"
	raw, err, _ := c.flight.Do(fullURL, func() ([]byte, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			c.breaker.Record(reqErr, isCircuitFailure)
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%w: send request: %v", errYahooTransient, err)
		} else {
			raw, readErr := readBody(resp.Body)
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errYahooTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errYahooTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "yahoo request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func readBody(body io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(body, maxResponseBytes)); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.B...), nil
}

func isCircuitFailure(err error) bool {
	return err != nil && stderrors.Is(err, errYahooTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
