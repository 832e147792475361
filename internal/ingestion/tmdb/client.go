package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"

	// TMDB tolerates roughly 40 requests per second per IP
	rateLimit = 20
	rateBurst = 20

	maxRetries   = 5
	initialDelay = 1 * time.Second
	maxDelay     = 32 * time.Second
)

// Client calls the TMDB v3 API with rate limiting and retries.
type Client struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	rateLimiter  *rate.Limiter
	initialDelay time.Duration
	log          *zap.Logger
}

// NewClient creates a TMDB client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL, apiKey string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		rateLimiter:  rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		initialDelay: initialDelay,
		log:          log,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// GetPopular fetches one page of popular movies in en-US.
func (c *Client) GetPopular(ctx context.Context, page int) (*PopularResponse, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("language", "en-US")
	params.Set("page", strconv.Itoa(page))

	var response PopularResponse
	if err := c.doRequest(ctx, http.MethodGet, "/movie/popular", params, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch popular page %d: %w", page, err)
	}
	return &response, nil
}

// doRequest performs an HTTP request with rate limiting and retry logic
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values, result interface{}) error {
	fullURL := c.baseURL + endpoint
	if params != nil {
		fullURL += "?" + params.Encode()
	}

	var lastErr error
	delay := c.initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		retry, wait, err := c.attempt(ctx, method, fullURL, result)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry || attempt == maxRetries {
			return err
		}

		if wait > 0 {
			delay = wait
		}
		c.log.Warn("tmdb request failed, retrying",
			zap.String("endpoint", endpoint),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = minDuration(delay*2, maxDelay)
	}

	return fmt.Errorf("request failed after %d attempts: %w", maxRetries+1, lastErr)
}

// attempt runs one request. It reports whether a failure is worth retrying
// and any server-requested wait.
func (c *Client) attempt(ctx context.Context, method, fullURL string, result interface{}) (bool, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return false, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "MovieHub/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))

		var wait time.Duration
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if secs, convErr := strconv.Atoi(retryAfter); convErr == nil {
				wait = time.Duration(secs) * time.Second
			}
		}
		return shouldRetry(resp.StatusCode), wait, err
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return false, 0, fmt.Errorf("failed to parse response: %w", err)
	}
	return false, 0, nil
}

// shouldRetry determines if an HTTP status code warrants a retry
func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
