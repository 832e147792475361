package client

// http_client.go talks to the MovieHub REST API.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"moviehub/cmd/cli/dto"
)

// APIError is a decoded non-2xx reply.
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewHTTPClient targets apiURL, e.g. http://localhost:8080/api.
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetToken sends token as a bearer credential on every later call.
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

func (c *HTTPClient) Register(ctx context.Context, req dto.RegisterRequest) (*dto.User, error) {
	var user dto.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ListMovies(ctx context.Context, page, limit int) (*dto.MovieList, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var list dto.MovieList
	if err := c.do(ctx, http.MethodGet, "/movies", query, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetMovie returns nil, nil for an unknown id.
func (c *HTTPClient) GetMovie(ctx context.Context, id string) (*dto.Movie, error) {
	var env dto.MovieEnvelope
	if err := c.do(ctx, http.MethodGet, "/movies/"+url.PathEscape(id), nil, nil, &env); err != nil {
		return nil, err
	}
	return env.Movie, nil
}

func (c *HTTPClient) Reviews(ctx context.Context, movieID, cursor string, limit int) (*dto.ReviewPage, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	var page dto.ReviewPage
	if err := c.do(ctx, http.MethodGet, "/movies/"+url.PathEscape(movieID)+"/reviews", query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) RateMovie(ctx context.Context, movieID string, value int) error {
	return c.do(ctx, http.MethodPost, "/movies/"+url.PathEscape(movieID)+"/rating", nil, dto.RateRequest{Value: value}, &dto.OKResponse{})
}

func (c *HTTPClient) UpsertReview(ctx context.Context, movieID string, req dto.ReviewRequest) error {
	return c.do(ctx, http.MethodPut, "/movies/"+url.PathEscape(movieID)+"/review", nil, req, &dto.OKResponse{})
}

func (c *HTTPClient) AddToWishlist(ctx context.Context, movieID string) error {
	return c.do(ctx, http.MethodPost, "/movies/"+url.PathEscape(movieID)+"/wishlist", nil, nil, &dto.OKResponse{})
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() // Ensure the response body is closed

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var envelope dto.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&envelope) == nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
			apiErr.RequestID = envelope.Error.RequestID
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
