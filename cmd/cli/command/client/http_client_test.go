package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"moviehub/cmd/cli/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_ListMovies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/movies", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"items":[{"id":"m1","title":"Heat","averageRating":4.5,"ratingCount":2}],"page":2,"limit":5}`))
	}))
	defer srv.Close()

	list, err := NewHTTPClient(srv.URL+"/api/").ListMovies(context.Background(), 2, 5)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Heat", list.Items[0].Title)
	assert.Equal(t, 4.5, list.Items[0].AverageRating)
}

func TestHTTPClient_GetMovieNull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"movie":null}`))
	}))
	defer srv.Close()

	movie, err := NewHTTPClient(srv.URL).GetMovie(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, movie)
}

func TestHTTPClient_RateSendsTokenAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/movies/m1/rating", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body dto.RateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 4, body.Value)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	c.SetToken("tok")
	assert.NoError(t, c.RateMovie(context.Background(), "m1", 4))
}

func TestHTTPClient_DecodesErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHENTICATED","message":"authentication required","request_id":"r-1"}}`))
	}))
	defer srv.Close()

	err := NewHTTPClient(srv.URL).AddToWishlist(context.Background(), "m1")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "UNAUTHENTICATED", apiErr.Code)
	assert.Equal(t, "r-1", apiErr.RequestID)
	assert.Equal(t, "UNAUTHENTICATED: authentication required", apiErr.Error())
}

func TestHTTPClient_ReviewsCursor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "c1", r.URL.Query().Get("cursor"))
		_, _ = w.Write([]byte(`{"items":[{"id":"r2","content":"great","user":{"id":"u1","name":"Ada"}}],"nextCursor":"r2","hasNextPage":true}`))
	}))
	defer srv.Close()

	page, err := NewHTTPClient(srv.URL).Reviews(context.Background(), "m1", "c1", 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Ada", page.Items[0].User.Name)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, "r2", *page.NextCursor)
	assert.True(t, page.HasNextPage)
}
