package scrape

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapeSuccess(t *testing.T) {
	var gotAuth string
	var gotReq scrapeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"data": {
				"markdown": "# Pricing mistakes\n\nLong article body.",
				"metadata": {"title": "Pricing mistakes"}
			}
		}`))
	}))
	defer srv.Close()

	client := NewFirecrawlClient(srv.URL, "fc_key", 5*time.Second)
	result, err := client.Scrape(context.Background(), "https://example.com/post")

	require.NoError(t, err)
	assert.Equal(t, "Bearer fc_key", gotAuth)
	assert.Equal(t, "https://example.com/post", gotReq.URL)
	assert.Equal(t, []string{"markdown"}, gotReq.Formats)
	assert.Equal(t, "Pricing mistakes", result.Title)
	assert.Contains(t, result.Content, "Long article body")
}

func TestScrapeEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": {"markdown": "  "}}`))
	}))
	defer srv.Close()

	client := NewFirecrawlClient(srv.URL, "fc_key", 5*time.Second)
	_, err := client.Scrape(context.Background(), "https://example.com/empty")

	assert.ErrorIs(t, err, ErrNoContent)
}

func TestScrapeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"blocked"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewFirecrawlClient(srv.URL, "fc_key", 5*time.Second)
	_, err := client.Scrape(context.Background(), "https://example.com/blocked")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestScrapeUnsuccessfulResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": "invalid url"}`))
	}))
	defer srv.Close()

	client := NewFirecrawlClient(srv.URL, "fc_key", 5*time.Second)
	_, err := client.Scrape(context.Background(), "https://example.com/bad")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid url")
}

func TestScrapeMissingAPIKey(t *testing.T) {
	client := NewFirecrawlClient("https://api.firecrawl.dev", "", 5*time.Second)
	_, err := client.Scrape(context.Background(), "https://example.com")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestScrapeFallsBackToContentField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": {"content": "plain text body"}}`))
	}))
	defer srv.Close()

	client := NewFirecrawlClient(srv.URL, "fc_key", 5*time.Second)
	result, err := client.Scrape(context.Background(), "https://example.com")

	require.NoError(t, err)
	assert.Equal(t, "plain text body", result.Content)
	assert.Equal(t, "Untitled", result.Title)
}
