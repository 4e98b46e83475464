package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrNoContent = errors.New("no content found at this URL")

// Scraper extracts readable text from a URL.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*Result, error)
}

type Result struct {
	Content string `json:"content"`
	Title   string `json:"title"`
	URL     string `json:"url"`
}

// FirecrawlClient calls the Firecrawl v1 scrape API and returns the page as
// markdown.
type FirecrawlClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewFirecrawlClient(baseURL, apiKey string, timeout time.Duration) *FirecrawlClient {
	return &FirecrawlClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

type scrapeRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
}

type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    struct {
		Markdown string `json:"markdown"`
		Content  string `json:"content"`
		Metadata struct {
			Title string `json:"title"`
		} `json:"metadata"`
	} `json:"data"`
}

func (c *FirecrawlClient) Scrape(ctx context.Context, url string) (*Result, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("firecrawl API key not configured")
	}

	reqBody := scrapeRequest{
		URL:     url,
		Formats: []string{"markdown"},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/scrape", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("firecrawl API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if !result.Success {
		if result.Error != "" {
			return nil, fmt.Errorf("failed to scrape URL: %s", result.Error)
		}
		return nil, fmt.Errorf("failed to scrape URL")
	}

	content := result.Data.Markdown
	if content == "" {
		content = result.Data.Content
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrNoContent
	}

	title := result.Data.Metadata.Title
	if title == "" {
		title = "Untitled"
	}

	return &Result{
		Content: content,
		Title:   title,
		URL:     url,
	}, nil
}
