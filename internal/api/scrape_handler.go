package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/contentloop/repurpose/internal/scrape"
	"github.com/rs/zerolog/log"
)

type ScrapeHandler struct {
	scraper scrape.Scraper
}

func NewScrapeHandler(scraper scrape.Scraper) *ScrapeHandler {
	return &ScrapeHandler{scraper: scraper}
}

type scrapeURLRequest struct {
	URL string `json:"url"`
}

type scrapeURLResponse struct {
	Success bool   `json:"success"`
	Content string `json:"content"`
	Title   string `json:"title"`
	URL     string `json:"url"`
}

func (h *ScrapeHandler) ScrapeURL(w http.ResponseWriter, r *http.Request) {
	var req scrapeURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}

	parsed, err := url.Parse(req.URL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		writeError(w, http.StatusBadRequest, "Invalid URL format")
		return
	}

	result, err := h.scraper.Scrape(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, scrape.ErrNoContent) {
			writeError(w, http.StatusBadRequest, "No content found at this URL")
			return
		}
		log.Error().Err(err).Str("url", req.URL).Msg("Failed to scrape URL")
		writeError(w, http.StatusInternalServerError, "Failed to scrape URL")
		return
	}

	writeJSON(w, http.StatusOK, scrapeURLResponse{
		Success: true,
		Content: result.Content,
		Title:   result.Title,
		URL:     result.URL,
	})
}
