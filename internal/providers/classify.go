package providers

import (
	"fmt"
	"strings"
)

// User-facing placeholders stored in place of a format's output when every
// provider fails. Selection is a coarse keyword match on the failure text.
const (
	PlaceholderConfig    = "AI service configuration error. Please contact support."
	PlaceholderRateLimit = "Rate limit reached. Please try again in a moment."
	PlaceholderSafety    = "Content was flagged by safety filters. Try modifying your input."
)

// ClassifyFailure maps a generation error to the placeholder recorded for the
// given format.
func ClassifyFailure(err error, format string) string {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "api key") || strings.Contains(msg, "configured"):
		return PlaceholderConfig
	case strings.Contains(msg, "rate") || strings.Contains(msg, "limit"):
		return PlaceholderRateLimit
	case strings.Contains(msg, "safety") || strings.Contains(msg, "blocked"):
		return PlaceholderSafety
	default:
		return fmt.Sprintf("Error generating content for %s. Please try again later.", format)
	}
}
