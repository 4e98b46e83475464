package generation

import "github.com/contentloop/repurpose/internal/prompts"

// FormatInfo is the catalog entry served to clients for one output format.
type FormatInfo struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

var FormatCatalog = []FormatInfo{
	{Key: prompts.FormatTwitter, Label: "Twitter/X Thread", Description: "Thread format, 280 char limit per tweet"},
	{Key: prompts.FormatLinkedIn, Label: "LinkedIn Post", Description: "Professional networking post"},
	{Key: prompts.FormatInstagram, Label: "Instagram Caption", Description: "Engaging caption with hashtags"},
	{Key: prompts.FormatEmail, Label: "Email Newsletter", Description: "Full newsletter with subject line"},
	{Key: prompts.FormatYouTube, Label: "YouTube Video Script", Description: "Script with hooks and timestamps"},
	{Key: prompts.FormatTikTok, Label: "TikTok/Reels Script", Description: "Short-form video script"},
	{Key: prompts.FormatFacebook, Label: "Facebook Post", Description: "Casual social media post"},
	{Key: prompts.FormatPinterest, Label: "Pinterest Description", Description: "SEO-optimized pin description"},
	{Key: prompts.FormatBlogSummary, Label: "Blog Summary (TL;DR)", Description: "Concise content summary"},
	{Key: prompts.FormatReddit, Label: "Reddit Post", Description: "Authentic community post"},
}

// FreeTierFormats is the historical free-plan format allowlist. All formats
// are currently available to every tier; the list is retained but no longer
// enforced anywhere.
var FreeTierFormats = []string{
	prompts.FormatTwitter,
	prompts.FormatLinkedIn,
	prompts.FormatInstagram,
	prompts.FormatEmail,
	prompts.FormatBlogSummary,
}
