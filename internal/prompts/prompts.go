package prompts

import (
	"fmt"
	"strings"
)

// Format keys recognized by the prompt templates and the job output mapping.
const (
	FormatTwitter     = "twitter"
	FormatLinkedIn    = "linkedin"
	FormatInstagram   = "instagram"
	FormatEmail       = "email"
	FormatYouTube     = "youtube"
	FormatTikTok      = "tiktok"
	FormatFacebook    = "facebook"
	FormatPinterest   = "pinterest"
	FormatBlogSummary = "blog_summary"
	FormatReddit      = "reddit"
)

const DefaultVoice = "professional"

type template func(content, voice string) string

var templates = map[string]template{
	FormatTwitter:     twitterPrompt,
	FormatLinkedIn:    linkedinPrompt,
	FormatInstagram:   instagramPrompt,
	FormatEmail:       emailPrompt,
	FormatYouTube:     youtubePrompt,
	FormatTikTok:      tiktokPrompt,
	FormatFacebook:    facebookPrompt,
	FormatPinterest:   pinterestPrompt,
	FormatBlogSummary: blogSummaryPrompt,
	FormatReddit:      redditPrompt,
}

// IsKnownFormat reports whether the key has a dedicated prompt template.
func IsKnownFormat(format string) bool {
	_, ok := templates[format]
	return ok
}

// Render builds the generation prompt for a format. Unknown format keys fall
// back to the twitter template; callers decide whether to log that.
func Render(format, content, voice string) string {
	tmpl, ok := templates[format]
	if !ok {
		tmpl = templates[FormatTwitter]
	}
	return tmpl(content, voice)
}

func twitterPrompt(content, voice string) string {
	return fmt.Sprintf(`You are a social media expert. Convert this content into a Twitter/X thread.

Rules:
- Create 5-10 tweets
- Each tweet MUST be under 280 characters
- Number each tweet (1/, 2/, 3/, etc.)
- First tweet must hook the reader
- Use line breaks for readability
- End with a call-to-action
- Tone: %s

Original content:
%s

Generate the Twitter thread now:`, voice, content)
}

func linkedinPrompt(content, voice string) string {
	return fmt.Sprintf(`You are a LinkedIn content strategist. Convert this into a LinkedIn post.

Rules:
- 1,300-2,000 characters total
- Professional tone, but %s
- Start with a hook (question or bold statement)
- Use short paragraphs (2-3 lines max)
- Include 3-5 relevant hashtags at the end
- End with an engagement question

Original content:
%s

Generate the LinkedIn post now:`, strings.ToLower(voice), content)
}

func instagramPrompt(content, voice string) string {
	return fmt.Sprintf(`You are an Instagram content creator. Convert this into an Instagram caption.

Rules:
- Casual, engaging tone (%s)
- First sentence must grab attention
- Use emojis naturally (not excessive)
- Include 10-15 relevant hashtags
- Max 2,200 characters
- Include a call-to-action (tag a friend, save, share)

Original content:
%s

Generate the Instagram caption now:`, strings.ToLower(voice), content)
}

func emailPrompt(content, voice string) string {
	return fmt.Sprintf(`You are an email marketing expert. Convert this into an email newsletter.

Rules:
- Compelling subject line
- Friendly greeting
- Short intro paragraph
- 3-5 main sections with clear headers
- Conclusion paragraph
- Clear call-to-action
- Professional sign-off
- Tone: %s

Original content:
%s

Generate the email newsletter now (include subject line):`, voice, content)
}

func youtubePrompt(content, voice string) string {
	return fmt.Sprintf(`You are a YouTube script writer. Convert this into a YouTube video script.

Rules:
- Hook in first 10 seconds
- Clear intro, body, conclusion structure
- Include timestamps suggestions
- Conversational tone (%s)
- Add presenter notes in [brackets]
- End with strong CTA (like, subscribe, comment)
- 5-10 minute video length

Original content:
%s

Generate the YouTube script now:`, strings.ToLower(voice), content)
}

func tiktokPrompt(content, voice string) string {
	return fmt.Sprintf(`You are a TikTok content creator. Convert this into a TikTok/Reels script.

Rules:
- 15-60 seconds duration
- STRONG hook in first 3 seconds
- Fast-paced, energetic
- Include visual cues in [brackets]
- Use trending language/phrases
- Clear call-to-action at end
- Tone: %s but energetic

Original content:
%s

Generate the TikTok script now:`, voice, content)
}

func facebookPrompt(content, voice string) string {
	return fmt.Sprintf(`You are a Facebook content strategist. Convert this into a Facebook post.

Rules:
- Conversational, friendly tone (%s)
- 400-800 characters ideal
- Ask a question to drive engagement
- Use casual language
- Include relevant emojis
- End with clear CTA

Original content:
%s

Generate the Facebook post now:`, strings.ToLower(voice), content)
}

func pinterestPrompt(content, voice string) string {
	return fmt.Sprintf(`You are a Pinterest SEO expert. Convert this into a Pinterest pin description.

Rules:
- Keyword-rich (SEO optimized)
- 100-500 characters
- Include relevant keywords naturally
- Clear benefit statement
- Call-to-action
- Use 2-3 relevant hashtags
- Tone: %s

Original content:
%s

Generate the Pinterest description now:`, voice, content)
}

func blogSummaryPrompt(content, voice string) string {
	return fmt.Sprintf(`You are a content editor. Create a TL;DR summary of this content.

Rules:
- 3-5 sentences max
- Capture main points
- Clear, concise language
- No fluff
- Tone: %s

Original content:
%s

Generate the summary now:`, voice, content)
}

func redditPrompt(content, voice string) string {
	return fmt.Sprintf(`You are a Reddit power user. Convert this into a Reddit post.

Rules:
- Authentic, genuine tone
- No corporate speak
- Add value to the community
- Use proper Reddit formatting (markdown)
- Conversational (%s)
- Include TL;DR at end if post is long

Original content:
%s

Generate the Reddit post now:`, strings.ToLower(voice), content)
}
