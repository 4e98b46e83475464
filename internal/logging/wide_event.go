// Package logging emits one wide structured event per request, incrementally
// enriched as the request moves through auth, quota and generation.
package logging

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	contextKeyWideEvent contextKey = "wide_event"
	contextKeyTraceID   contextKey = "trace_id"
)

// WideEvent captures the full lifecycle of a single API request.
type WideEvent struct {
	TraceID   string    `json:"trace_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`

	HTTPMethod     string `json:"http_method,omitempty"`
	HTTPPath       string `json:"http_path,omitempty"`
	HTTPStatusCode int    `json:"http_status_code,omitempty"`
	HTTPDurationMs int64  `json:"http_duration_ms,omitempty"`

	AccountID    string `json:"account_id,omitempty"`
	AccountEmail string `json:"account_email,omitempty"`
	Tier         string `json:"tier,omitempty"`

	JobID            string   `json:"job_id,omitempty"`
	InputMethod      string   `json:"input_method,omitempty"`
	FormatsRequested []string `json:"formats_requested,omitempty"`
	FormatsFailed    []string `json:"formats_failed,omitempty"`
	Provider         string   `json:"provider,omitempty"`

	Error          string `json:"error,omitempty"`
	PanicRecovered bool   `json:"panic_recovered,omitempty"`
}

func NewWideEvent(eventType string) *WideEvent {
	return &WideEvent{
		TraceID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

func WithContext(ctx context.Context, event *WideEvent) context.Context {
	ctx = context.WithValue(ctx, contextKeyWideEvent, event)
	return context.WithValue(ctx, contextKeyTraceID, event.TraceID)
}

func FromContext(ctx context.Context) *WideEvent {
	if event, ok := ctx.Value(contextKeyWideEvent).(*WideEvent); ok {
		return event
	}
	return nil
}

func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(contextKeyTraceID).(string); ok {
		return traceID
	}
	return ""
}

func EnrichHTTP(ctx context.Context, method, path string) {
	if event := FromContext(ctx); event != nil {
		event.HTTPMethod = method
		event.HTTPPath = path
	}
}

func EnrichHTTPResult(ctx context.Context, statusCode int, duration time.Duration) {
	if event := FromContext(ctx); event != nil {
		event.HTTPStatusCode = statusCode
		event.HTTPDurationMs = duration.Milliseconds()
	}
}

func EnrichAccount(ctx context.Context, accountID, email, tier string) {
	if event := FromContext(ctx); event != nil {
		event.AccountID = accountID
		event.AccountEmail = email
		event.Tier = tier
	}
}

func EnrichJob(ctx context.Context, jobID, inputMethod, provider string, requested, failed []string) {
	if event := FromContext(ctx); event != nil {
		event.JobID = jobID
		event.InputMethod = inputMethod
		event.Provider = provider
		event.FormatsRequested = requested
		event.FormatsFailed = failed
	}
}

func EnrichError(ctx context.Context, err error) {
	if event := FromContext(ctx); event != nil && err != nil {
		event.Error = err.Error()
	}
}

func EnrichPanic(ctx context.Context) {
	if event := FromContext(ctx); event != nil {
		event.PanicRecovered = true
	}
}

// Emit writes the event as a single structured log line. Errors and recovered
// panics raise the level to error.
func Emit(ctx context.Context) {
	event := FromContext(ctx)
	if event == nil {
		return
	}

	level := zerolog.InfoLevel
	if event.Error != "" || event.PanicRecovered {
		level = zerolog.ErrorLevel
	}

	e := log.WithLevel(level).
		Str("trace_id", event.TraceID).
		Str("event_type", event.EventType).
		Time("timestamp", event.Timestamp)

	if event.HTTPMethod != "" {
		e = e.Str("http_method", event.HTTPMethod).Str("http_path", event.HTTPPath)
	}
	if event.HTTPStatusCode != 0 {
		e = e.Int("http_status_code", event.HTTPStatusCode).
			Int64("http_duration_ms", event.HTTPDurationMs)
	}
	if event.AccountID != "" {
		e = e.Str("account_id", event.AccountID).
			Str("account_email", event.AccountEmail).
			Str("tier", event.Tier)
	}
	if event.JobID != "" {
		e = e.Str("job_id", event.JobID).Str("input_method", event.InputMethod)
	}
	if event.Provider != "" {
		e = e.Str("provider", event.Provider)
	}
	if len(event.FormatsRequested) > 0 {
		e = e.Strs("formats_requested", event.FormatsRequested)
	}
	if len(event.FormatsFailed) > 0 {
		e = e.Strs("formats_failed", event.FormatsFailed)
	}
	if event.Error != "" {
		e = e.Str("error", event.Error)
	}
	if event.PanicRecovered {
		e = e.Bool("panic_recovered", true)
	}

	e.Msg("wide_event")
}
