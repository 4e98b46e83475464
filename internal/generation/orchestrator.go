package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/contentloop/repurpose/internal/account"
	"github.com/contentloop/repurpose/internal/logging"
	"github.com/contentloop/repurpose/internal/models"
	"github.com/contentloop/repurpose/internal/prompts"
	"github.com/contentloop/repurpose/internal/providers"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// MinInputLength is the minimum source-text length in characters.
	MinInputLength = 100
	// FreeTierLimit is the free plan's monthly job quota.
	FreeTierLimit = 3
)

var (
	ErrInputTooShort = errors.New("content must be at least 100 characters")
	ErrNoFormats     = errors.New("please select at least one output format")
	ErrQuotaExceeded = errors.New("free monthly job limit reached, upgrade to Pro for unlimited jobs")
	ErrNoProviders   = errors.New("no AI service configured")
)

// AccountStore is the slice of the account repository the orchestrator
// mutates: the monthly rollover and the quota claim.
type AccountStore interface {
	Rollover(ctx context.Context, accountID string, nextReset time.Time) error
	ClaimUsage(ctx context.Context, accountID string, freeLimit int) (bool, error)
	ReleaseUsage(ctx context.Context, accountID string) error
}

type JobStore interface {
	Insert(ctx context.Context, job *models.Job) error
}

// TextGenerator is the provider chain: first success wins, the chain reports
// which provider produced the text.
type TextGenerator interface {
	Len() int
	Generate(ctx context.Context, prompt string) (text string, provider string, err error)
}

type Request struct {
	InputText       string   `json:"input_text"`
	InputMethod     string   `json:"input_method"`
	SelectedFormats []string `json:"selected_formats"`
	BrandVoice      string   `json:"brand_voice"`
}

type Result struct {
	JobID    string            `json:"job_id"`
	Outputs  map[string]string `json:"outputs"`
	Provider string            `json:"provider,omitempty"`
}

type Orchestrator struct {
	accounts AccountStore
	jobs     JobStore
	chain    TextGenerator
	now      func() time.Time
}

type OrchestratorConfig struct {
	Accounts AccountStore
	Jobs     JobStore
	Chain    TextGenerator
	Now      func() time.Time
}

func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		accounts: cfg.Accounts,
		jobs:     cfg.Jobs,
		chain:    cfg.Chain,
		now:      now,
	}
}

// CreateJob turns one validated request into a persisted Job: validate,
// roll the monthly counter over if the reset date has passed, claim quota,
// generate every requested format sequentially with provider fallback, then
// persist. A provider failure never fails the request; it degrades that
// format's output to a classified placeholder.
func (o *Orchestrator) CreateJob(ctx context.Context, acct *models.Account, req Request) (*Result, error) {
	if utf8.RuneCountInString(req.InputText) < MinInputLength {
		return nil, ErrInputTooShort
	}

	formats := dedupeFormats(req.SelectedFormats)
	if len(formats) == 0 {
		return nil, ErrNoFormats
	}

	if o.chain.Len() == 0 {
		return nil, ErrNoProviders
	}

	now := o.now()
	if !now.Before(acct.JobsResetDate) {
		nextReset := account.FirstOfNextMonth(now)
		if err := o.accounts.Rollover(ctx, acct.ID, nextReset); err != nil {
			return nil, fmt.Errorf("failed to roll over usage: %w", err)
		}
		acct.JobsThisMonth = 0
		acct.JobsResetDate = nextReset

		log.Info().
			Str("account_id", acct.ID).
			Time("next_reset", nextReset).
			Msg("Monthly usage rolled over")
	}

	claimed, err := o.accounts.ClaimUsage(ctx, acct.ID, FreeTierLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to claim usage: %w", err)
	}
	if !claimed {
		return nil, ErrQuotaExceeded
	}
	acct.JobsThisMonth++

	voice := strings.TrimSpace(req.BrandVoice)
	if voice == "" {
		voice = prompts.DefaultVoice
	}

	outputs := make(map[string]string, len(formats))
	usedProvider := ""
	var failedFormats []string

	for _, format := range formats {
		if !prompts.IsKnownFormat(format) {
			log.Warn().
				Str("account_id", acct.ID).
				Str("format", format).
				Msg("Unknown format key, using default template")
		}

		prompt := prompts.Render(format, req.InputText, voice)
		text, provider, genErr := o.chain.Generate(ctx, prompt)
		if genErr != nil {
			log.Error().
				Err(genErr).
				Str("account_id", acct.ID).
				Str("format", format).
				Msg("All providers failed for format")
			outputs[format] = providers.ClassifyFailure(genErr, format)
			failedFormats = append(failedFormats, format)
			continue
		}

		outputs[format] = text
		usedProvider = provider
	}

	job := &models.Job{
		ID:              uuid.New().String(),
		AccountID:       acct.ID,
		InputText:       req.InputText,
		InputMethod:     normalizeInputMethod(req.InputMethod),
		BrandVoice:      voice,
		SelectedFormats: formats,
		Outputs:         outputs,
		Provider:        usedProvider,
	}

	if err := o.jobs.Insert(ctx, job); err != nil {
		if relErr := o.accounts.ReleaseUsage(ctx, acct.ID); relErr != nil {
			log.Error().Err(relErr).Str("account_id", acct.ID).Msg("Failed to release claimed usage")
		} else {
			acct.JobsThisMonth--
		}
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	logging.EnrichJob(ctx, job.ID, job.InputMethod, usedProvider, formats, failedFormats)

	log.Info().
		Str("account_id", acct.ID).
		Str("job_id", job.ID).
		Int("formats", len(formats)).
		Str("provider", usedProvider).
		Msg("Job created")

	return &Result{
		JobID:    job.ID,
		Outputs:  outputs,
		Provider: usedProvider,
	}, nil
}

func dedupeFormats(formats []string) []string {
	seen := make(map[string]struct{}, len(formats))
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func normalizeInputMethod(method string) string {
	if method == models.InputMethodScraped {
		return models.InputMethodScraped
	}
	return models.InputMethodPaste
}
