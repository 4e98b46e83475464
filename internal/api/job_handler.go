package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/contentloop/repurpose/internal/account"
	"github.com/contentloop/repurpose/internal/generation"
	"github.com/contentloop/repurpose/internal/logging"
	"github.com/contentloop/repurpose/internal/models"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// GenerationService is the orchestrator's create-job operation.
type GenerationService interface {
	CreateJob(ctx context.Context, acct *models.Account, req generation.Request) (*generation.Result, error)
}

// JobReader is the read side of the job store used by the HTTP handlers.
type JobReader interface {
	GetByID(ctx context.Context, jobID, accountID string) (*models.Job, error)
	ListByAccount(ctx context.Context, accountID string, limit int) ([]*models.Job, error)
}

type JobHandler struct {
	orchestrator GenerationService
	jobs         JobReader
}

func NewJobHandler(orchestrator GenerationService, jobs JobReader) *JobHandler {
	return &JobHandler{
		orchestrator: orchestrator,
		jobs:         jobs,
	}
}

func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	acct, ok := account.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req generation.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.orchestrator.CreateJob(r.Context(), acct, req)
	if err != nil {
		logging.EnrichError(r.Context(), err)
		switch {
		case errors.Is(err, generation.ErrInputTooShort):
			writeError(w, http.StatusBadRequest, "Content must be at least 100 characters")
		case errors.Is(err, generation.ErrNoFormats):
			writeError(w, http.StatusBadRequest, "Please select at least one output format")
		case errors.Is(err, generation.ErrQuotaExceeded):
			writeError(w, http.StatusForbidden, "You've reached your free limit. Please upgrade to Pro for unlimited jobs.")
		case errors.Is(err, generation.ErrNoProviders):
			writeError(w, http.StatusInternalServerError, "No AI service configured")
		default:
			log.Error().Err(err).Str("account_id", acct.ID).Msg("Failed to create job")
			writeError(w, http.StatusInternalServerError, "Failed to save job")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	acct, ok := account.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	jobID := mux.Vars(r)["jobID"]

	job, err := h.jobs.GetByID(r.Context(), jobID, acct.ID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}

	writeJSON(w, http.StatusOK, job)
}

func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	acct, ok := account.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	list, err := h.jobs.ListByAccount(r.Context(), acct.ID, limit)
	if err != nil {
		log.Error().Err(err).Str("account_id", acct.ID).Msg("Failed to list jobs")
		writeError(w, http.StatusInternalServerError, internalServerError)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *JobHandler) ListFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, generation.FormatCatalog)
}
