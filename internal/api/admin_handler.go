package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/contentloop/repurpose/internal/account"
	"github.com/contentloop/repurpose/internal/models"
	"github.com/rs/zerolog/log"
)

// AdminStore covers the account mutations behind the admin endpoints.
type AdminStore interface {
	SetTier(ctx context.Context, accountID, tier string) error
	ResetUsageCounter(ctx context.Context, accountID string) error
}

// AdminHandler exposes secret-gated state transitions on the caller's own
// account. The secret comes from configuration and is never a code constant.
type AdminHandler struct {
	secret   string
	accounts AdminStore
}

func NewAdminHandler(secret string, accounts AdminStore) *AdminHandler {
	return &AdminHandler{
		secret:   secret,
		accounts: accounts,
	}
}

type adminRequest struct {
	Secret string `json:"secret"`
}

func (h *AdminHandler) checkSecret(w http.ResponseWriter, r *http.Request) bool {
	if h.secret == "" {
		writeError(w, http.StatusServiceUnavailable, "Admin operations not configured")
		return false
	}

	var req adminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(h.secret)) != 1 {
		writeError(w, http.StatusForbidden, "Invalid admin secret")
		return false
	}
	return true
}

func (h *AdminHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	acct, ok := account.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if !h.checkSecret(w, r) {
		return
	}

	if err := h.accounts.SetTier(r.Context(), acct.ID, models.TierPro); err != nil {
		log.Error().Err(err).Str("account_id", acct.ID).Msg("Failed to upgrade account")
		writeError(w, http.StatusInternalServerError, "Failed to upgrade")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "tier": models.TierPro})
}

func (h *AdminHandler) Downgrade(w http.ResponseWriter, r *http.Request) {
	acct, ok := account.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if !h.checkSecret(w, r) {
		return
	}

	if err := h.accounts.SetTier(r.Context(), acct.ID, models.TierFree); err != nil {
		log.Error().Err(err).Str("account_id", acct.ID).Msg("Failed to downgrade account")
		writeError(w, http.StatusInternalServerError, "Failed to downgrade")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "tier": models.TierFree})
}

func (h *AdminHandler) ResetUsage(w http.ResponseWriter, r *http.Request) {
	acct, ok := account.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if !h.checkSecret(w, r) {
		return
	}

	if err := h.accounts.ResetUsageCounter(r.Context(), acct.ID); err != nil {
		log.Error().Err(err).Str("account_id", acct.ID).Msg("Failed to reset usage")
		writeError(w, http.StatusInternalServerError, "Failed to reset usage")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "jobsThisMonth": 0})
}

func (h *AdminHandler) Status(w http.ResponseWriter, r *http.Request) {
	acct, ok := account.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"email":         acct.Email,
		"tier":          acct.SubscriptionTier,
		"jobsThisMonth": acct.JobsThisMonth,
	})
}
