package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/contentloop/repurpose/internal/account"
	"github.com/contentloop/repurpose/internal/billing"
	"github.com/contentloop/repurpose/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v84"
)

// BillingService is the slice of the Stripe wrapper the handlers use.
type BillingService interface {
	CreateSubscriptionCheckout(ctx context.Context, customerID, accountID, successURL, cancelURL string) (*stripe.CheckoutSession, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (*stripe.BillingPortalSession, error)
	CancelAtPeriodEnd(ctx context.Context, customerID string) error
	VerifyWebhookSignature(payload []byte, signature string) (*stripe.Event, error)
}

// TierStore applies webhook-driven tier transitions to the account store.
type TierStore interface {
	SetTier(ctx context.Context, accountID, tier string) error
	SetTierByCustomer(ctx context.Context, stripeCustomerID, tier string) error
	GetByStripeCustomerID(ctx context.Context, stripeCustomerID string) (*models.Account, error)
}

type SubscriptionHandler struct {
	billing   BillingService
	accounts  TierStore
	feBaseURL string
}

func NewSubscriptionHandler(billing BillingService, accounts TierStore, feBaseURL string) *SubscriptionHandler {
	return &SubscriptionHandler{
		billing:   billing,
		accounts:  accounts,
		feBaseURL: feBaseURL,
	}
}

type createCheckoutRequest struct {
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

type createCheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}

func (h *SubscriptionHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	acct, ok := account.GetAccountFromContext(r.Context())
	if !ok || acct.StripeCustomerID == nil {
		writeError(w, http.StatusBadRequest, "Account has no billing customer")
		return
	}

	var req createCheckoutRequest
	if r.Body != nil {
		// Body is optional; defaults point back at the account page.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.SuccessURL == "" {
		req.SuccessURL = h.feBaseURL + "/account?upgraded=true"
	}
	if req.CancelURL == "" {
		req.CancelURL = h.feBaseURL + "/account"
	}

	session, err := h.billing.CreateSubscriptionCheckout(r.Context(), *acct.StripeCustomerID, acct.ID, req.SuccessURL, req.CancelURL)
	if err != nil {
		log.Error().Err(err).Str("account_id", acct.ID).Msg("Failed to create checkout session")
		writeError(w, http.StatusInternalServerError, "Failed to create checkout session")
		return
	}

	writeJSON(w, http.StatusOK, createCheckoutResponse{
		CheckoutURL: session.URL,
		SessionID:   session.ID,
	})
}

// ListTiers serves the pricing catalog in display order.
func (h *SubscriptionHandler) ListTiers(w http.ResponseWriter, r *http.Request) {
	tiers := make([]*billing.SubscriptionTier, 0, len(billing.TierOrder))
	for _, id := range billing.TierOrder {
		tiers = append(tiers, billing.GetTier(id))
	}
	writeJSON(w, http.StatusOK, tiers)
}

func (h *SubscriptionHandler) CreatePortal(w http.ResponseWriter, r *http.Request) {
	acct, ok := account.GetAccountFromContext(r.Context())
	if !ok || acct.StripeCustomerID == nil {
		writeError(w, http.StatusBadRequest, "No subscription found")
		return
	}

	session, err := h.billing.CreatePortalSession(r.Context(), *acct.StripeCustomerID, h.feBaseURL+"/account")
	if err != nil {
		log.Error().Err(err).Str("account_id", acct.ID).Msg("Failed to create portal session")
		writeError(w, http.StatusInternalServerError, "Failed to create portal session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": session.URL})
}

func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	acct, ok := account.GetAccountFromContext(r.Context())
	if !ok || acct.StripeCustomerID == nil {
		writeError(w, http.StatusBadRequest, "No subscription found")
		return
	}

	if err := h.billing.CancelAtPeriodEnd(r.Context(), *acct.StripeCustomerID); err != nil {
		log.Error().Err(err).Str("account_id", acct.ID).Msg("Failed to cancel subscription")
		writeError(w, http.StatusBadRequest, "No active subscription found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *SubscriptionHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if signature == "" {
		writeError(w, http.StatusBadRequest, "No signature provided")
		return
	}

	event, err := h.billing.VerifyWebhookSignature(payload, signature)
	if err != nil {
		log.Error().Err(err).Msg("Webhook signature verification failed")
		writeError(w, http.StatusBadRequest, "Invalid signature")
		return
	}

	var handleErr error
	switch event.Type {
	case "checkout.session.completed":
		handleErr = h.handleCheckoutCompleted(r.Context(), event)
	case "customer.subscription.updated":
		handleErr = h.handleSubscriptionUpdated(r.Context(), event)
	case "customer.subscription.deleted":
		handleErr = h.handleSubscriptionDeleted(r.Context(), event)
	case "invoice.payment_failed":
		handleErr = h.handlePaymentFailed(r.Context(), event)
	default:
		log.Info().Str("event_type", string(event.Type)).Msg("Unhandled webhook event type")
	}

	if handleErr != nil {
		log.Error().Err(handleErr).Str("event_type", string(event.Type)).Msg("Webhook handling failed")
		writeError(w, http.StatusInternalServerError, "Webhook processing failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *SubscriptionHandler) handleCheckoutCompleted(ctx context.Context, event *stripe.Event) error {
	session, err := parseEventData[checkoutSessionEvent](event)
	if err != nil {
		return fmt.Errorf("failed to parse checkout session: %w", err)
	}

	accountID := session.Metadata["account_id"]
	if accountID == "" {
		return nil
	}

	if err := h.accounts.SetTier(ctx, accountID, models.TierPro); err != nil {
		return fmt.Errorf("failed to upgrade account %s: %w", accountID, err)
	}

	log.Info().Str("account_id", accountID).Msg("Account upgraded to pro")
	return nil
}

func (h *SubscriptionHandler) handleSubscriptionUpdated(ctx context.Context, event *stripe.Event) error {
	sub, err := parseEventData[subscriptionEvent](event)
	if err != nil {
		return fmt.Errorf("failed to parse subscription: %w", err)
	}

	switch sub.Status {
	case "active":
		return h.accounts.SetTierByCustomer(ctx, sub.Customer, models.TierPro)
	case "canceled", "unpaid":
		return h.accounts.SetTierByCustomer(ctx, sub.Customer, models.TierFree)
	}
	return nil
}

func (h *SubscriptionHandler) handleSubscriptionDeleted(ctx context.Context, event *stripe.Event) error {
	sub, err := parseEventData[subscriptionEvent](event)
	if err != nil {
		return fmt.Errorf("failed to parse subscription: %w", err)
	}

	if err := h.accounts.SetTierByCustomer(ctx, sub.Customer, models.TierFree); err != nil {
		return fmt.Errorf("failed to downgrade customer %s: %w", sub.Customer, err)
	}

	log.Info().Str("customer", sub.Customer).Msg("Subscription ended, account downgraded")
	return nil
}

func (h *SubscriptionHandler) handlePaymentFailed(ctx context.Context, event *stripe.Event) error {
	invoice, err := parseEventData[invoiceEvent](event)
	if err != nil {
		return fmt.Errorf("failed to parse invoice: %w", err)
	}

	acct, err := h.accounts.GetByStripeCustomerID(ctx, invoice.Customer)
	if err != nil {
		return fmt.Errorf("failed to find account for customer %s: %w", invoice.Customer, err)
	}

	log.Warn().
		Str("account_id", acct.ID).
		Str("email", acct.Email).
		Msg("Payment failed for account")
	return nil
}

func parseEventData[T any](event *stripe.Event) (*T, error) {
	var data T
	if err := json.Unmarshal(event.Data.Raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

type checkoutSessionEvent struct {
	ID       string            `json:"id"`
	Customer string            `json:"customer"`
	Metadata map[string]string `json:"metadata"`
}

type subscriptionEvent struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Status   string `json:"status"`
}

type invoiceEvent struct {
	Customer string `json:"customer"`
}
