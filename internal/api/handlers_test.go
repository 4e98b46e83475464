package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/contentloop/repurpose/internal/auth"
	"github.com/contentloop/repurpose/internal/billing"
	"github.com/contentloop/repurpose/internal/generation"
	"github.com/contentloop/repurpose/internal/models"
	"github.com/contentloop/repurpose/internal/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"
)

type fakeVerifier struct{}

func (f *fakeVerifier) VerifyToken(token string) (*auth.User, error) {
	if token != "good" {
		return nil, auth.ErrInvalidToken
	}
	return &auth.User{ID: "acct_1", Email: "founder@example.com"}, nil
}

type fakeAccountService struct {
	acct *models.Account
}

func (f *fakeAccountService) GetOrCreate(ctx context.Context, accountID, email string) (*models.Account, error) {
	return f.acct, nil
}

type fakeOrchestrator struct {
	calls  int
	result *generation.Result
	err    error
}

func (f *fakeOrchestrator) CreateJob(ctx context.Context, acct *models.Account, req generation.Request) (*generation.Result, error) {
	f.calls++
	return f.result, f.err
}

type fakeJobReader struct {
	job *models.Job
	err error
}

func (f *fakeJobReader) GetByID(ctx context.Context, jobID, accountID string) (*models.Job, error) {
	return f.job, f.err
}

func (f *fakeJobReader) ListByAccount(ctx context.Context, accountID string, limit int) ([]*models.Job, error) {
	if f.job == nil {
		return nil, f.err
	}
	return []*models.Job{f.job}, f.err
}

type fakeScraper struct {
	result *scrape.Result
	err    error
}

func (f *fakeScraper) Scrape(ctx context.Context, url string) (*scrape.Result, error) {
	return f.result, f.err
}

type fakeBilling struct {
	verifyErr error
	event     *stripe.Event
	cancelErr error
}

func (f *fakeBilling) CreateSubscriptionCheckout(ctx context.Context, customerID, accountID, successURL, cancelURL string) (*stripe.CheckoutSession, error) {
	return &stripe.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.com/cs_1"}, nil
}

func (f *fakeBilling) CreatePortalSession(ctx context.Context, customerID, returnURL string) (*stripe.BillingPortalSession, error) {
	return &stripe.BillingPortalSession{URL: "https://billing.stripe.com/p_1"}, nil
}

func (f *fakeBilling) CancelAtPeriodEnd(ctx context.Context, customerID string) error {
	return f.cancelErr
}

func (f *fakeBilling) VerifyWebhookSignature(payload []byte, signature string) (*stripe.Event, error) {
	return f.event, f.verifyErr
}

type fakeTierStore struct {
	tiers map[string]string
}

func (f *fakeTierStore) SetTier(ctx context.Context, accountID, tier string) error {
	f.tiers[accountID] = tier
	return nil
}

func (f *fakeTierStore) SetTierByCustomer(ctx context.Context, stripeCustomerID, tier string) error {
	f.tiers[stripeCustomerID] = tier
	return nil
}

func (f *fakeTierStore) GetByStripeCustomerID(ctx context.Context, stripeCustomerID string) (*models.Account, error) {
	return &models.Account{ID: "acct_1", Email: "founder@example.com"}, nil
}

func (f *fakeTierStore) ResetUsageCounter(ctx context.Context, accountID string) error {
	f.tiers[accountID] = "reset"
	return nil
}

type testEnv struct {
	router       http.Handler
	orchestrator *fakeOrchestrator
	tiers        *fakeTierStore
}

func newTestEnv(t *testing.T, orch *fakeOrchestrator, jobReader *fakeJobReader, scraper *fakeScraper, billing *fakeBilling) *testEnv {
	t.Helper()

	customerID := "cus_1"
	acct := &models.Account{
		ID:               "acct_1",
		Email:            "founder@example.com",
		SubscriptionTier: models.TierFree,
		JobsThisMonth:    1,
		JobsResetDate:    time.Now().Add(24 * time.Hour),
		StripeCustomerID: &customerID,
	}

	tiers := &fakeTierStore{tiers: make(map[string]string)}
	router := SetupRoutes(RouterConfig{
		JobHandler:          NewJobHandler(orch, jobReader),
		ScrapeHandler:       NewScrapeHandler(scraper),
		SubscriptionHandler: NewSubscriptionHandler(billing, tiers, "http://localhost:3000"),
		AdminHandler:        NewAdminHandler("s3cret", tiers),
		Verifier:            &fakeVerifier{},
		AccountService:      &fakeAccountService{acct: acct},
		AllowedOrigin:       "http://localhost:3000",
	})

	return &testEnv{router: router, orchestrator: orch, tiers: tiers}
}

func doRequest(env *testEnv, method, path, body, token string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestCreateJobEndpoint(t *testing.T) {
	orch := &fakeOrchestrator{result: &generation.Result{
		JobID:    "job_1",
		Outputs:  map[string]string{"twitter": "1/ hook"},
		Provider: "gemini",
	}}
	env := newTestEnv(t, orch, &fakeJobReader{}, &fakeScraper{}, &fakeBilling{})

	rec := doRequest(env, http.MethodPost, "/api/v1/jobs",
		`{"input_text":"...","selected_formats":["twitter"]}`, "good")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp generation.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "job_1", resp.JobID)
	assert.Equal(t, "gemini", resp.Provider)
	assert.Equal(t, 1, orch.calls)
}

func TestCreateJobEndpointRequiresAuth(t *testing.T) {
	orch := &fakeOrchestrator{}
	env := newTestEnv(t, orch, &fakeJobReader{}, &fakeScraper{}, &fakeBilling{})

	rec := doRequest(env, http.MethodPost, "/api/v1/jobs", `{}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, orch.calls)
}

func TestCreateJobEndpointErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"too short", generation.ErrInputTooShort, http.StatusBadRequest},
		{"no formats", generation.ErrNoFormats, http.StatusBadRequest},
		{"quota", generation.ErrQuotaExceeded, http.StatusForbidden},
		{"no providers", generation.ErrNoProviders, http.StatusInternalServerError},
		{"storage", errors.New("failed to save job: boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, &fakeOrchestrator{err: tt.err}, &fakeJobReader{}, &fakeScraper{}, &fakeBilling{})

			rec := doRequest(env, http.MethodPost, "/api/v1/jobs", `{"input_text":"x"}`, "good")

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestGetJobEndpointNotFound(t *testing.T) {
	env := newTestEnv(t, &fakeOrchestrator{}, &fakeJobReader{err: errors.New("no rows")}, &fakeScraper{}, &fakeBilling{})

	rec := doRequest(env, http.MethodGet, "/api/v1/jobs/missing", "", "good")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetJobEndpoint(t *testing.T) {
	job := &models.Job{ID: "job_1", AccountID: "acct_1", Outputs: map[string]string{"twitter": "1/"}}
	env := newTestEnv(t, &fakeOrchestrator{}, &fakeJobReader{job: job}, &fakeScraper{}, &fakeBilling{})

	rec := doRequest(env, http.MethodGet, "/api/v1/jobs/job_1", "", "good")

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "job_1", got.ID)
}

func TestScrapeEndpointValidation(t *testing.T) {
	env := newTestEnv(t, &fakeOrchestrator{}, &fakeJobReader{}, &fakeScraper{}, &fakeBilling{})

	rec := doRequest(env, http.MethodPost, "/api/v1/scrape", `{"url":""}`, "good")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(env, http.MethodPost, "/api/v1/scrape", `{"url":"notaurl"}`, "good")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(env, http.MethodPost, "/api/v1/scrape", `{"url":"ftp://example.com"}`, "good")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScrapeEndpoint(t *testing.T) {
	scraper := &fakeScraper{result: &scrape.Result{
		Content: "# Title\n\nBody",
		Title:   "Title",
		URL:     "https://example.com/post",
	}}
	env := newTestEnv(t, &fakeOrchestrator{}, &fakeJobReader{}, scraper, &fakeBilling{})

	rec := doRequest(env, http.MethodPost, "/api/v1/scrape", `{"url":"https://example.com/post"}`, "good")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp scrapeURLResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Title", resp.Title)
}

func TestFormatsEndpointIsPublic(t *testing.T) {
	env := newTestEnv(t, &fakeOrchestrator{}, &fakeJobReader{}, &fakeScraper{}, &fakeBilling{})

	rec := doRequest(env, http.MethodGet, "/api/v1/formats", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var formats []generation.FormatInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &formats))
	assert.Len(t, formats, 10)
}

func TestTiersEndpointIsPublic(t *testing.T) {
	env := newTestEnv(t, &fakeOrchestrator{}, &fakeJobReader{}, &fakeScraper{}, &fakeBilling{})

	rec := doRequest(env, http.MethodGet, "/api/v1/tiers", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var tiers []billing.SubscriptionTier
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tiers))
	require.Len(t, tiers, 2)
	assert.Equal(t, "free", tiers[0].ID)
	assert.Equal(t, 3, tiers[0].MonthlyJobLimit)
	assert.Equal(t, -1, tiers[1].MonthlyJobLimit)
}

func TestAdminUpgradeSecretGate(t *testing.T) {
	env := newTestEnv(t, &fakeOrchestrator{}, &fakeJobReader{}, &fakeScraper{}, &fakeBilling{})

	rec := doRequest(env, http.MethodPost, "/api/v1/admin/upgrade", `{"secret":"wrong"}`, "good")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, env.tiers.tiers)

	rec = doRequest(env, http.MethodPost, "/api/v1/admin/upgrade", `{"secret":"s3cret"}`, "good")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.TierPro, env.tiers.tiers["acct_1"])
}

func TestAdminStatus(t *testing.T) {
	env := newTestEnv(t, &fakeOrchestrator{}, &fakeJobReader{}, &fakeScraper{}, &fakeBilling{})

	rec := doRequest(env, http.MethodGet, "/api/v1/admin/status", "", "good")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "founder@example.com", resp["email"])
	assert.Equal(t, models.TierFree, resp["tier"])
}

func TestWebhookInvalidSignature(t *testing.T) {
	billing := &fakeBilling{verifyErr: errors.New("bad signature")}
	env := newTestEnv(t, &fakeOrchestrator{}, &fakeJobReader{}, &fakeScraper{}, billing)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscription/webhook", strings.NewReader("{}"))
	req.Header.Set("Stripe-Signature", "sig")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookCheckoutCompletedUpgradesAccount(t *testing.T) {
	billing := &fakeBilling{event: &stripe.Event{
		Type: "checkout.session.completed",
		Data: &stripe.EventData{
			Raw: json.RawMessage(`{"id":"cs_1","customer":"cus_1","metadata":{"account_id":"acct_1"}}`),
		},
	}}
	env := newTestEnv(t, &fakeOrchestrator{}, &fakeJobReader{}, &fakeScraper{}, billing)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscription/webhook", strings.NewReader("{}"))
	req.Header.Set("Stripe-Signature", "sig")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.TierPro, env.tiers.tiers["acct_1"])
}

func TestWebhookSubscriptionDeletedDowngrades(t *testing.T) {
	billing := &fakeBilling{event: &stripe.Event{
		Type: "customer.subscription.deleted",
		Data: &stripe.EventData{
			Raw: json.RawMessage(`{"id":"sub_1","customer":"cus_1"}`),
		},
	}}
	env := newTestEnv(t, &fakeOrchestrator{}, &fakeJobReader{}, &fakeScraper{}, billing)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscription/webhook", strings.NewReader("{}"))
	req.Header.Set("Stripe-Signature", "sig")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.TierFree, env.tiers.tiers["cus_1"])
}

func TestSubscriptionCheckoutEndpoint(t *testing.T) {
	env := newTestEnv(t, &fakeOrchestrator{}, &fakeJobReader{}, &fakeScraper{}, &fakeBilling{})

	rec := doRequest(env, http.MethodPost, "/api/v1/subscription/checkout", "", "good")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp createCheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "https://checkout.stripe.com/cs_1", resp.CheckoutURL)
}
