package api

import (
	"net/http"

	"github.com/contentloop/repurpose/internal/account"
	"github.com/contentloop/repurpose/internal/auth"
	"github.com/gorilla/mux"
)

type RouterConfig struct {
	JobHandler          *JobHandler
	ScrapeHandler       *ScrapeHandler
	SubscriptionHandler *SubscriptionHandler
	AdminHandler        *AdminHandler
	Verifier            auth.TokenVerifier
	AccountService      account.Service
	AllowedOrigin       string
}

func SetupRoutes(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()

	r.Use(CORSMiddleware(cfg.AllowedOrigin))
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	r.HandleFunc("/healthz", healthz).Methods("GET")

	// Public: no session required.
	public := r.PathPrefix("/api/v1").Subrouter()
	public.HandleFunc("/formats", cfg.JobHandler.ListFormats).Methods("GET")
	public.HandleFunc("/tiers", cfg.SubscriptionHandler.ListTiers).Methods("GET")
	public.HandleFunc("/subscription/webhook", cfg.SubscriptionHandler.HandleWebhook).Methods("POST")

	// Everything else requires a verified identity and a loaded account.
	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(auth.Middleware(cfg.Verifier))
	protected.Use(account.Middleware(cfg.AccountService))

	protected.HandleFunc("/jobs", cfg.JobHandler.CreateJob).Methods("POST")
	protected.HandleFunc("/jobs", cfg.JobHandler.ListJobs).Methods("GET")
	protected.HandleFunc("/jobs/{jobID}", cfg.JobHandler.GetJob).Methods("GET")

	protected.HandleFunc("/scrape", cfg.ScrapeHandler.ScrapeURL).Methods("POST")

	protected.HandleFunc("/subscription/checkout", cfg.SubscriptionHandler.CreateCheckout).Methods("POST")
	protected.HandleFunc("/subscription/portal", cfg.SubscriptionHandler.CreatePortal).Methods("POST")
	protected.HandleFunc("/subscription/cancel", cfg.SubscriptionHandler.Cancel).Methods("POST")

	protected.HandleFunc("/admin/status", cfg.AdminHandler.Status).Methods("GET")
	protected.HandleFunc("/admin/upgrade", cfg.AdminHandler.Upgrade).Methods("POST")
	protected.HandleFunc("/admin/downgrade", cfg.AdminHandler.Downgrade).Methods("POST")
	protected.HandleFunc("/admin/reset-usage", cfg.AdminHandler.ResetUsage).Methods("POST")

	return r
}

func healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
