package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contentloop/repurpose/internal/account"
	"github.com/contentloop/repurpose/internal/api"
	"github.com/contentloop/repurpose/internal/auth"
	"github.com/contentloop/repurpose/internal/billing"
	"github.com/contentloop/repurpose/internal/cache"
	"github.com/contentloop/repurpose/internal/config"
	"github.com/contentloop/repurpose/internal/db"
	"github.com/contentloop/repurpose/internal/generation"
	"github.com/contentloop/repurpose/internal/jobs"
	"github.com/contentloop/repurpose/internal/providers"
	"github.com/contentloop/repurpose/internal/scrape"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := config.Load()

	bunDB := db.NewBunPostgresClient(cfg.DatabaseURL)
	defer bunDB.Close()

	accountRepo := account.NewAccountRepository(bunDB)
	jobRepo := jobs.NewJobRepository(bunDB)

	ctx := context.Background()
	if err := accountRepo.InitializeDatabase(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize accounts table")
	}
	if err := jobRepo.InitializeDatabase(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize jobs table")
	}

	billingClient := billing.NewBilling(cfg.StripeSecretKey, cfg.StripeProPriceID, cfg.StripeWebhookSecret)
	accountService := account.NewAccountService(accountRepo, billingClient)

	var generators []providers.Generator
	if cfg.GeminiAPIKey != "" {
		gemini, err := providers.NewGeminiGenerator(cfg.GeminiAPIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Gemini generator")
		}
		generators = append(generators, gemini)
	}
	if cfg.GroqAPIKey != "" {
		groq, err := providers.NewGroqGenerator(cfg.GroqAPIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Groq generator")
		}
		generators = append(generators, groq)
	}
	if len(generators) == 0 {
		log.Warn().Msg("No AI provider keys configured, job creation will be rejected")
	}
	chain := providers.NewChain(generators...)

	orchestrator := generation.NewOrchestrator(generation.OrchestratorConfig{
		Accounts: accountRepo,
		Jobs:     jobRepo,
		Chain:    chain,
	})

	firecrawl := scrape.NewFirecrawlClient(cfg.FirecrawlBaseURL, cfg.FirecrawlAPIKey,
		time.Duration(cfg.ScrapeTimeoutSecs)*time.Second)
	scraper := cache.NewCachedScraper(firecrawl, cache.NewScrapeCache(15*time.Minute))

	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create JWT verifier")
	}
	defer jwtVerifier.Close()

	router := api.SetupRoutes(api.RouterConfig{
		JobHandler:          api.NewJobHandler(orchestrator, jobRepo),
		ScrapeHandler:       api.NewScrapeHandler(scraper),
		SubscriptionHandler: api.NewSubscriptionHandler(billingClient, accountRepo, cfg.FEBaseURL),
		AdminHandler:        api.NewAdminHandler(cfg.AdminSecret, accountRepo),
		Verifier:            jwtVerifier,
		AccountService:      accountService,
		AllowedOrigin:       cfg.FEBaseURL,
	})

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
	}()

	log.Info().Str("addr", cfg.ServerAddr).Msg("Server starting")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server failed to start")
	}

	log.Info().Msg("Server stopped")
}
