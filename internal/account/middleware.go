package account

import (
	"context"
	"net/http"

	"github.com/contentloop/repurpose/internal/auth"
	"github.com/contentloop/repurpose/internal/logging"
	"github.com/contentloop/repurpose/internal/models"
	"github.com/rs/zerolog/log"
)

type dbContextKey string

const accountContextKey dbContextKey = "db_account"

func GetAccountFromContext(ctx context.Context) (*models.Account, bool) {
	acct, ok := ctx.Value(accountContextKey).(*models.Account)
	return acct, ok
}

// Middleware loads (or creates) the DB account behind the authenticated
// identity and stores it in the request context.
func Middleware(svc Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := auth.GetUserFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			acct, err := svc.GetOrCreate(r.Context(), identity.ID, identity.Email)
			if err != nil {
				log.Error().Err(err).Str("account_id", identity.ID).Msg("Failed to get or create account")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			logging.EnrichAccount(r.Context(), acct.ID, acct.Email, acct.SubscriptionTier)

			ctx := context.WithValue(r.Context(), accountContextKey, acct)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
