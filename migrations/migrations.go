// Package migrations holds the versioned schema for the repurposing service.
// The server also creates tables on boot; migrations exist for deployments
// where the app role has no DDL rights.
package migrations

import (
	"context"

	"github.com/contentloop/repurpose/internal/models"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.NewCreateTable().
				Model((*models.AccountDB)(nil)).
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewCreateIndex().
				Model((*models.AccountDB)(nil)).
				Index("idx_accounts_email").
				Column("email").
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewCreateIndex().
				Model((*models.AccountDB)(nil)).
				Index("idx_accounts_stripe_customer_id").
				Column("stripe_customer_id").
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}

			if _, err := db.NewCreateTable().
				Model((*models.JobDB)(nil)).
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}
			_, err := db.NewCreateIndex().
				Model((*models.JobDB)(nil)).
				Index("idx_jobs_account_id").
				Column("account_id").
				IfNotExists().
				Exec(ctx)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.NewDropTable().
				Model((*models.JobDB)(nil)).
				IfExists().
				Exec(ctx); err != nil {
				return err
			}
			_, err := db.NewDropTable().
				Model((*models.AccountDB)(nil)).
				IfExists().
				Exec(ctx)
			return err
		},
	)
}
