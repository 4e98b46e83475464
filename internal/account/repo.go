package account

import (
	"context"
	"time"

	"github.com/contentloop/repurpose/internal/models"
	"github.com/uptrace/bun"
)

type Repository interface {
	InitializeDatabase(ctx context.Context) error
	GetByID(ctx context.Context, accountID string) (*models.Account, error)
	GetByStripeCustomerID(ctx context.Context, stripeCustomerID string) (*models.Account, error)
	Create(ctx context.Context, acct *models.Account) error
	GetOrCreate(ctx context.Context, accountID, email string) (*models.Account, error)
	UpdateStripeCustomerID(ctx context.Context, accountID, stripeCustomerID string) error
	Rollover(ctx context.Context, accountID string, nextReset time.Time) error
	ClaimUsage(ctx context.Context, accountID string, freeLimit int) (bool, error)
	ReleaseUsage(ctx context.Context, accountID string) error
	ResetUsageCounter(ctx context.Context, accountID string) error
	SetTier(ctx context.Context, accountID, tier string) error
	SetTierByCustomer(ctx context.Context, stripeCustomerID, tier string) error
}

type AccountRepository struct {
	db *bun.DB
}

func NewAccountRepository(db *bun.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) InitializeDatabase(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*models.AccountDB)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.NewCreateIndex().
		Model((*models.AccountDB)(nil)).
		Index("idx_accounts_email").
		Column("email").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.NewCreateIndex().
		Model((*models.AccountDB)(nil)).
		Index("idx_accounts_stripe_customer_id").
		Column("stripe_customer_id").
		IfNotExists().
		Exec(ctx)
	return err
}

func (r *AccountRepository) GetByID(ctx context.Context, accountID string) (*models.Account, error) {
	acctDB := new(models.AccountDB)
	err := r.db.NewSelect().
		Model(acctDB).
		Where("id = ?", accountID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return acctDB.ToAccount(), nil
}

func (r *AccountRepository) GetByStripeCustomerID(ctx context.Context, stripeCustomerID string) (*models.Account, error) {
	acctDB := new(models.AccountDB)
	err := r.db.NewSelect().
		Model(acctDB).
		Where("stripe_customer_id = ?", stripeCustomerID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return acctDB.ToAccount(), nil
}

func (r *AccountRepository) Create(ctx context.Context, acct *models.Account) error {
	acctDB := models.AccountFromDomain(acct)
	acctDB.CreatedAt = time.Now()
	acctDB.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(acctDB).Exec(ctx)
	return err
}

func (r *AccountRepository) GetOrCreate(ctx context.Context, accountID, email string) (*models.Account, error) {
	acct, err := r.GetByID(ctx, accountID)
	if err == nil {
		return acct, nil
	}

	newAcct := &models.Account{
		ID:               accountID,
		Email:            email,
		SubscriptionTier: models.TierFree,
		JobsThisMonth:    0,
		JobsResetDate:    FirstOfNextMonth(time.Now()),
	}

	if err := r.Create(ctx, newAcct); err != nil {
		return nil, err
	}

	return newAcct, nil
}

func (r *AccountRepository) UpdateStripeCustomerID(ctx context.Context, accountID, stripeCustomerID string) error {
	_, err := r.db.NewUpdate().
		Model((*models.AccountDB)(nil)).
		Set("stripe_customer_id = ?", stripeCustomerID).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", accountID).
		Exec(ctx)
	return err
}

// Rollover zeroes the monthly counter and advances the reset date. Persisted
// immediately, independent of whether the surrounding request succeeds.
func (r *AccountRepository) Rollover(ctx context.Context, accountID string, nextReset time.Time) error {
	_, err := r.db.NewUpdate().
		Model((*models.AccountDB)(nil)).
		Set("jobs_this_month = 0").
		Set("jobs_reset_date = ?", nextReset).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", accountID).
		Exec(ctx)
	return err
}

// ClaimUsage atomically increments the monthly counter, but for free-tier
// accounts only while the counter is under the limit. Returns false when the
// quota is exhausted. Doing check and increment in one UPDATE closes the race
// between concurrent requests from the same account.
func (r *AccountRepository) ClaimUsage(ctx context.Context, accountID string, freeLimit int) (bool, error) {
	res, err := r.db.NewUpdate().
		Model((*models.AccountDB)(nil)).
		Set("jobs_this_month = jobs_this_month + 1").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", accountID).
		Where("subscription_tier = ? OR jobs_this_month < ?", models.TierPro, freeLimit).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ReleaseUsage undoes a claim when the job could not be persisted.
func (r *AccountRepository) ReleaseUsage(ctx context.Context, accountID string) error {
	_, err := r.db.NewUpdate().
		Model((*models.AccountDB)(nil)).
		Set("jobs_this_month = GREATEST(jobs_this_month - 1, 0)").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", accountID).
		Exec(ctx)
	return err
}

func (r *AccountRepository) ResetUsageCounter(ctx context.Context, accountID string) error {
	_, err := r.db.NewUpdate().
		Model((*models.AccountDB)(nil)).
		Set("jobs_this_month = 0").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", accountID).
		Exec(ctx)
	return err
}

func (r *AccountRepository) SetTier(ctx context.Context, accountID, tier string) error {
	_, err := r.db.NewUpdate().
		Model((*models.AccountDB)(nil)).
		Set("subscription_tier = ?", tier).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", accountID).
		Exec(ctx)
	return err
}

func (r *AccountRepository) SetTierByCustomer(ctx context.Context, stripeCustomerID, tier string) error {
	_, err := r.db.NewUpdate().
		Model((*models.AccountDB)(nil)).
		Set("subscription_tier = ?", tier).
		Set("updated_at = ?", time.Now()).
		Where("stripe_customer_id = ?", stripeCustomerID).
		Exec(ctx)
	return err
}

// FirstOfNextMonth is the first instant of the month after now, in now's
// location. Used as the usage-reset date.
func FirstOfNextMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
}
