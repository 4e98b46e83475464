package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	TierFree = "free"
	TierPro  = "pro"
)

type Account struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	SubscriptionTier string    `json:"subscription_tier"`
	JobsThisMonth    int       `json:"jobs_this_month"`
	JobsResetDate    time.Time `json:"jobs_reset_date"`
	StripeCustomerID *string   `json:"stripe_customer_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type AccountDB struct {
	bun.BaseModel `bun:"table:accounts,alias:a"`

	ID               string    `bun:"id,pk" json:"id"`
	Email            string    `bun:"email,notnull" json:"email"`
	SubscriptionTier string    `bun:"subscription_tier,notnull,default:'free'" json:"subscription_tier"`
	JobsThisMonth    int       `bun:"jobs_this_month,notnull,default:0" json:"jobs_this_month"`
	JobsResetDate    time.Time `bun:"jobs_reset_date,notnull" json:"jobs_reset_date"`
	StripeCustomerID *string   `bun:"stripe_customer_id" json:"stripe_customer_id,omitempty"`
	CreatedAt        time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

func (a *AccountDB) ToAccount() *Account {
	return &Account{
		ID:               a.ID,
		Email:            a.Email,
		SubscriptionTier: a.SubscriptionTier,
		JobsThisMonth:    a.JobsThisMonth,
		JobsResetDate:    a.JobsResetDate,
		StripeCustomerID: a.StripeCustomerID,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func AccountFromDomain(a *Account) *AccountDB {
	return &AccountDB{
		ID:               a.ID,
		Email:            a.Email,
		SubscriptionTier: a.SubscriptionTier,
		JobsThisMonth:    a.JobsThisMonth,
		JobsResetDate:    a.JobsResetDate,
		StripeCustomerID: a.StripeCustomerID,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}
