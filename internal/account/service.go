package account

import (
	"context"

	"github.com/contentloop/repurpose/internal/models"
	"github.com/stripe/stripe-go/v84"
)

type Service interface {
	GetOrCreate(ctx context.Context, accountID, email string) (*models.Account, error)
}

// CustomerCreator is the slice of the billing client the account service
// needs: provisioning a Stripe customer for a fresh account.
type CustomerCreator interface {
	CreateCustomer(ctx context.Context, accountID, email string) (*stripe.Customer, error)
}

type AccountService struct {
	repo    Repository
	billing CustomerCreator
}

func NewAccountService(repo Repository, billing CustomerCreator) *AccountService {
	return &AccountService{
		repo:    repo,
		billing: billing,
	}
}

func (s *AccountService) GetOrCreate(ctx context.Context, accountID, email string) (*models.Account, error) {
	acct, err := s.repo.GetOrCreate(ctx, accountID, email)
	if err != nil {
		return nil, err
	}

	if acct.StripeCustomerID == nil && s.billing != nil {
		customer, err := s.billing.CreateCustomer(ctx, accountID, email)
		if err != nil {
			return nil, err
		}
		if err := s.repo.UpdateStripeCustomerID(ctx, accountID, customer.ID); err != nil {
			return nil, err
		}
		acct.StripeCustomerID = &customer.ID
	}

	return acct, nil
}
