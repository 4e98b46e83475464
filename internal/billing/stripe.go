package billing

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"
)

type Billing struct {
	sc            *stripe.Client
	proPriceID    string
	webhookSecret string
}

func NewBilling(secretKey, proPriceID, webhookSecret string) *Billing {
	return &Billing{
		sc:            stripe.NewClient(secretKey),
		proPriceID:    proPriceID,
		webhookSecret: webhookSecret,
	}
}

func (b *Billing) CreateCustomer(ctx context.Context, accountID, email string) (*stripe.Customer, error) {
	params := &stripe.CustomerCreateParams{
		Email:    stripe.String(email),
		Metadata: map[string]string{"account_id": accountID},
	}
	return b.sc.V1Customers.Create(ctx, params)
}

// CreateSubscriptionCheckout opens a Stripe Checkout session for the Pro
// plan. The account id rides in the session metadata so the webhook can map
// the completed checkout back to an account.
func (b *Billing) CreateSubscriptionCheckout(ctx context.Context, customerID, accountID, successURL, cancelURL string) (*stripe.CheckoutSession, error) {
	if b.proPriceID == "" {
		return nil, fmt.Errorf("pro price not configured")
	}

	params := &stripe.CheckoutSessionCreateParams{
		Customer: stripe.String(customerID),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				Price:    stripe.String(b.proPriceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		Metadata: map[string]string{
			"account_id": accountID,
		},
	}
	return b.sc.V1CheckoutSessions.Create(ctx, params)
}

func (b *Billing) CreatePortalSession(ctx context.Context, customerID, returnURL string) (*stripe.BillingPortalSession, error) {
	params := &stripe.BillingPortalSessionCreateParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	return b.sc.V1BillingPortalSessions.Create(ctx, params)
}

// CancelAtPeriodEnd flags the customer's active subscription to lapse at the
// end of the current billing period instead of cutting access immediately.
func (b *Billing) CancelAtPeriodEnd(ctx context.Context, customerID string) error {
	listParams := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(stripe.SubscriptionStatusActive)),
	}

	var active *stripe.Subscription
	for sub, err := range b.sc.V1Subscriptions.List(ctx, listParams) {
		if err != nil {
			return fmt.Errorf("failed to list subscriptions: %w", err)
		}
		active = sub
		break
	}

	if active == nil {
		return fmt.Errorf("no active subscription found")
	}

	_, err := b.sc.V1Subscriptions.Update(ctx, active.ID, &stripe.SubscriptionUpdateParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}
	return nil
}

func (b *Billing) VerifyWebhookSignature(payload []byte, signature string) (*stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, b.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}
	return &event, nil
}
