package billing

// SubscriptionTier describes one subscription plan.
type SubscriptionTier struct {
	ID                string `json:"id"`
	DisplayName       string `json:"display_name"`
	MonthlyPriceCents int64  `json:"monthly_price_cents"`
	MonthlyJobLimit   int    `json:"monthly_job_limit"` // -1 means unlimited
}

// Tiers holds all available subscription tiers keyed by tier ID.
var Tiers = map[string]*SubscriptionTier{
	"free": {
		ID:                "free",
		DisplayName:       "Free",
		MonthlyPriceCents: 0,
		MonthlyJobLimit:   3,
	},
	"pro": {
		ID:                "pro",
		DisplayName:       "Pro",
		MonthlyPriceCents: 1900,
		MonthlyJobLimit:   -1,
	},
}

// TierOrder defines the display ordering of tiers.
var TierOrder = []string{"free", "pro"}

// GetTier returns a tier by its ID.
func GetTier(id string) *SubscriptionTier {
	return Tiers[id]
}
