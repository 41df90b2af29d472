package billing

// Plan describes a subscription tier shown on the pricing page
type Plan struct {
	Name     string `json:"name"`
	PriceID  string `json:"price_id,omitempty"`
	Amount   int64  `json:"amount"` // cents
	Currency string `json:"currency"`
	Interval string `json:"interval,omitempty"`
}

// Pricing returns the plans offered to users
func (s *Service) Pricing() []Plan {
	return []Plan{
		{
			Name:     "free",
			Amount:   0,
			Currency: "usd",
		},
		{
			Name:     "pro",
			PriceID:  s.config.ProPriceID,
			Amount:   1900,
			Currency: "usd",
			Interval: "month",
		},
	}
}
