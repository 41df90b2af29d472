package billing

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/stripe/stripe-go/v79"
	portalsession "github.com/stripe/stripe-go/v79/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/nichelabs/nichenav/internal/database"
	"github.com/nichelabs/nichenav/internal/metrics"
	"github.com/nichelabs/nichenav/pkg/config"
	"github.com/nichelabs/nichenav/pkg/models"
)

// Service wraps the Stripe integration: checkout, the customer portal,
// and webhook-driven subscription state.
type Service struct {
	db       *database.Database
	config   config.BillingConfig
	onChange func(userID string, status models.SubscriptionStatus)
}

// NewService configures the Stripe client and returns a billing service
func NewService(db *database.Database, cfg config.BillingConfig) *Service {
	stripe.Key = cfg.SecretKey
	return &Service{
		db:     db,
		config: cfg,
	}
}

// OnSubscriptionChange registers a callback invoked whenever a webhook
// changes a user's plan. Used to push real-time updates to clients.
func (s *Service) OnSubscriptionChange(fn func(userID string, status models.SubscriptionStatus)) {
	s.onChange = fn
}

func (s *Service) setPlan(userID string, status models.SubscriptionStatus) error {
	if err := s.db.UpdateSubscriptionStatus(userID, status); err != nil {
		return err
	}
	if s.onChange != nil {
		s.onChange(userID, status)
	}
	return nil
}

// CheckoutResponse carries the hosted checkout URL back to the client
type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// PortalResponse carries the customer portal URL back to the client
type PortalResponse struct {
	URL string `json:"url"`
}

// CreateCheckoutSession starts a Stripe Checkout for the pro plan. A
// Stripe customer is created for the user on first checkout.
func (s *Service) CreateCheckoutSession(userID string) (*CheckoutResponse, error) {
	profile, err := s.db.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	customerID, err := s.ensureCustomer(profile)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.config.ProPriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.config.SuccessURL),
		CancelURL:  stripe.String(s.config.CancelURL),
	}
	params.AddMetadata("user_id", userID)

	sess, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	metrics.NewMetrics().CheckoutsStarted.Inc()
	return &CheckoutResponse{SessionID: sess.ID, URL: sess.URL}, nil
}

// CreatePortalSession opens the Stripe customer portal where users
// manage or cancel their subscription.
func (s *Service) CreatePortalSession(userID string) (*PortalResponse, error) {
	profile, err := s.db.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if profile.StripeCustomerID == "" {
		return nil, fmt.Errorf("user has no billing account")
	}

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(profile.StripeCustomerID),
		ReturnURL: stripe.String(s.config.PortalReturnURL),
	}

	sess, err := portalsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create portal session: %w", err)
	}

	return &PortalResponse{URL: sess.URL}, nil
}

// ensureCustomer returns the user's Stripe customer ID, creating the
// customer on first use.
func (s *Service) ensureCustomer(profile *models.Profile) (string, error) {
	if profile.StripeCustomerID != "" {
		return profile.StripeCustomerID, nil
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(profile.Email),
	}
	params.AddMetadata("user_id", profile.ID)

	cust, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create stripe customer: %w", err)
	}

	if err := s.db.SetStripeCustomerID(profile.ID, cust.ID); err != nil {
		return "", err
	}
	return cust.ID, nil
}

// HandleWebhook verifies a webhook payload and applies subscription
// state changes. Unhandled event types are acknowledged and ignored.
func (s *Service) HandleWebhook(payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.config.WebhookSecret)
	if err != nil {
		return fmt.Errorf("webhook signature verification failed: %w", err)
	}
	return s.processEvent(event)
}

func (s *Service) processEvent(event stripe.Event) error {
	m := metrics.NewMetrics()

	var err error
	switch event.Type {
	case "checkout.session.completed":
		err = s.onCheckoutCompleted(event)
	case "customer.subscription.created", "customer.subscription.updated":
		err = s.onSubscriptionChanged(event)
	case "customer.subscription.deleted":
		err = s.onSubscriptionDeleted(event)
	case "invoice.payment_failed":
		err = s.onPaymentFailed(event)
	default:
		log.Printf("Ignoring webhook event type %s", event.Type)
	}

	result := "ok"
	if err != nil {
		result = "error"
	}
	m.WebhooksProcessed.WithLabelValues(string(event.Type), result).Inc()
	return err
}

func (s *Service) onCheckoutCompleted(event stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("failed to parse checkout session: %w", err)
	}

	userID := sess.Metadata["user_id"]
	if userID == "" && sess.Customer != nil {
		profile, err := s.db.GetProfileByStripeCustomer(sess.Customer.ID)
		if err != nil {
			return fmt.Errorf("no user for customer %s: %w", sess.Customer.ID, err)
		}
		userID = profile.ID
	}
	if userID == "" {
		return fmt.Errorf("checkout session has no user reference")
	}

	log.Printf("Checkout completed for user %s", userID)
	return s.setPlan(userID, models.PlanPro)
}

func (s *Service) onSubscriptionChanged(event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("failed to parse subscription: %w", err)
	}
	if sub.Customer == nil {
		return fmt.Errorf("subscription has no customer")
	}

	profile, err := s.db.GetProfileByStripeCustomer(sub.Customer.ID)
	if err != nil {
		return fmt.Errorf("no user for customer %s: %w", sub.Customer.ID, err)
	}

	status := models.PlanFree
	if sub.Status == stripe.SubscriptionStatusActive || sub.Status == stripe.SubscriptionStatusTrialing {
		status = models.PlanPro
	}

	log.Printf("Subscription %s for user %s: plan %s", sub.Status, profile.ID, status)
	return s.setPlan(profile.ID, status)
}

func (s *Service) onSubscriptionDeleted(event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("failed to parse subscription: %w", err)
	}
	if sub.Customer == nil {
		return fmt.Errorf("subscription has no customer")
	}

	profile, err := s.db.GetProfileByStripeCustomer(sub.Customer.ID)
	if err != nil {
		return fmt.Errorf("no user for customer %s: %w", sub.Customer.ID, err)
	}

	log.Printf("Subscription cancelled for user %s", profile.ID)
	return s.setPlan(profile.ID, models.PlanFree)
}

func (s *Service) onPaymentFailed(event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("failed to parse invoice: %w", err)
	}
	if invoice.Customer == nil {
		return nil
	}

	// Stripe retries failed payments; the plan is only downgraded when
	// the subscription itself is cancelled.
	log.Printf("Payment failed for customer %s", invoice.Customer.ID)
	return nil
}
