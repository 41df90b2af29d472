package api

import (
	"io"
	"net/http"

	"github.com/nichelabs/nichenav/internal/subscription"
)

const webhookBodyLimit = 1 << 16

// handleSubscription handles GET /api/v1/subscription: the user's plan,
// feature flags, and current usage against the plan limits.
func (s *Server) handleSubscription(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	claims := claimsFrom(r)
	profile, err := s.db.GetProfile(claims.UserID)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "Profile not found")
		return
	}

	ideaCount, err := s.db.CountIdeas(claims.UserID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to count usage")
		return
	}
	signalCount, err := s.db.CountValidationSignals(claims.UserID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to count usage")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   profile.SubscriptionStatus,
		"features": subscription.FeaturesFor(profile.SubscriptionStatus),
		"limits":   subscription.LimitsFor(profile.SubscriptionStatus),
		"usage": map[string]int{
			"ideas":       ideaCount,
			"validations": signalCount,
		},
	})
}

// handleCheckout handles POST /api/v1/subscription/checkout
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	claims := claimsFrom(r)
	resp, err := s.billing.CreateCheckoutSession(claims.UserID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, resp)
}

// handlePortal handles POST /api/v1/subscription/portal
func (s *Server) handlePortal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	claims := claimsFrom(r)
	resp, err := s.billing.CreatePortalSession(claims.UserID)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, resp)
}

// handlePricing handles GET /api/v1/billing/pricing (public)
func (s *Server) handlePricing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	s.respondJSON(w, http.StatusOK, s.billing.Pricing())
}

// handleWebhook handles POST /api/v1/billing/webhook. Stripe
// authenticates via the signature header, not a bearer token.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Failed to read payload")
		return
	}

	if err := s.billing.HandleWebhook(payload, r.Header.Get("Stripe-Signature")); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "received"})
}
