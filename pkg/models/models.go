package models

import "time"

// ValidationStage represents how far an idea has progressed through validation
type ValidationStage string

const (
	StageInitial   ValidationStage = "initial"
	StageTesting   ValidationStage = "testing"
	StageValidated ValidationStage = "validated"
	StageRejected  ValidationStage = "rejected"
)

// SubscriptionStatus is a user's current billing plan
type SubscriptionStatus string

const (
	PlanFree SubscriptionStatus = "free"
	PlanPro  SubscriptionStatus = "pro"
)

// Profile represents a registered user and their subscription state
type Profile struct {
	ID                 string             `json:"id"`
	Email              string             `json:"email"`
	Username           string             `json:"username"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
	StripeCustomerID   string             `json:"stripe_customer_id,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// Idea represents a candidate micro-SaaS concept owned by one user
type Idea struct {
	ID                string             `json:"id"`
	UserID            string             `json:"user_id"`
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	ProblemCategory   string             `json:"problem_category"`
	ValidationStage   ValidationStage    `json:"validation_stage"`
	RevenuePotential  int                `json:"revenue_potential"` // estimated monthly revenue, non-negative
	TargetUsers       int                `json:"target_users"`
	PainPoints        []PainPoint        `json:"pain_points,omitempty"`
	ValidationSignals []ValidationSignal `json:"validation_signals,omitempty"`

	// Generated strategies, stored as-is once a planner has run
	Monetization *MonetizationStrategy `json:"monetization,omitempty"`
	Acquisition  *AcquisitionStrategy  `json:"acquisition,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PainPoint is a user problem recorded against an idea.
// Pain points are immutable once created; updates replace the full set.
type PainPoint struct {
	ID               string    `json:"id"`
	IdeaID           string    `json:"idea_id"`
	Category         string    `json:"category"`
	Description      string    `json:"description"`
	ImpactScore      int       `json:"impact_score"`       // 0-10
	WillingnessToPay int       `json:"willingness_to_pay"` // 0-10
	FrequencyScore   int       `json:"frequency_score"`    // 0-10
	CreatedAt        time.Time `json:"created_at"`
}

// IdeaCandidate is a single LLM-generated idea suggestion before it is saved
type IdeaCandidate struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	ProblemCategory  string   `json:"problem_category"`
	UserPainPoints   []string `json:"user_pain_points"`
	ValidationStage  string   `json:"validation_stage"`
	RevenuePotential int      `json:"revenue_potential"`
	TargetUsers      int      `json:"target_users"`
}

// ValidationQuestion is a generated question used to validate an idea
type ValidationQuestion struct {
	Type     string `json:"type"`
	Question string `json:"question"`
	Purpose  string `json:"purpose"`
}

// PricingTier is one tier of a monetization strategy
type PricingTier struct {
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	Period        string   `json:"period"`
	Features      []string `json:"features"`
	TargetSegment string   `json:"target_segment"`
}

// RevenueProjections holds projected revenue at checkpoints
type RevenueProjections struct {
	Month1  float64 `json:"month_1"`
	Month6  float64 `json:"month_6"`
	Month12 float64 `json:"month_12"`
}

// MonetizationStrategy is a generated pricing plan for an idea
type MonetizationStrategy struct {
	PricingModel       string             `json:"pricing_model"`
	Tiers              []PricingTier      `json:"tiers"`
	ValueMetrics       []string           `json:"value_metrics"`
	PricingPsychology  []string           `json:"pricing_psychology"`
	RevenueProjections RevenueProjections `json:"revenue_projections"`
}

// TargetCustomers describes customer segments for acquisition
type TargetCustomers struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Tertiary  string `json:"tertiary"`
}

// AcquisitionChannel is one channel in an acquisition strategy
type AcquisitionChannel struct {
	Name          string   `json:"name"`
	Platforms     []string `json:"platforms"`
	Approach      string   `json:"approach"`
	Effort        string   `json:"effort"`
	Timeline      string   `json:"timeline"`
	ExpectedReach string   `json:"expected_reach"`
}

// GuerillaTactic is a low-cost acquisition tactic
type GuerillaTactic struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Implementation string `json:"implementation"`
}

// AcquisitionStrategy is a generated customer-acquisition plan for an idea
type AcquisitionStrategy struct {
	TargetCustomers TargetCustomers      `json:"target_customers"`
	Channels        []AcquisitionChannel `json:"channels"`
	Tactics         []GuerillaTactic     `json:"tactics"`
	Timeline        map[string]string    `json:"timeline"`
	SuccessMetrics  []string             `json:"success_metrics"`
}

// IdeaStatistics summarizes a user's idea portfolio
type IdeaStatistics struct {
	TotalIdeas            int            `json:"total_ideas"`
	ByStage               map[string]int `json:"by_stage"`
	ByCategory            map[string]int `json:"by_category"`
	TotalRevenuePotential int            `json:"total_revenue_potential"`
	TotalTargetUsers      int            `json:"total_target_users"`
	ValidationSignals     int            `json:"validation_signals"`
	AverageRevenuePerIdea float64        `json:"average_revenue_per_idea"`
}
