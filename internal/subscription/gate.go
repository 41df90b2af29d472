package subscription

import "github.com/nichelabs/nichenav/pkg/models"

// Action is a capability checked against a user's plan before an
// operation is allowed to proceed.
type Action string

const (
	ActionCreateIdea         Action = "create_idea"
	ActionCreateValidation   Action = "create_validation"
	ActionExportData         Action = "export_data"
	ActionAdvancedAnalytics  Action = "advanced_analytics"
	ActionCuratedLists       Action = "curated_lists"
	ActionAdvancedValidation Action = "advanced_validation"
)

// Unlimited marks a count limit with no cap
const Unlimited = -1

// Features maps a plan to its usage limits and feature flags
type Features struct {
	MaxIdeas                int  `json:"max_ideas"`
	MaxValidations          int  `json:"max_validations"`
	AdvancedAnalytics       bool `json:"advanced_analytics"`
	ExportData              bool `json:"export_data"`
	PrioritySupport         bool `json:"priority_support"`
	CuratedNicheLists       bool `json:"curated_niche_lists"`
	AdvancedValidationTools bool `json:"advanced_validation_tools"`
}

// Limit describes one count-bounded resource for a plan
type Limit struct {
	Limit     int  `json:"limit"`
	Unlimited bool `json:"unlimited"`
}

// UsageLimits reports the count-bounded limits for a plan
type UsageLimits struct {
	Ideas       Limit `json:"ideas"`
	Validations Limit `json:"validations"`
}

// FeaturesFor returns the feature set for a subscription status.
// Anything that is not pro is treated as the free plan.
func FeaturesFor(status models.SubscriptionStatus) Features {
	if status == models.PlanPro {
		return Features{
			MaxIdeas:                Unlimited,
			MaxValidations:          Unlimited,
			AdvancedAnalytics:       true,
			ExportData:              true,
			PrioritySupport:         true,
			CuratedNicheLists:       true,
			AdvancedValidationTools: true,
		}
	}

	return Features{
		MaxIdeas:       3,
		MaxValidations: 5,
	}
}

// CanPerformAction reports whether a user on the given plan may perform
// an action. Count-bounded actions pass when the plan is unlimited or
// currentCount is strictly below the limit; feature actions return the
// plan's flag. Unknown actions are allowed.
func CanPerformAction(status models.SubscriptionStatus, action Action, currentCount int) bool {
	features := FeaturesFor(status)

	switch action {
	case ActionCreateIdea:
		return features.MaxIdeas == Unlimited || currentCount < features.MaxIdeas
	case ActionCreateValidation:
		return features.MaxValidations == Unlimited || currentCount < features.MaxValidations
	case ActionExportData:
		return features.ExportData
	case ActionAdvancedAnalytics:
		return features.AdvancedAnalytics
	case ActionCuratedLists:
		return features.CuratedNicheLists
	case ActionAdvancedValidation:
		return features.AdvancedValidationTools
	default:
		return true
	}
}

// LimitsFor returns the count-bounded usage limits for a plan
func LimitsFor(status models.SubscriptionStatus) UsageLimits {
	features := FeaturesFor(status)
	return UsageLimits{
		Ideas: Limit{
			Limit:     features.MaxIdeas,
			Unlimited: features.MaxIdeas == Unlimited,
		},
		Validations: Limit{
			Limit:     features.MaxValidations,
			Unlimited: features.MaxValidations == Unlimited,
		},
	}
}
