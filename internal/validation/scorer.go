package validation

import "github.com/nichelabs/nichenav/pkg/models"

// Confidence is the qualitative label derived from the numeric score
type Confidence string

const (
	ConfidenceLow      Confidence = "low"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceHigh     Confidence = "high"
	ConfidenceVeryHigh Confidence = "very high"
)

// SignalCounts reports how many signals landed in each scored bucket
type SignalCounts struct {
	Surveys      int `json:"surveys"`
	Interviews   int `json:"interviews"`
	LandingPages int `json:"landingPages"`
	Prototypes   int `json:"prototypes"`
}

// Analysis is the scorer's full output for one idea
type Analysis struct {
	Score           int          `json:"score"`
	Confidence      Confidence   `json:"confidence"`
	Recommendations []string     `json:"recommendations"`
	Signals         SignalCounts `json:"signals"`
}

// Scoring weights. Landing-page conversion bonuses are evaluated per
// signal and stack: a rate above 0.10 also clears the 0.05 threshold.
const (
	surveyPresenceBonus      = 20
	interviewThresholdBonus  = 30
	landingPagePresenceBonus = 25
	prototypePresenceBonus   = 25
	conversionBonus          = 10
	goodConversionRate       = 0.05
	greatConversionRate      = 0.10
	interviewTarget          = 3
	maxScore                 = 100
)

// Analyze computes a 0-100 validation score, a confidence label, and
// next-step recommendations from an idea's recorded signals. It is a
// pure projection over the signal list: deterministic, total over any
// well-formed input, and safe to call from concurrent readers.
func Analyze(signals []models.ValidationSignal) Analysis {
	if len(signals) == 0 {
		return Analysis{
			Score:      0,
			Confidence: ConfidenceLow,
			Recommendations: []string{
				"Start with basic validation surveys",
				"Conduct user interviews",
			},
		}
	}

	buckets := Classify(signals)

	score := 0
	if len(buckets.Surveys) > 0 {
		score += surveyPresenceBonus
	}
	if len(buckets.Interviews) >= interviewTarget {
		score += interviewThresholdBonus
	}
	if len(buckets.LandingPages) > 0 {
		score += landingPagePresenceBonus
	}
	if len(buckets.Prototypes) > 0 {
		score += prototypePresenceBonus
	}

	for _, s := range buckets.LandingPages {
		rate := s.ConversionRate()
		if rate > goodConversionRate {
			score += conversionBonus
		}
		if rate > greatConversionRate {
			score += conversionBonus
		}
	}

	recommendations := []string{}
	if len(buckets.Surveys) == 0 {
		recommendations = append(recommendations, "Create and distribute validation surveys")
	}
	if len(buckets.Interviews) < interviewTarget {
		recommendations = append(recommendations, "Conduct more user interviews (target: 5-10)")
	}
	if len(buckets.LandingPages) == 0 {
		recommendations = append(recommendations, "Create a landing page to test demand")
	}
	// The prototype recommendation is gated on the score, unlike the
	// other three. Kept as-is pending product confirmation.
	if len(buckets.Prototypes) == 0 && score > 40 {
		recommendations = append(recommendations, "Build a simple prototype for user testing")
	}

	if score > maxScore {
		score = maxScore
	}

	return Analysis{
		Score:           score,
		Confidence:      confidenceFor(score),
		Recommendations: recommendations,
		Signals: SignalCounts{
			Surveys:      len(buckets.Surveys),
			Interviews:   len(buckets.Interviews),
			LandingPages: len(buckets.LandingPages),
			Prototypes:   len(buckets.Prototypes),
		},
	}
}

// confidenceFor maps a clamped score to its label, highest band first
func confidenceFor(score int) Confidence {
	switch {
	case score >= 80:
		return ConfidenceVeryHigh
	case score >= 60:
		return ConfidenceHigh
	case score >= 30:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
