package validation

import (
	"strings"
	"testing"

	"github.com/nichelabs/nichenav/pkg/models"
)

func signal(kind models.SignalKind, result models.SignalResult) models.ValidationSignal {
	return models.ValidationSignal{Kind: kind, Result: result}
}

func landingPage(rate float64) models.ValidationSignal {
	return signal(models.SignalLandingPage, models.LandingPageResult{ConversionRate: rate})
}

func containsRecommendation(recs []string, fragment string) bool {
	for _, r := range recs {
		if strings.Contains(strings.ToLower(r), fragment) {
			return true
		}
	}
	return false
}

func TestAnalyzeEmptySignals(t *testing.T) {
	a := Analyze(nil)

	if a.Score != 0 {
		t.Errorf("Expected score 0, got %d", a.Score)
	}
	if a.Confidence != ConfidenceLow {
		t.Errorf("Expected low confidence, got %q", a.Confidence)
	}
	if len(a.Recommendations) != 2 {
		t.Fatalf("Expected 2 fixed recommendations, got %d", len(a.Recommendations))
	}
	if a.Recommendations[0] != "Start with basic validation surveys" {
		t.Errorf("Unexpected first recommendation: %q", a.Recommendations[0])
	}
	if a.Recommendations[1] != "Conduct user interviews" {
		t.Errorf("Unexpected second recommendation: %q", a.Recommendations[1])
	}
	if a.Signals != (SignalCounts{}) {
		t.Errorf("Expected zero bucket counts, got %+v", a.Signals)
	}
}

func TestAnalyzeSingleSurvey(t *testing.T) {
	a := Analyze([]models.ValidationSignal{
		signal(models.SignalSurvey, models.SurveyResult{Action: "survey_results"}),
	})

	if a.Score != 20 {
		t.Errorf("Expected score 20, got %d", a.Score)
	}
	if a.Confidence != ConfidenceLow {
		t.Errorf("Expected low confidence, got %q", a.Confidence)
	}
	if containsRecommendation(a.Recommendations, "survey") {
		t.Error("Survey recommendation should be absent once a survey exists")
	}
	if !containsRecommendation(a.Recommendations, "interview") {
		t.Error("Expected interview recommendation")
	}
	if !containsRecommendation(a.Recommendations, "landing page") {
		t.Error("Expected landing page recommendation")
	}
	// Score is 20, below the 40-point gate for the prototype suggestion
	if containsRecommendation(a.Recommendations, "prototype") {
		t.Error("Prototype recommendation should be gated behind score > 40")
	}
}

func TestAnalyzeThreeInterviewsOnly(t *testing.T) {
	signals := []models.ValidationSignal{
		signal(models.SignalInterview, models.InterviewResult{Participant: "a"}),
		signal(models.SignalInterview, models.InterviewResult{Participant: "b"}),
		signal(models.SignalInterview, models.InterviewResult{Participant: "c"}),
	}
	a := Analyze(signals)

	if a.Score != 30 {
		t.Errorf("Expected score 30, got %d", a.Score)
	}
	if a.Confidence != ConfidenceMedium {
		t.Errorf("Expected medium confidence, got %q", a.Confidence)
	}
	if !containsRecommendation(a.Recommendations, "survey") {
		t.Error("Expected survey recommendation")
	}
	if !containsRecommendation(a.Recommendations, "landing page") {
		t.Error("Expected landing page recommendation")
	}
	if containsRecommendation(a.Recommendations, "interview") {
		t.Error("Interview recommendation should be absent at 3 interviews")
	}
	if containsRecommendation(a.Recommendations, "prototype") {
		t.Error("Prototype recommendation requires score > 40")
	}
}

func TestAnalyzeFewerThanThreeInterviewsStillRecommended(t *testing.T) {
	for n := 0; n < 3; n++ {
		signals := make([]models.ValidationSignal, 0, n)
		for i := 0; i < n; i++ {
			signals = append(signals, signal(models.SignalInterview, models.InterviewResult{}))
		}
		// Add a survey so the list is never empty
		signals = append(signals, signal(models.SignalSurvey, models.SurveyResult{}))

		a := Analyze(signals)
		if !containsRecommendation(a.Recommendations, "interview") {
			t.Errorf("Expected interview recommendation with %d interviews", n)
		}
	}
}

func TestAnalyzeFullCoverage(t *testing.T) {
	signals := []models.ValidationSignal{
		signal(models.SignalSurvey, models.SurveyResult{}),
		signal(models.SignalInterview, models.InterviewResult{}),
		signal(models.SignalInterview, models.InterviewResult{}),
		signal(models.SignalInterview, models.InterviewResult{}),
		landingPage(0.03),
		signal(models.SignalPrototype, models.PrototypeResult{}),
	}
	a := Analyze(signals)

	// 20 + 30 + 25 + 25, conversion rate too low for bonuses
	if a.Score != 100 {
		t.Errorf("Expected score 100, got %d", a.Score)
	}
	if a.Confidence != ConfidenceVeryHigh {
		t.Errorf("Expected very high confidence, got %q", a.Confidence)
	}
	if len(a.Recommendations) != 0 {
		t.Errorf("Expected no recommendations, got %v", a.Recommendations)
	}
	want := SignalCounts{Surveys: 1, Interviews: 3, LandingPages: 1, Prototypes: 1}
	if a.Signals != want {
		t.Errorf("Expected counts %+v, got %+v", want, a.Signals)
	}
}

func TestAnalyzeConversionBonusStacking(t *testing.T) {
	// One landing page at 12% conversion: 25 presence + 10 (>5%) + 10 (>10%)
	a := Analyze([]models.ValidationSignal{landingPage(0.12)})
	if a.Score != 45 {
		t.Errorf("Expected score 45, got %d", a.Score)
	}

	// 6% clears only the first threshold
	a = Analyze([]models.ValidationSignal{landingPage(0.06)})
	if a.Score != 35 {
		t.Errorf("Expected score 35, got %d", a.Score)
	}

	// Missing conversion rate reads as zero: presence bonus only
	a = Analyze([]models.ValidationSignal{signal(models.SignalLandingPage, models.LandingPageResult{})})
	if a.Score != 25 {
		t.Errorf("Expected score 25, got %d", a.Score)
	}
}

func TestAnalyzeScoreClamped(t *testing.T) {
	// Everything present plus two high-converting landing pages would
	// total 140 before the clamp.
	signals := []models.ValidationSignal{
		signal(models.SignalSurvey, models.SurveyResult{}),
		signal(models.SignalInterview, models.InterviewResult{}),
		signal(models.SignalInterview, models.InterviewResult{}),
		signal(models.SignalInterview, models.InterviewResult{}),
		landingPage(0.12),
		landingPage(0.15),
		signal(models.SignalPrototype, models.PrototypeResult{}),
	}
	a := Analyze(signals)
	if a.Score != 100 {
		t.Errorf("Expected clamped score 100, got %d", a.Score)
	}
}

func TestAnalyzeUnknownKindsIgnored(t *testing.T) {
	signals := []models.ValidationSignal{
		signal(models.SignalOther, models.RawResult{}),
		signal("focus_group", models.RawResult{}),
	}
	a := Analyze(signals)

	if a.Score != 0 {
		t.Errorf("Unknown kinds must not contribute to score, got %d", a.Score)
	}
	if a.Signals != (SignalCounts{}) {
		t.Errorf("Unknown kinds must not appear in bucket counts, got %+v", a.Signals)
	}
	// A non-empty list of unknown signals still skips the empty-list
	// short circuit, so the count-based recommendations all fire.
	if len(a.Recommendations) != 3 {
		t.Errorf("Expected 3 recommendations, got %v", a.Recommendations)
	}
}

func TestConfidenceThresholds(t *testing.T) {
	tests := []struct {
		score int
		want  Confidence
	}{
		{0, ConfidenceLow},
		{29, ConfidenceLow},
		{30, ConfidenceMedium},
		{59, ConfidenceMedium},
		{60, ConfidenceHigh},
		{79, ConfidenceHigh},
		{80, ConfidenceVeryHigh},
		{100, ConfidenceVeryHigh},
	}
	for _, tt := range tests {
		if got := confidenceFor(tt.score); got != tt.want {
			t.Errorf("confidenceFor(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestAnalyzeMonotonicOnNewBuckets(t *testing.T) {
	base := []models.ValidationSignal{
		signal(models.SignalSurvey, models.SurveyResult{}),
	}
	baseScore := Analyze(base).Score

	additions := []models.ValidationSignal{
		landingPage(0),
		signal(models.SignalPrototype, models.PrototypeResult{}),
	}
	for _, add := range additions {
		score := Analyze(append(append([]models.ValidationSignal{}, base...), add)).Score
		if score < baseScore {
			t.Errorf("Adding a %s signal decreased score from %d to %d", add.Kind, baseScore, score)
		}
	}
}

func TestAnalyzeScoreAlwaysInRange(t *testing.T) {
	kinds := []models.SignalKind{
		models.SignalSurvey, models.SignalInterview, models.SignalLandingPage,
		models.SignalPrototype, models.SignalOther,
	}
	var signals []models.ValidationSignal
	for i := 0; i < 25; i++ {
		k := kinds[i%len(kinds)]
		if k == models.SignalLandingPage {
			signals = append(signals, landingPage(float64(i)*0.01))
		} else {
			signals = append(signals, signal(k, nil))
		}
		a := Analyze(signals)
		if a.Score < 0 || a.Score > 100 {
			t.Fatalf("Score %d out of range with %d signals", a.Score, len(signals))
		}
	}
}
