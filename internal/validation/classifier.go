package validation

import "github.com/nichelabs/nichenav/pkg/models"

// Buckets partitions an idea's validation signals by kind, preserving
// the order they were recorded in. Signals with an unrecognized kind are
// not bucketed but still count toward Total.
type Buckets struct {
	Surveys      []models.ValidationSignal
	Interviews   []models.ValidationSignal
	LandingPages []models.ValidationSignal
	Prototypes   []models.ValidationSignal
	Total        int
}

// Classify partitions signals into the four scored buckets.
// Empty input yields four empty buckets. No side effects.
func Classify(signals []models.ValidationSignal) Buckets {
	b := Buckets{Total: len(signals)}
	for _, s := range signals {
		switch s.Kind {
		case models.SignalSurvey:
			b.Surveys = append(b.Surveys, s)
		case models.SignalInterview:
			b.Interviews = append(b.Interviews, s)
		case models.SignalLandingPage:
			b.LandingPages = append(b.LandingPages, s)
		case models.SignalPrototype:
			b.Prototypes = append(b.Prototypes, s)
		}
	}
	return b
}
