package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// SignalKind tags the type of validation evidence a signal carries
type SignalKind string

const (
	SignalSurvey      SignalKind = "survey"
	SignalInterview   SignalKind = "interview"
	SignalLandingPage SignalKind = "landing_page"
	SignalPrototype   SignalKind = "prototype"
	SignalOther       SignalKind = "other"
)

// SignalResult is the payload variant attached to a validation signal.
// The concrete type is selected by the signal's kind; unrecognized kinds
// carry a RawResult and contribute nothing to scoring.
type SignalResult interface {
	signalResult()
}

// SurveyResult is the payload for survey signals: generated questions,
// a distributed survey template, or collected responses.
type SurveyResult struct {
	Action    string               `json:"action"`
	Questions []ValidationQuestion `json:"questions,omitempty"`
	Template  string               `json:"template,omitempty"`
	Responses int                  `json:"responses,omitempty"`
	Summary   string               `json:"summary,omitempty"`
	Insights  []string             `json:"insights,omitempty"`
}

// InterviewResult is the payload for a completed user interview
type InterviewResult struct {
	Action              string   `json:"action"`
	Participant         string   `json:"participant"`
	DurationMinutes     int      `json:"duration"`
	KeyInsights         []string `json:"key_insights,omitempty"`
	PainPointsConfirmed []string `json:"pain_points_confirmed,omitempty"`
	WillingnessToPay    string   `json:"willingness_to_pay,omitempty"`
}

// LandingPageResult is the payload for a landing-page demand test.
// ConversionRate is a fraction in [0,1]; a missing value reads as 0.
type LandingPageResult struct {
	Action         string   `json:"action"`
	URL            string   `json:"url"`
	Visitors       int      `json:"visitors"`
	Signups        int      `json:"signups"`
	ConversionRate float64  `json:"conversion_rate"`
	TrafficSources []string `json:"traffic_sources,omitempty"`
}

// PrototypeResult is the payload for prototype user-testing feedback
type PrototypeResult struct {
	Action          string   `json:"action"`
	PrototypeType   string   `json:"prototype_type"`
	UsersTested     int      `json:"users_tested"`
	Feedback        []string `json:"feedback,omitempty"`
	UsabilityScore  float64  `json:"usability_score"`
	FeatureRequests []string `json:"feature_requests,omitempty"`
}

// RawResult carries the payload of a signal whose kind is not recognized
type RawResult struct {
	Data json.RawMessage `json:"-"`
}

func (SurveyResult) signalResult()      {}
func (InterviewResult) signalResult()   {}
func (LandingPageResult) signalResult() {}
func (PrototypeResult) signalResult()   {}
func (RawResult) signalResult()         {}

// ValidationSignal is one piece of validation evidence recorded against
// an idea. Signals are append-only; the scorer only ever reads them.
type ValidationSignal struct {
	ID        string       `json:"id"`
	IdeaID    string       `json:"idea_id"`
	Kind      SignalKind   `json:"kind"`
	Result    SignalResult `json:"result"`
	CreatedAt time.Time    `json:"created_at"`
}

// DecodeSignalResult decodes a raw payload into the variant matching kind.
// Unrecognized kinds are kept as RawResult rather than rejected so that
// newer signal types survive a round trip through an older server.
func DecodeSignalResult(kind SignalKind, raw json.RawMessage) (SignalResult, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}

	switch kind {
	case SignalSurvey:
		var r SurveyResult
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("failed to decode survey result: %w", err)
		}
		return r, nil
	case SignalInterview:
		var r InterviewResult
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("failed to decode interview result: %w", err)
		}
		return r, nil
	case SignalLandingPage:
		var r LandingPageResult
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("failed to decode landing page result: %w", err)
		}
		return r, nil
	case SignalPrototype:
		var r PrototypeResult
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("failed to decode prototype result: %w", err)
		}
		return r, nil
	default:
		return RawResult{Data: append(json.RawMessage(nil), raw...)}, nil
	}
}

// EncodeSignalResult marshals a payload variant back to raw JSON
func EncodeSignalResult(result SignalResult) (json.RawMessage, error) {
	if result == nil {
		return json.RawMessage("{}"), nil
	}
	if raw, ok := result.(RawResult); ok {
		if len(raw.Data) == 0 {
			return json.RawMessage("{}"), nil
		}
		return raw.Data, nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode signal result: %w", err)
	}
	return data, nil
}

// signalJSON is the wire representation of a validation signal
type signalJSON struct {
	ID        string          `json:"id"`
	IdeaID    string          `json:"idea_id"`
	Kind      SignalKind      `json:"kind"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}

// MarshalJSON encodes the signal with its payload inlined under "result"
func (s ValidationSignal) MarshalJSON() ([]byte, error) {
	raw, err := EncodeSignalResult(s.Result)
	if err != nil {
		return nil, err
	}
	return json.Marshal(signalJSON{
		ID:        s.ID,
		IdeaID:    s.IdeaID,
		Kind:      s.Kind,
		Result:    raw,
		CreatedAt: s.CreatedAt,
	})
}

// UnmarshalJSON decodes the signal, selecting the payload variant by kind
func (s *ValidationSignal) UnmarshalJSON(data []byte) error {
	var wire signalJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	result, err := DecodeSignalResult(wire.Kind, wire.Result)
	if err != nil {
		return err
	}

	s.ID = wire.ID
	s.IdeaID = wire.IdeaID
	s.Kind = wire.Kind
	s.Result = result
	s.CreatedAt = wire.CreatedAt
	return nil
}

// ConversionRate returns the landing-page conversion rate for this signal,
// or 0 when the signal is not a landing-page test or carries no rate.
func (s ValidationSignal) ConversionRate() float64 {
	lp, ok := s.Result.(LandingPageResult)
	if !ok {
		return 0
	}
	return lp.ConversionRate
}
