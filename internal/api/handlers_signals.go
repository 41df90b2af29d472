package api

import (
	"encoding/json"
	"net/http"

	"github.com/nichelabs/nichenav/internal/events"
	"github.com/nichelabs/nichenav/internal/subscription"
	"github.com/nichelabs/nichenav/internal/validation"
	"github.com/nichelabs/nichenav/pkg/models"
)

// RecordSignalRequest is the payload for recording validation evidence
type RecordSignalRequest struct {
	Kind   models.SignalKind `json:"kind"`
	Result json.RawMessage   `json:"result"`
}

// handleSignals handles /api/v1/ideas/{id}/signals
func (s *Server) handleSignals(w http.ResponseWriter, r *http.Request, userID, ideaID string) {
	switch r.Method {
	case http.MethodGet:
		s.listSignals(w, r, userID, ideaID)
	case http.MethodPost:
		s.recordSignal(w, r, userID, ideaID)
	default:
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) listSignals(w http.ResponseWriter, r *http.Request, userID, ideaID string) {
	if _, err := s.db.GetIdea(ideaID, userID); err != nil {
		s.respondError(w, http.StatusNotFound, "Idea not found")
		return
	}

	signals, err := s.db.ListValidationSignals(ideaID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to list signals")
		return
	}
	if signals == nil {
		signals = []models.ValidationSignal{}
	}

	s.respondJSON(w, http.StatusOK, signals)
}

func (s *Server) recordSignal(w http.ResponseWriter, r *http.Request, userID, ideaID string) {
	allowed, err := s.checkUsage(userID, subscription.ActionCreateValidation)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to check plan limits")
		return
	}
	if !allowed {
		s.respondError(w, http.StatusForbidden, "Validation limit reached; upgrade to pro for unlimited validations")
		return
	}

	if _, err := s.db.GetIdea(ideaID, userID); err != nil {
		s.respondError(w, http.StatusNotFound, "Idea not found")
		return
	}

	var req RecordSignalRequest
	if err := s.parseJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Kind == "" {
		s.respondError(w, http.StatusBadRequest, "Signal kind is required")
		return
	}

	raw := req.Result
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}
	result, err := models.DecodeSignalResult(req.Kind, raw)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid signal result")
		return
	}

	signal := &models.ValidationSignal{
		IdeaID: ideaID,
		Kind:   req.Kind,
		Result: result,
	}
	if err := s.db.AddValidationSignal(signal); err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to record signal")
		return
	}

	s.metrics.SignalsRecorded.WithLabelValues(string(req.Kind)).Inc()
	s.hub.Publish(events.EventSignalRecorded, userID, signal)
	s.respondJSON(w, http.StatusCreated, signal)
}

// handleAnalysis handles GET /api/v1/ideas/{id}/analysis. The scoring
// is recomputed from stored signals on every call.
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request, userID, ideaID string) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if _, err := s.db.GetIdea(ideaID, userID); err != nil {
		s.respondError(w, http.StatusNotFound, "Idea not found")
		return
	}

	signals, err := s.db.ListValidationSignals(ideaID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to list signals")
		return
	}

	analysis := validation.Analyze(signals)
	s.metrics.ScoresComputed.Inc()
	s.respondJSON(w, http.StatusOK, analysis)
}
