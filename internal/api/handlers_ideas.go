package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/nichelabs/nichenav/internal/database"
	"github.com/nichelabs/nichenav/internal/events"
	"github.com/nichelabs/nichenav/internal/subscription"
	"github.com/nichelabs/nichenav/pkg/models"
)

const ideasPrefix = "/api/v1/ideas"

// CreateIdeaRequest is the payload for saving a new idea
type CreateIdeaRequest struct {
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	ProblemCategory  string             `json:"problem_category"`
	ValidationStage  string             `json:"validation_stage"`
	RevenuePotential int                `json:"revenue_potential"`
	TargetUsers      int                `json:"target_users"`
	PainPoints       []models.PainPoint `json:"pain_points"`
}

// handleIdeas handles /api/v1/ideas (list and create)
func (s *Server) handleIdeas(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listIdeas(w, r)
	case http.MethodPost:
		s.createIdea(w, r)
	default:
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) listIdeas(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	ideas, err := s.db.ListIdeas(claims.UserID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to list ideas")
		return
	}
	if ideas == nil {
		ideas = []*models.Idea{}
	}

	s.respondJSON(w, http.StatusOK, ideas)
}

func (s *Server) createIdea(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	allowed, err := s.checkUsage(claims.UserID, subscription.ActionCreateIdea)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to check plan limits")
		return
	}
	if !allowed {
		s.respondError(w, http.StatusForbidden, "Idea limit reached; upgrade to pro for unlimited ideas")
		return
	}

	var req CreateIdeaRequest
	if err := s.parseJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		s.respondError(w, http.StatusBadRequest, "Idea name is required")
		return
	}
	if req.RevenuePotential < 0 || req.TargetUsers < 0 {
		s.respondError(w, http.StatusBadRequest, "Estimates must be non-negative")
		return
	}

	stage := models.ValidationStage(req.ValidationStage)
	if stage == "" {
		stage = models.StageInitial
	}
	switch stage {
	case models.StageInitial, models.StageTesting, models.StageValidated, models.StageRejected:
	default:
		s.respondError(w, http.StatusBadRequest, "Unknown validation stage")
		return
	}

	now := time.Now().UTC()
	idea := &models.Idea{
		ID:               uuid.New().String(),
		UserID:           claims.UserID,
		Name:             req.Name,
		Description:      req.Description,
		ProblemCategory:  req.ProblemCategory,
		ValidationStage:  stage,
		RevenuePotential: req.RevenuePotential,
		TargetUsers:      req.TargetUsers,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.db.CreateIdea(idea); err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to create idea")
		return
	}

	if len(req.PainPoints) > 0 {
		if err := s.db.AddPainPoints(idea.ID, req.PainPoints); err != nil {
			s.respondError(w, http.StatusInternalServerError, "Failed to store pain points")
			return
		}
		idea.PainPoints, _ = s.db.ListPainPoints(idea.ID)
	}

	s.metrics.IdeasCreated.Inc()
	s.hub.Publish(events.EventIdeaCreated, claims.UserID, idea)
	s.respondJSON(w, http.StatusCreated, idea)
}

// handleIdea handles /api/v1/ideas/{id} and its sub-resources
func (s *Server) handleIdea(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	ideaID := s.extractID(r.URL.Path, ideasPrefix)
	if ideaID == "" {
		s.respondError(w, http.StatusBadRequest, "Idea ID is required")
		return
	}

	switch s.subResource(r.URL.Path, ideasPrefix, ideaID) {
	case "":
		s.handleIdeaRoot(w, r, claims.UserID, ideaID)
	case "duplicate":
		s.duplicateIdea(w, r, claims.UserID, ideaID)
	case "pain-points":
		s.replacePainPoints(w, r, claims.UserID, ideaID)
	case "signals":
		s.handleSignals(w, r, claims.UserID, ideaID)
	case "analysis":
		s.handleAnalysis(w, r, claims.UserID, ideaID)
	case "questions":
		s.generateQuestions(w, r, claims.UserID, ideaID)
	case "survey":
		s.generateSurvey(w, r, claims.UserID, ideaID)
	case "monetization":
		s.generateMonetization(w, r, claims.UserID, ideaID)
	case "acquisition":
		s.generateAcquisition(w, r, claims.UserID, ideaID)
	default:
		s.respondError(w, http.StatusNotFound, "Unknown resource")
	}
}

func (s *Server) handleIdeaRoot(w http.ResponseWriter, r *http.Request, userID, ideaID string) {
	switch r.Method {
	case http.MethodGet:
		idea, err := s.db.GetIdea(ideaID, userID)
		if err != nil {
			s.respondError(w, http.StatusNotFound, "Idea not found")
			return
		}
		s.respondJSON(w, http.StatusOK, idea)

	case http.MethodPatch, http.MethodPut:
		var updates map[string]interface{}
		if err := s.parseJSON(r, &updates); err != nil {
			s.respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := s.db.UpdateIdea(ideaID, userID, updates); err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		idea, err := s.db.GetIdea(ideaID, userID)
		if err != nil {
			s.respondError(w, http.StatusNotFound, "Idea not found")
			return
		}
		s.hub.Publish(events.EventIdeaUpdated, userID, idea)
		s.respondJSON(w, http.StatusOK, idea)

	case http.MethodDelete:
		if err := s.db.DeleteIdea(ideaID, userID); err != nil {
			s.respondError(w, http.StatusNotFound, "Idea not found")
			return
		}
		s.metrics.IdeasDeleted.Inc()
		s.hub.Publish(events.EventIdeaDeleted, userID, map[string]string{"id": ideaID})
		s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) duplicateIdea(w http.ResponseWriter, r *http.Request, userID, ideaID string) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// A duplicate is a new idea and counts against the plan limit.
	allowed, err := s.checkUsage(userID, subscription.ActionCreateIdea)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to check plan limits")
		return
	}
	if !allowed {
		s.respondError(w, http.StatusForbidden, "Idea limit reached; upgrade to pro for unlimited ideas")
		return
	}

	copy, err := s.db.DuplicateIdea(ideaID, userID)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "Idea not found")
		return
	}

	s.metrics.IdeasCreated.Inc()
	s.hub.Publish(events.EventIdeaCreated, userID, copy)
	s.respondJSON(w, http.StatusCreated, copy)
}

func (s *Server) replacePainPoints(w http.ResponseWriter, r *http.Request, userID, ideaID string) {
	if r.Method != http.MethodPut {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if _, err := s.db.GetIdea(ideaID, userID); err != nil {
		s.respondError(w, http.StatusNotFound, "Idea not found")
		return
	}

	var painPoints []models.PainPoint
	if err := s.parseJSON(r, &painPoints); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	for _, p := range painPoints {
		if !validScore(p.ImpactScore) || !validScore(p.WillingnessToPay) || !validScore(p.FrequencyScore) {
			s.respondError(w, http.StatusBadRequest, "Pain point scores must be between 0 and 10")
			return
		}
	}

	if err := s.db.ReplacePainPoints(ideaID, painPoints); err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to store pain points")
		return
	}

	stored, err := s.db.ListPainPoints(ideaID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to load pain points")
		return
	}
	s.respondJSON(w, http.StatusOK, stored)
}

// handleSearchIdeas handles GET /api/v1/ideas/search
func (s *Server) handleSearchIdeas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	claims := claimsFrom(r)
	q := r.URL.Query()

	filters := database.SearchFilters{
		Category:  q.Get("category"),
		Stage:     models.ValidationStage(q.Get("stage")),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}
	if v := q.Get("min_revenue"); v != "" {
		filters.MinRevenue, _ = strconv.Atoi(v)
	}
	if v := q.Get("max_revenue"); v != "" {
		filters.MaxRevenue, _ = strconv.Atoi(v)
	}

	ideas, err := s.db.SearchIdeas(claims.UserID, q.Get("q"), filters)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Search failed")
		return
	}
	if ideas == nil {
		ideas = []*models.Idea{}
	}

	s.respondJSON(w, http.StatusOK, ideas)
}

// handleStatistics handles GET /api/v1/ideas/statistics
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	claims := claimsFrom(r)
	stats, err := s.db.IdeaStatistics(claims.UserID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}

	s.respondJSON(w, http.StatusOK, stats)
}

func validScore(score int) bool {
	return score >= 0 && score <= 10
}

// checkUsage looks up the user's plan and current usage for a
// count-bounded action.
func (s *Server) checkUsage(userID string, action subscription.Action) (bool, error) {
	profile, err := s.db.GetProfile(userID)
	if err != nil {
		return false, err
	}

	var count int
	switch action {
	case subscription.ActionCreateIdea:
		count, err = s.db.CountIdeas(userID)
	case subscription.ActionCreateValidation:
		count, err = s.db.CountValidationSignals(userID)
	}
	if err != nil {
		return false, err
	}

	return subscription.CanPerformAction(profile.SubscriptionStatus, action, count), nil
}
