package api

import (
	"net/http"

	"github.com/nichelabs/nichenav/internal/events"
	"github.com/nichelabs/nichenav/pkg/models"
)

// GenerateIdeasRequest is the payload for keyword-driven idea generation
type GenerateIdeasRequest struct {
	Keywords string `json:"keywords"`
	Industry string `json:"industry"`
}

// handleGenerateIdeas handles POST /api/v1/generate/ideas. Candidates
// are returned for review; nothing is saved until the user creates an
// idea from one.
func (s *Server) handleGenerateIdeas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req GenerateIdeasRequest
	if err := s.parseJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	candidates, err := s.generator.GenerateIdeas(r.Context(), req.Keywords, req.Industry)
	if err != nil {
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, candidates)
}

// GenerateSurveyRequest optionally carries questions to build the
// survey from; when absent, questions are generated first.
type GenerateSurveyRequest struct {
	Questions []models.ValidationQuestion `json:"questions"`
}

// generateQuestions handles POST /api/v1/ideas/{id}/questions
func (s *Server) generateQuestions(w http.ResponseWriter, r *http.Request, userID, ideaID string) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	idea, err := s.db.GetIdea(ideaID, userID)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "Idea not found")
		return
	}

	questions, err := s.generator.GenerateValidationQuestions(r.Context(), idea)
	if err != nil {
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, questions)
}

// generateSurvey handles POST /api/v1/ideas/{id}/survey
func (s *Server) generateSurvey(w http.ResponseWriter, r *http.Request, userID, ideaID string) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	idea, err := s.db.GetIdea(ideaID, userID)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "Idea not found")
		return
	}

	var req GenerateSurveyRequest
	if r.ContentLength > 0 {
		if err := s.parseJSON(r, &req); err != nil {
			s.respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	questions := req.Questions
	if len(questions) == 0 {
		questions, err = s.generator.GenerateValidationQuestions(r.Context(), idea)
		if err != nil {
			s.respondError(w, http.StatusBadGateway, err.Error())
			return
		}
	}

	survey, err := s.generator.GenerateSurveyTemplate(r.Context(), idea, questions)
	if err != nil {
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"survey":    survey,
		"questions": questions,
	})
}

// generateMonetization handles POST /api/v1/ideas/{id}/monetization.
// The generated strategy is stored on the idea.
func (s *Server) generateMonetization(w http.ResponseWriter, r *http.Request, userID, ideaID string) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	idea, err := s.db.GetIdea(ideaID, userID)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "Idea not found")
		return
	}

	strategy, err := s.generator.GenerateMonetizationStrategy(r.Context(), idea)
	if err != nil {
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	if err := s.db.SetMonetizationStrategy(ideaID, userID, strategy); err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to store strategy")
		return
	}

	s.hub.Publish(events.EventIdeaUpdated, userID, map[string]string{"id": ideaID})
	s.respondJSON(w, http.StatusOK, strategy)
}

// generateAcquisition handles POST /api/v1/ideas/{id}/acquisition.
// The generated strategy is stored on the idea.
func (s *Server) generateAcquisition(w http.ResponseWriter, r *http.Request, userID, ideaID string) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	idea, err := s.db.GetIdea(ideaID, userID)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "Idea not found")
		return
	}

	strategy, err := s.generator.GenerateAcquisitionStrategy(r.Context(), idea)
	if err != nil {
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	if err := s.db.SetAcquisitionStrategy(ideaID, userID, strategy); err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to store strategy")
		return
	}

	s.hub.Publish(events.EventIdeaUpdated, userID, map[string]string{"id": ideaID})
	s.respondJSON(w, http.StatusOK, strategy)
}
