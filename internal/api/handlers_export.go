package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/nichelabs/nichenav/internal/subscription"
	"github.com/nichelabs/nichenav/internal/validation"
)

// handleExport handles GET /api/v1/export?format=json|csv. Export is a
// pro feature.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
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
	if !subscription.CanPerformAction(profile.SubscriptionStatus, subscription.ActionExportData, 0) {
		s.respondError(w, http.StatusForbidden, "Data export requires a pro subscription")
		return
	}

	ideas, err := s.db.ListIdeas(claims.UserID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to load ideas")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	filename := fmt.Sprintf("nichenav-export-%s", time.Now().UTC().Format("2006-01-02"))

	switch format {
	case "json":
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".json"))
		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"exported_at": time.Now().UTC(),
			"user":        profile.Email,
			"ideas":       ideas,
		})

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".csv"))
		w.WriteHeader(http.StatusOK)

		cw := csv.NewWriter(w)
		cw.Write([]string{
			"id", "name", "description", "problem_category", "validation_stage",
			"revenue_potential", "target_users", "validation_score", "pain_points", "signals", "created_at",
		})
		for _, idea := range ideas {
			analysis := validation.Analyze(idea.ValidationSignals)
			cw.Write([]string{
				idea.ID,
				idea.Name,
				idea.Description,
				idea.ProblemCategory,
				string(idea.ValidationStage),
				strconv.Itoa(idea.RevenuePotential),
				strconv.Itoa(idea.TargetUsers),
				strconv.Itoa(analysis.Score),
				strconv.Itoa(len(idea.PainPoints)),
				strconv.Itoa(len(idea.ValidationSignals)),
				idea.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		cw.Flush()

	default:
		s.respondError(w, http.StatusBadRequest, "Unknown export format; use json or csv")
	}
}

// handleAnalytics handles GET /api/v1/analytics: portfolio statistics
// plus a per-idea validation breakdown. Advanced analytics is a pro
// feature; basic statistics stay on /api/v1/ideas/statistics.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
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
	if !subscription.CanPerformAction(profile.SubscriptionStatus, subscription.ActionAdvancedAnalytics, 0) {
		s.respondError(w, http.StatusForbidden, "Advanced analytics requires a pro subscription")
		return
	}

	ideas, err := s.db.ListIdeas(claims.UserID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to load ideas")
		return
	}

	type ideaAnalytics struct {
		ID              string              `json:"id"`
		Name            string              `json:"name"`
		ValidationStage string              `json:"validation_stage"`
		Analysis        validation.Analysis `json:"analysis"`
	}

	breakdown := make([]ideaAnalytics, 0, len(ideas))
	for _, idea := range ideas {
		breakdown = append(breakdown, ideaAnalytics{
			ID:              idea.ID,
			Name:            idea.Name,
			ValidationStage: string(idea.ValidationStage),
			Analysis:        validation.Analyze(idea.ValidationSignals),
		})
	}

	stats, err := s.db.IdeaStatistics(claims.UserID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"statistics": stats,
		"ideas":      breakdown,
	})
}
