package dto

import (
	"time"

	"career-match/internal/scoring"
	"career-match/internal/usecase"
)

type RecommendationResponse struct {
	Priority    string   `json:"priority"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	ActionItems []string `json:"action_items,omitempty"`
}

type RecommendationsResponse struct {
	Summary         string                   `json:"summary"`
	Recommendations []RecommendationResponse `json:"recommendations"`
	GeneratedAt     time.Time                `json:"generated_at"`
}

func NewRecommendationsResponse(r usecase.Recommendations) RecommendationsResponse {
	recs := make([]RecommendationResponse, 0, len(r.Recommendations))
	for _, rec := range r.Recommendations {
		recs = append(recs, newRecommendationResponse(rec))
	}
	return RecommendationsResponse{
		Summary:         r.Summary,
		Recommendations: recs,
		GeneratedAt:     r.GeneratedAt,
	}
}

func newRecommendationResponse(r scoring.Recommendation) RecommendationResponse {
	return RecommendationResponse{
		Priority:    r.Priority,
		Category:    r.Category,
		Title:       r.Title,
		Description: r.Description,
		ActionItems: r.ActionItems,
	}
}

type SkillAnalysisResponse struct {
	Skills       []string `json:"skills"`
	Technologies []string `json:"technologies"`
}
