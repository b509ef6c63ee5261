package dto

import (
	"time"

	"career-match/internal/domain/vacancy"

	"github.com/google/uuid"
)

type VacancyResponse struct {
	ID                   uuid.UUID `json:"id"`
	Title                string    `json:"title"`
	Company              string    `json:"company"`
	Description          string    `json:"description,omitempty"`
	RequiredSkills       []string  `json:"required_skills"`
	RequiredTechnologies []string  `json:"required_technologies"`
	ExperienceYears      int       `json:"experience_years"`
	SoftSkills           []string  `json:"soft_skills,omitempty"`
	IsActive             bool      `json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func NewVacancyResponse(v vacancy.Vacancy) VacancyResponse {
	return VacancyResponse{
		ID:                   v.ID,
		Title:                v.Title,
		Company:              v.Company,
		Description:          v.Description,
		RequiredSkills:       emptyIfNil(v.RequiredSkills),
		RequiredTechnologies: emptyIfNil(v.RequiredTechnologies),
		ExperienceYears:      v.ExperienceYears,
		SoftSkills:           v.SoftSkills,
		IsActive:             v.IsActive,
		CreatedAt:            v.CreatedAt,
		UpdatedAt:            v.UpdatedAt,
	}
}

func NewVacancyListResponse(items []vacancy.Vacancy) []VacancyResponse {
	out := make([]VacancyResponse, 0, len(items))
	for _, v := range items {
		out = append(out, NewVacancyResponse(v))
	}
	return out
}
