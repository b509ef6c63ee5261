package dto

import (
	"time"

	"career-match/internal/domain/student"

	"github.com/google/uuid"
)

type StudentProfileResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	University        string    `json:"university,omitempty"`
	Specialty         string    `json:"specialty,omitempty"`
	Skills            []string  `json:"skills"`
	Technologies      []string  `json:"technologies"`
	ExperienceText    string    `json:"experience_text,omitempty"`
	GitHubURL         string    `json:"github_url,omitempty"`
	ResumeURL         string    `json:"resume_url,omitempty"`
	CareerInterests   []string  `json:"career_interests,omitempty"`
	ProfileCompletion int       `json:"profile_completion"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func NewStudentProfileResponse(p student.Profile) StudentProfileResponse {
	return StudentProfileResponse{
		ID:                p.ID,
		Name:              p.Name,
		University:        p.University,
		Specialty:         p.Specialty,
		Skills:            emptyIfNil(p.Skills),
		Technologies:      emptyIfNil(p.Technologies),
		ExperienceText:    p.ExperienceText,
		GitHubURL:         p.GitHubURL,
		ResumeURL:         p.ResumeURL,
		CareerInterests:   p.CareerInterests,
		ProfileCompletion: p.ProfileCompletion,
		UpdatedAt:         p.UpdatedAt,
	}
}

func emptyIfNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
