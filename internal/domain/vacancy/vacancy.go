package vacancy

import (
	"time"

	"github.com/google/uuid"
)

type Vacancy struct {
	ID                   uuid.UUID
	EmployerID           uuid.UUID
	Title                string
	Company              string
	Description          string
	RequiredSkills       []string
	RequiredTechnologies []string
	ExperienceYears      int
	SoftSkills           []string
	// Inactive vacancies are excluded from student matching but stay
	// visible to their owning employer.
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Update struct {
	Title                *string
	Company              *string
	Description          *string
	RequiredSkills       []string
	RequiredTechnologies []string
	ExperienceYears      *int
	SoftSkills           []string
	IsActive             *bool
}

// Apply overlays the non-nil fields of u onto v and reports whether any
// matching-relevant field (requirements, experience, activity) changed.
func (u Update) Apply(v *Vacancy) bool {
	affectsMatching := false
	if u.Title != nil {
		v.Title = *u.Title
	}
	if u.Company != nil {
		v.Company = *u.Company
	}
	if u.Description != nil {
		v.Description = *u.Description
		affectsMatching = true
	}
	if u.RequiredSkills != nil {
		v.RequiredSkills = u.RequiredSkills
		affectsMatching = true
	}
	if u.RequiredTechnologies != nil {
		v.RequiredTechnologies = u.RequiredTechnologies
		affectsMatching = true
	}
	if u.ExperienceYears != nil {
		v.ExperienceYears = *u.ExperienceYears
		affectsMatching = true
	}
	if u.SoftSkills != nil {
		v.SoftSkills = u.SoftSkills
		affectsMatching = true
	}
	if u.IsActive != nil {
		v.IsActive = *u.IsActive
	}
	return affectsMatching
}

// Empty reports whether the update carries no fields at all.
func (u Update) Empty() bool {
	return u.Title == nil && u.Company == nil && u.Description == nil &&
		u.RequiredSkills == nil && u.RequiredTechnologies == nil &&
		u.ExperienceYears == nil && u.SoftSkills == nil && u.IsActive == nil
}
