package dto

import (
	"time"

	"career-match/internal/domain/match"
	"career-match/internal/usecase"

	"github.com/google/uuid"
)

type AssessmentResponse struct {
	MatchPercent  int      `json:"match_percent"`
	StrongSkills  []string `json:"strong_skills"`
	MissingSkills []string `json:"missing_skills"`
	Explanation   string   `json:"explanation,omitempty"`
}

func NewAssessmentResponse(a match.Assessment) AssessmentResponse {
	return AssessmentResponse{
		MatchPercent:  a.MatchPercent,
		StrongSkills:  emptyIfNil(a.StrongSkills),
		MissingSkills: emptyIfNil(a.MissingSkills),
		Explanation:   a.Explanation,
	}
}

type PairScoreResponse struct {
	StudentID  uuid.UUID          `json:"student_id"`
	VacancyID  uuid.UUID          `json:"vacancy_id"`
	Assessment AssessmentResponse `json:"assessment"`
	CachedAt   time.Time          `json:"cached_at"`
}

func NewPairScoreResponse(rec match.Record) PairScoreResponse {
	return PairScoreResponse{
		StudentID:  rec.StudentID,
		VacancyID:  rec.VacancyID,
		Assessment: NewAssessmentResponse(rec.Assessment()),
		CachedAt:   rec.CachedAt,
	}
}

type StudentMatchResponse struct {
	Vacancy    VacancyResponse    `json:"vacancy"`
	Assessment AssessmentResponse `json:"assessment"`
	CachedAt   time.Time          `json:"cached_at"`
	Stale      bool               `json:"stale"`
}

func NewStudentMatchListResponse(items []usecase.StudentMatch) []StudentMatchResponse {
	out := make([]StudentMatchResponse, 0, len(items))
	for _, m := range items {
		out = append(out, StudentMatchResponse{
			Vacancy:    NewVacancyResponse(m.Vacancy),
			Assessment: NewAssessmentResponse(m.Assessment),
			CachedAt:   m.CachedAt,
			Stale:      m.Stale,
		})
	}
	return out
}

type CandidateResponse struct {
	Student    StudentProfileResponse `json:"student"`
	Assessment AssessmentResponse     `json:"assessment"`
	CachedAt   time.Time              `json:"cached_at"`
	Stale      bool                   `json:"stale"`
}

func NewCandidateListResponse(items []usecase.VacancyCandidate) []CandidateResponse {
	out := make([]CandidateResponse, 0, len(items))
	for _, c := range items {
		out = append(out, CandidateResponse{
			Student:    NewStudentProfileResponse(c.Student),
			Assessment: NewAssessmentResponse(c.Assessment),
			CachedAt:   c.CachedAt,
			Stale:      c.Stale,
		})
	}
	return out
}
