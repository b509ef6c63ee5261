package handler

import (
	"errors"
	"strconv"

	"career-match/internal/delivery/http/dto"
	"career-match/internal/delivery/http/middleware"
	"career-match/internal/domain/student"
	"career-match/internal/pkg/response"
	"career-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	defaultListLimit = 10
	maxListLimit     = 20
)

type StudentHandler struct {
	profiles        usecase.ProfileUsecase
	matching        usecase.MatchingUsecase
	recommendations usecase.RecommendationUsecase
}

type upsertProfileRequest struct {
	Name            string   `json:"name"`
	University      string   `json:"university"`
	Specialty       string   `json:"specialty"`
	Skills          []string `json:"skills"`
	Technologies    []string `json:"technologies"`
	ExperienceText  string   `json:"experience_text"`
	GitHubURL       string   `json:"github_url"`
	CareerInterests []string `json:"career_interests"`
}

type mergeSkillsRequest struct {
	Skills       []string `json:"skills"`
	Technologies []string `json:"technologies"`
}

type connectGitHubRequest struct {
	GitHubURL    string   `json:"github_url"`
	Technologies []string `json:"technologies"`
}

type attachResumeRequest struct {
	ResumeURL      string   `json:"resume_url"`
	Skills         []string `json:"skills"`
	Technologies   []string `json:"technologies"`
	ExperienceText string   `json:"experience_text"`
}

func NewStudentHandler(
	profiles usecase.ProfileUsecase,
	matching usecase.MatchingUsecase,
	recommendations usecase.RecommendationUsecase,
) *StudentHandler {
	return &StudentHandler{profiles: profiles, matching: matching, recommendations: recommendations}
}

func (h *StudentHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/profile", h.GetProfile)
	r.Post("/profile", h.UpsertProfile)
	r.Post("/merge-skills", h.MergeSkills)
	r.Post("/connect-github", h.ConnectGitHub)
	r.Post("/attach-resume", h.AttachResume)
	r.Get("/matches", h.GetMatches)
	r.Get("/matches/:vacancy_id", h.ScorePair)
	r.Get("/recommendations", h.GetRecommendations)
}

func (h *StudentHandler) GetProfile(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	p, err := h.profiles.GetProfile(c.Context(), userID)
	if err != nil {
		return mapStudentUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewStudentProfileResponse(p))
}

func (h *StudentHandler) UpsertProfile(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req upsertProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	p, err := h.profiles.UpsertProfile(c.Context(), userID, usecase.ProfileInput{
		Name:            req.Name,
		University:      req.University,
		Specialty:       req.Specialty,
		Skills:          req.Skills,
		Technologies:    req.Technologies,
		ExperienceText:  req.ExperienceText,
		GitHubURL:       req.GitHubURL,
		CareerInterests: req.CareerInterests,
	})
	if err != nil {
		return mapStudentUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewStudentProfileResponse(p))
}

func (h *StudentHandler) MergeSkills(c fiber.Ctx) error {
	p, appErr := h.ownProfile(c)
	if appErr != nil {
		return appErr
	}

	var req mergeSkillsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	if len(req.Skills) == 0 && len(req.Technologies) == 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, nil)
	}

	merged, err := h.profiles.MergeSkills(c.Context(), p.ID, req.Skills, req.Technologies)
	if err != nil {
		return mapStudentUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewStudentProfileResponse(merged))
}

func (h *StudentHandler) ConnectGitHub(c fiber.Ctx) error {
	p, appErr := h.ownProfile(c)
	if appErr != nil {
		return appErr
	}

	var req connectGitHubRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	updated, err := h.profiles.ConnectGitHub(c.Context(), p.ID, req.GitHubURL, req.Technologies)
	if err != nil {
		return mapStudentUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewStudentProfileResponse(updated))
}

func (h *StudentHandler) AttachResume(c fiber.Ctx) error {
	p, appErr := h.ownProfile(c)
	if appErr != nil {
		return appErr
	}

	var req attachResumeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	updated, err := h.profiles.AttachResume(c.Context(), p.ID, req.ResumeURL, req.Skills, req.Technologies, req.ExperienceText)
	if err != nil {
		return mapStudentUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewStudentProfileResponse(updated))
}

func (h *StudentHandler) GetMatches(c fiber.Ctx) error {
	p, appErr := h.ownProfile(c)
	if appErr != nil {
		return appErr
	}

	limit := clampLimit(parseQueryInt(c, "limit", defaultListLimit))

	matches, err := h.matching.GetMatches(c.Context(), p.ID, limit)
	if err != nil {
		return mapStudentUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewStudentMatchListResponse(matches))
}

func (h *StudentHandler) ScorePair(c fiber.Ctx) error {
	p, appErr := h.ownProfile(c)
	if appErr != nil {
		return appErr
	}

	vacancyID, err := uuid.Parse(c.Params("vacancy_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid vacancy id", nil, err)
	}
	refresh := c.Query("refresh") == "true"

	rec, err := h.matching.ScorePair(c.Context(), p.ID, vacancyID, refresh)
	if err != nil {
		return mapStudentUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPairScoreResponse(rec))
}

func (h *StudentHandler) GetRecommendations(c fiber.Ctx) error {
	p, appErr := h.ownProfile(c)
	if appErr != nil {
		return appErr
	}

	recs, err := h.recommendations.ForStudent(c.Context(), p.ID)
	if err != nil {
		return mapStudentUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRecommendationsResponse(recs))
}

// ownProfile resolves the caller's student profile from the token's
// user id. Every student route except profile upsert requires one to
// exist already.
func (h *StudentHandler) ownProfile(c fiber.Ctx) (student.Profile, error) {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return student.Profile{}, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	p, err := h.profiles.GetProfile(c.Context(), userID)
	if err != nil {
		return student.Profile{}, mapStudentUsecaseError(err)
	}
	return p, nil
}

func mapStudentUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrStudentNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Student profile not found", nil, err)
	case errors.Is(err, usecase.ErrVacancyNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Vacancy not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	case errors.Is(err, usecase.ErrScoringFailed):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Scoring temporarily unavailable", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func parseQueryInt(c fiber.Ctx, key string, defaultVal int) int {
	s := c.Query(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
