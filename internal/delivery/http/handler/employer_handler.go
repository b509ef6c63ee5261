package handler

import (
	"errors"

	"career-match/internal/delivery/http/dto"
	"career-match/internal/delivery/http/middleware"
	"career-match/internal/domain/vacancy"
	"career-match/internal/pkg/response"
	"career-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type EmployerHandler struct {
	vacancies usecase.VacancyUsecase
	matching  usecase.MatchingUsecase
}

type createVacancyRequest struct {
	Title                string   `json:"title"`
	Company              string   `json:"company"`
	Description          string   `json:"description"`
	RequiredSkills       []string `json:"required_skills"`
	RequiredTechnologies []string `json:"required_technologies"`
	ExperienceYears      int      `json:"experience_years"`
	SoftSkills           []string `json:"soft_skills"`
}

type updateVacancyRequest struct {
	Title                *string  `json:"title"`
	Company              *string  `json:"company"`
	Description          *string  `json:"description"`
	RequiredSkills       []string `json:"required_skills"`
	RequiredTechnologies []string `json:"required_technologies"`
	ExperienceYears      *int     `json:"experience_years"`
	SoftSkills           []string `json:"soft_skills"`
	IsActive             *bool    `json:"is_active"`
}

func NewEmployerHandler(vacancies usecase.VacancyUsecase, matching usecase.MatchingUsecase) *EmployerHandler {
	return &EmployerHandler{vacancies: vacancies, matching: matching}
}

func (h *EmployerHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/vacancies", h.CreateVacancy)
	r.Get("/vacancies", h.ListVacancies)
	r.Put("/vacancies/:vacancy_id", h.UpdateVacancy)
	r.Get("/vacancies/:vacancy_id/candidates", h.GetCandidates)
}

func (h *EmployerHandler) CreateVacancy(c fiber.Ctx) error {
	employerID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req createVacancyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	created, err := h.vacancies.Create(c.Context(), employerID, usecase.VacancyInput{
		Title:                req.Title,
		Company:              req.Company,
		Description:          req.Description,
		RequiredSkills:       req.RequiredSkills,
		RequiredTechnologies: req.RequiredTechnologies,
		ExperienceYears:      req.ExperienceYears,
		SoftSkills:           req.SoftSkills,
	})
	if err != nil {
		return mapEmployerUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "created", dto.NewVacancyResponse(created))
}

func (h *EmployerHandler) ListVacancies(c fiber.Ctx) error {
	employerID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.vacancies.ListByEmployer(c.Context(), employerID)
	if err != nil {
		return mapEmployerUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewVacancyListResponse(items))
}

func (h *EmployerHandler) UpdateVacancy(c fiber.Ctx) error {
	employerID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	vacancyID, err := uuid.Parse(c.Params("vacancy_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid vacancy id", nil, err)
	}

	var req updateVacancyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	updated, err := h.vacancies.Update(c.Context(), employerID, vacancyID, vacancy.Update{
		Title:                req.Title,
		Company:              req.Company,
		Description:          req.Description,
		RequiredSkills:       req.RequiredSkills,
		RequiredTechnologies: req.RequiredTechnologies,
		ExperienceYears:      req.ExperienceYears,
		SoftSkills:           req.SoftSkills,
		IsActive:             req.IsActive,
	})
	if err != nil {
		return mapEmployerUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewVacancyResponse(updated))
}

func (h *EmployerHandler) GetCandidates(c fiber.Ctx) error {
	employerID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	vacancyID, err := uuid.Parse(c.Params("vacancy_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid vacancy id", nil, err)
	}

	// Candidate listings are restricted to the vacancy's owner.
	v, err := h.vacancies.Get(c.Context(), vacancyID)
	if err != nil {
		return mapEmployerUsecaseError(err)
	}
	if v.EmployerID != employerID {
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
	}

	limit := clampLimit(parseQueryInt(c, "limit", defaultListLimit))

	candidates, err := h.matching.GetCandidates(c.Context(), vacancyID, limit)
	if err != nil {
		return mapEmployerUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCandidateListResponse(candidates))
}

func mapEmployerUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrVacancyNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Vacancy not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	case errors.Is(err, usecase.ErrScoringFailed):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Scoring temporarily unavailable", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
