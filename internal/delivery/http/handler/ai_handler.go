package handler

import (
	"errors"

	"career-match/internal/delivery/http/dto"
	"career-match/internal/delivery/http/middleware"
	"career-match/internal/pkg/response"
	"career-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AIHandler struct {
	profiles usecase.ProfileUsecase
}

type analyzeSkillsRequest struct {
	Text string `json:"text"`
}

func NewAIHandler(profiles usecase.ProfileUsecase) *AIHandler {
	return &AIHandler{profiles: profiles}
}

func (h *AIHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/analyze-skills", h.AnalyzeSkills)
}

func (h *AIHandler) AnalyzeSkills(c fiber.Ctx) error {
	var req analyzeSkillsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	skills, technologies, err := h.profiles.AnalyzeText(c.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidInput):
			return middleware.NewAppError(fiber.StatusBadRequest, "Text must be non-empty and at most 3000 characters", nil, err)
		case errors.Is(err, usecase.ErrScoringFailed):
			return middleware.NewAppError(fiber.StatusServiceUnavailable, "Analysis temporarily unavailable", nil, err)
		default:
			return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
		}
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.SkillAnalysisResponse{
		Skills:       skills,
		Technologies: technologies,
	})
}
