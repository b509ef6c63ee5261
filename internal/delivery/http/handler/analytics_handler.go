package handler

import (
	"career-match/internal/delivery/http/middleware"
	"career-match/internal/pkg/response"
	"career-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AnalyticsHandler struct {
	analytics usecase.AnalyticsUsecase
}

func NewAnalyticsHandler(analytics usecase.AnalyticsUsecase) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func (h *AnalyticsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/top-skills", h.TopSkills)
	r.Get("/readiness", h.Readiness)
	r.Get("/trends", h.Trends)
}

func (h *AnalyticsHandler) TopSkills(c fiber.Ctx) error {
	limit := parseQueryInt(c, "limit", 20)

	report, err := h.analytics.TopSkills(c.Context(), limit)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, report)
}

func (h *AnalyticsHandler) Readiness(c fiber.Ctx) error {
	report, err := h.analytics.Readiness(c.Context(), c.Query("specialty"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, report)
}

func (h *AnalyticsHandler) Trends(c fiber.Ctx) error {
	report, err := h.analytics.Trends(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, report)
}
