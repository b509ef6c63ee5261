package v1

import (
	"career-match/internal/delivery/http/handler"
	"career-match/internal/delivery/http/middleware"
	"career-match/internal/pkg/jwt"
	"career-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// Deps carries the constructed services into route registration. The
// container owns construction; this package only wires URLs to
// handlers.
type Deps struct {
	JWT jwt.Service

	Profiles        usecase.ProfileUsecase
	Matching        usecase.MatchingUsecase
	Vacancies       usecase.VacancyUsecase
	Analytics       usecase.AnalyticsUsecase
	Recommendations usecase.RecommendationUsecase
}

func Register(r fiber.Router, deps Deps) {
	if r == nil {
		return
	}

	authMw := middleware.NewAuthMiddleware(deps.JWT)
	protected := r.Group("", authMw.Middleware())

	studentHandler := handler.NewStudentHandler(deps.Profiles, deps.Matching, deps.Recommendations)
	studentGroup := protected.Group("/students", middleware.RequireRole(jwt.RoleStudent))
	studentHandler.RegisterRoutes(studentGroup)

	employerHandler := handler.NewEmployerHandler(deps.Vacancies, deps.Matching)
	employerGroup := protected.Group("/employers", middleware.RequireRole(jwt.RoleEmployer))
	employerHandler.RegisterRoutes(employerGroup)

	aiHandler := handler.NewAIHandler(deps.Profiles)
	aiHandler.RegisterRoutes(protected.Group("/ai"))

	analyticsHandler := handler.NewAnalyticsHandler(deps.Analytics)
	analyticsHandler.RegisterRoutes(protected.Group("/analytics"))
}
