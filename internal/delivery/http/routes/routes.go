package routes

import (
	"career-match/internal/database"
	"career-match/internal/delivery/http/handler"
	v1 "career-match/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

func Register(app *fiber.App, db database.DB, deps v1.Deps) {
	if app == nil {
		return
	}

	handler.NewHealthHandler(db).RegisterRoutes(app)

	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), deps)
}
