package app

import (
	"fmt"
	"strings"

	"career-match/internal/config"
	"career-match/internal/delivery/http/middleware"
	"career-match/internal/delivery/http/routes"
	v1 "career-match/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(container *Container) *App {
	f := fiber.New(fiber.Config{
		AppName: container.Config.App.AppName,
	})

	errMw := middleware.NewErrorMiddleware(container.Logger)
	f.Use(errMw.Middleware())

	accessMw := middleware.NewAccessLogMiddleware(container.Logger)
	f.Use(accessMw.Middleware())

	routes.Register(f, container.DB, v1.Deps{
		JWT:             container.JWT,
		Profiles:        container.Profiles,
		Matching:        container.Matching,
		Vacancies:       container.Vacancies,
		Analytics:       container.Analytics,
		Recommendations: container.Recommendations,
	})

	return &App{Fiber: f, Container: container}
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	container, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	app := New(container)
	return app, container.Close, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
