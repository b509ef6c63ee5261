package app

import (
	"context"
	"log"
	"os"
	"time"

	"career-match/internal/config"
	"career-match/internal/database"
	dbpostgres "career-match/internal/database/postgres"
	"career-match/internal/infrastructure/cache"
	"career-match/internal/pkg/jwt"
	"career-match/internal/repository"
	"career-match/internal/scoring/gemini"
	"career-match/internal/usecase"
)

// Container owns every long-lived dependency and the usecases built on
// them. Close tears down in reverse construction order.
type Container struct {
	Config config.Config
	Logger *log.Logger
	DB     database.DB
	Cache  *cache.Redis
	JWT    jwt.Service

	Profiles        usecase.ProfileUsecase
	Matching        usecase.MatchingUsecase
	Vacancies       usecase.VacancyUsecase
	Analytics       usecase.AnalyticsUsecase
	Recommendations usecase.RecommendationUsecase
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	redisCache := cache.NewRedis(cfg.Redis, logger)

	gen, err := gemini.NewGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	studentRepo := repository.NewPostgresStudentRepository(db)
	vacancyRepo := repository.NewPostgresVacancyRepository(db)
	matchRepo := repository.NewPostgresMatchRepository(db)

	assessor := gemini.NewAssessor(gen)
	extractor := gemini.NewExtractor(gen)
	recommender := gemini.NewRecommender(gen)

	matching := usecase.NewMatchingUsecase(
		studentRepo, vacancyRepo, matchRepo,
		assessor, redisCache, logger,
		usecase.MatchingConfig{
			CacheTTL:           cfg.Match.CacheTTL,
			ScoringConcurrency: cfg.Match.ScoringConcurrency,
			ScoringTimeout:     cfg.Match.ScoringTimeout,
		},
	)

	return &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Cache:  redisCache,
		JWT:    jwt.NewHMACService(cfg.JWT.Secret),

		Profiles:        usecase.NewProfileUsecase(studentRepo, matchRepo, extractor, redisCache, logger),
		Matching:        matching,
		Vacancies:       usecase.NewVacancyUsecase(vacancyRepo, matchRepo, redisCache, logger),
		Analytics:       usecase.NewAnalyticsUsecase(studentRepo, vacancyRepo, redisCache, cfg.Redis.TTL, logger),
		Recommendations: usecase.NewRecommendationUsecase(studentRepo, vacancyRepo, recommender),
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
