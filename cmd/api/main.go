package main

import (
	"os"
	"strings"
	"time"

	"github.com/EDU-jjkr/EDUAI/cmd/api/config"
	"github.com/EDU-jjkr/EDUAI/internal/api"
	"github.com/EDU-jjkr/EDUAI/internal/auth"
	"github.com/EDU-jjkr/EDUAI/internal/database"
	"github.com/EDU-jjkr/EDUAI/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found")
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(os.Stderr)

	cfg := config.New()
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is not set in the environment")
	}
	if cfg.GenerationServiceURL == "" {
		// Startup still succeeds; generation endpoints answer NOT_CONFIGURED
		// until the URL is wired.
		log.Warn().Msg("GENERATION_SERVICE_URL is not set; content generation is disabled")
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	generator := services.NewHTTPGenerationClient(cfg.GenerationServiceURL, services.GenerationTimeouts{
		Deck:       cfg.DeckTimeout,
		LessonPlan: cfg.LessonPlanTimeout,
		Activity:   cfg.ActivityTimeout,
		Topic:      cfg.TopicTimeout,
		Doubt:      cfg.DoubtTimeout,
	})

	userService := services.NewUserService(db)
	chapterService := services.NewChapterService(db)
	contentStore := services.NewContentStore(db)
	contentService := services.NewContentService(contentStore, generator, chapterService)
	doubtService := services.NewDoubtService(db, generator)

	issuer := auth.NewTokenIssuer(cfg.JWTSecret)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	auth.SetupRoutes(r, issuer, userService)
	api.SetupRoutes(r, issuer, api.Services{
		Users:    userService,
		Content:  contentService,
		Chapters: chapterService,
		Doubts:   doubtService,
		Export:   services.NewExportService(),
		Roster:   services.NewRosterService(userService),
	})

	log.Info().Str("port", cfg.Port).Msg("Server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
