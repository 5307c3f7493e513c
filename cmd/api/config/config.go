package config

import (
	"fmt"
	"os"
	"time"
)

// Config carries all environment wiring for the API process. Generation
// timeouts differ per content type: full decks and lesson plans take the
// upstream model minutes, a single activity or doubt answer seconds.
type Config struct {
	Port           string
	AllowedOrigins string
	JWTSecret      string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	GenerationServiceURL string
	DeckTimeout          time.Duration
	LessonPlanTimeout    time.Duration
	ActivityTimeout      time.Duration
	TopicTimeout         time.Duration
	DoubtTimeout         time.Duration
}

func New() *Config {
	return &Config{
		Port:           envOr("PORT", "3000"),
		AllowedOrigins: envOr("ALLOWED_ORIGINS", "http://localhost:5173"),
		JWTSecret:      os.Getenv("JWT_SECRET"),

		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),

		GenerationServiceURL: os.Getenv("GENERATION_SERVICE_URL"),
		DeckTimeout:          3 * time.Minute,
		LessonPlanTimeout:    3 * time.Minute,
		ActivityTimeout:      60 * time.Second,
		TopicTimeout:         60 * time.Second,
		DoubtTimeout:         20 * time.Second,
	}
}

// DSN assembles the Postgres connection string the same way the rest of the
// deployment tooling expects it.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
