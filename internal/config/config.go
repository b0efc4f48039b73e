package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config содержит конфигурацию приложения
type Config struct {
	BotToken   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// OpenAI
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	// HTTP API
	HTTPAddr  string
	WebAppURL string

	// Пути к данным
	ExerciseDataPath string // каталог упражнений, data/exercises.json
	LocalesDir       string // файлы локализации

	DefaultTimezone string
	LogLevel        string
}

// Load загружает конфигурацию из переменных окружения или .env файла
func Load() (*Config, error) {
	// .env для локальной разработки; в проде переменные заданы окружением
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:   getEnv("BOT_TOKEN", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "gymbot"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),

		HTTPAddr:  getEnv("HTTP_ADDR", ":8080"),
		WebAppURL: getEnv("WEBAPP_URL", ""),

		ExerciseDataPath: getEnv("EXERCISE_DATA_PATH", "data/exercises.json"),
		LocalesDir:       getEnv("LOCALES_DIR", "locales"),

		DefaultTimezone: getEnv("DEFAULT_TIMEZONE", "UTC"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN не задан")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// DSN возвращает строку подключения к базе данных
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}
