package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Agent    AgentConfig
	Redis    RedisConfig
	Telegram TelegramConfig
	GitHub   GitHubConfig
	App      AppConfig
}

type ServerConfig struct {
	Port   string
	APIKey string // optional; empty disables the API-key check
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the pgx connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type AgentConfig struct {
	GeminiAPIKey      string
	Model             string
	RetryBudget       int // extra attempts after the first reasoner failure
	RequestsPerMinute int
}

type RedisConfig struct {
	URL string // optional; empty disables the project cache
}

type TelegramConfig struct {
	BotToken string // optional; empty disables the webhook route
}

type GitHubConfig struct {
	Token string // optional; empty disables repository provisioning
	Owner string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:   getEnv("PORT", "8080"),
			APIKey: getEnv("API_KEY", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "orchestrator"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "project_orchestrator"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Agent: AgentConfig{
			GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
			Model:             getEnv("AGENT_MODEL", "gemini-2.0-flash"),
			RetryBudget:       getEnvAsInt("AGENT_RETRIES", 2),
			RequestsPerMinute: getEnvAsInt("AGENT_REQUESTS_PER_MINUTE", 30),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		},
		GitHub: GitHubConfig{
			Token: getEnv("GITHUB_ACCESS_TOKEN", ""),
			Owner: getEnv("GITHUB_OWNER", ""),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.Agent.RetryBudget < 0 {
		return fmt.Errorf("AGENT_RETRIES must not be negative")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}
