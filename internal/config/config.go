package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/workforcehq/records-backend-go/internal/pkg/validator"

	"github.com/joho/godotenv"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	Encryption   EncryptionConfig
	Attendance   AttendanceConfig
	Leave        LeaveConfig
	Payroll      PayrollConfig
	AI           AIConfig
	Storage      StorageConfig
	OAuth2Google OAuth2GoogleConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port       int
	Env        string
	LogLevel   string
	CORSOrigin string
}

// EncryptionConfig holds the field-level encryption key (64 hex chars, 32 bytes decoded).
type EncryptionConfig struct {
	FieldKey string
}

type AttendanceConfig struct {
	// WorkStart is the lateness cutoff as "HH:MM" local time.
	WorkStart string
}

type LeaveConfig struct {
	ReasonMinLength int
}

type PayrollConfig struct {
	// HalfDayWeight is how much of a worked day a half_day attendance counts as.
	HalfDayWeight string
}

type AIConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
}

type OAuth2GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func Load() (*Config, error) {
	// .env is optional outside local development
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "workforce_records"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:       appPort,
		Env:        getEnv("APP_ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Field encryption configuration
	config.Encryption = EncryptionConfig{
		FieldKey: getEnv("FIELD_ENCRYPTION_KEY", ""),
	}

	// Domain configuration
	config.Attendance = AttendanceConfig{
		WorkStart: getEnv("WORK_START_TIME", "09:00"),
	}

	reasonMinLength, err := strconv.Atoi(getEnv("LEAVE_REASON_MIN_LENGTH", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_REASON_MIN_LENGTH: %w", err)
	}
	config.Leave = LeaveConfig{
		ReasonMinLength: reasonMinLength,
	}

	config.Payroll = PayrollConfig{
		HalfDayWeight: getEnv("HALF_DAY_WEIGHT", "0.5"),
	}

	// AI provider configuration (optional; absence degrades AI features only)
	aiTimeout, err := time.ParseDuration(getEnv("AI_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid AI_TIMEOUT: %w", err)
	}
	config.AI = AIConfig{
		APIKey:  getEnv("AI_API_KEY", ""),
		BaseURL: getEnv("AI_BASE_URL", ""),
		Timeout: aiTimeout,
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
	}

	config.OAuth2Google = OAuth2GoogleConfig{
		ClientID:     getEnv("CLIENT_ID", ""),
		ClientSecret: getEnv("CLIENT_SECRET", ""),
		RedirectURL:  getEnv("REDIRECT_URL", ""),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if !validator.IsValidClockTime(c.Attendance.WorkStart) {
		return fmt.Errorf("WORK_START_TIME must be HH:MM, got %q", c.Attendance.WorkStart)
	}
	if c.Encryption.FieldKey == "" {
		if c.IsProduction() {
			return fmt.Errorf("FIELD_ENCRYPTION_KEY is required in production")
		}
		slog.Warn("FIELD_ENCRYPTION_KEY is not set; sensitive fields cannot be decrypted across restarts")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
