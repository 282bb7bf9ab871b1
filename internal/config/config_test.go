package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Database:   DatabaseConfig{Password: "secret"},
		JWT:        JWTConfig{Secret: "jwt-secret"},
		App:        AppConfig{Env: "development"},
		Attendance: AttendanceConfig{WorkStart: "09:00"},
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRequiresDatabasePassword(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Password = ""
	assert.ErrorContains(t, cfg.Validate(), "DB_PASSWORD")
}

func TestValidateRequiresJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.JWT.Secret = ""
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET_KEY")
}

func TestValidateRejectsMalformedWorkStart(t *testing.T) {
	for _, bad := range []string{"", "9am", "25:00", "09:60"} {
		cfg := validConfig()
		cfg.Attendance.WorkStart = bad
		assert.ErrorContains(t, cfg.Validate(), "WORK_START_TIME", "value %q", bad)
	}
}

func TestValidateRequiresFieldKeyInProduction(t *testing.T) {
	cfg := validConfig()
	cfg.App.Env = "production"
	assert.ErrorContains(t, cfg.Validate(), "FIELD_ENCRYPTION_KEY")

	cfg.Encryption.FieldKey = "aa" // any non-empty key passes Validate; length is checked by the cipher
	assert.NoError(t, cfg.Validate())
}
