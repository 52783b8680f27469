package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"chiludos-backend/utils"

	"github.com/robfig/cron/v3"
)

type Config struct {
	Port        string
	Env         string
	DBDriver    string
	DBURL       string
	JWTSecret   string
	JWTExpiry   time.Duration
	CORSOrigins []string

	// JWTSecretGenerated is set when a development secret was made up at
	// startup; tokens then stop working after a restart.
	JWTSecretGenerated bool

	RabbitMQURL string

	Twilio       TwilioConfig
	ReminderCron string

	SeedData bool
	Admin    AdminConfig
}

type TwilioConfig struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
}

// Enabled reports whether reminders can be sent at all.
func (t TwilioConfig) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.PhoneNumber != ""
}

type AdminConfig struct {
	Username string
	Email    string
	Password string
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads the process environment. It is called once from main after
// the .env file has been applied.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("APP_ENV", "development"),
		DBDriver:     strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBURL:        os.Getenv("DB_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		RabbitMQURL:  os.Getenv("RABBITMQ_URL"),
		ReminderCron: getEnv("REMINDER_CRON", "0 9 * * *"),
		Twilio: TwilioConfig{
			AccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
			PhoneNumber: os.Getenv("TWILIO_PHONE_NUMBER"),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Email:    getEnv("ADMIN_EMAIL", "admin@chiludos.local"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
	}

	expiryHours, err := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "24"))
	if err != nil || expiryHours <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRY_HOURS must be a positive integer")
	}
	cfg.JWTExpiry = time.Duration(expiryHours) * time.Hour

	if v := os.Getenv("SEED_DATA"); v != "" {
		cfg.SeedData, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("SEED_DATA: %w", err)
		}
	}

	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = utils.GenerateJWTSecret()
		cfg.JWTSecretGenerated = true
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET not set"))
	}
	if c.DBURL == "" {
		errs = append(errs, errors.New("DB_URL not set"))
	}
	if c.DBDriver != "postgres" && c.DBDriver != "mysql" {
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not supported", c.DBDriver))
	}
	if c.Env != "development" && c.Env != "production" {
		errs = append(errs, fmt.Errorf("APP_ENV %q must be development or production", c.Env))
	}
	if _, err := cron.ParseStandard(c.ReminderCron); err != nil {
		errs = append(errs, fmt.Errorf("REMINDER_CRON: %w", err))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
