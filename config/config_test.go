package config

import (
	"strings"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_URL", "postgres://localhost/chiludos")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_EXPIRY_HOURS", "")
	t.Setenv("REMINDER_CRON", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("SEED_DATA", "")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBDriver != "postgres" || cfg.Port != "8080" || cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !cfg.JWTSecretGenerated || cfg.JWTSecret == "" {
		t.Error("development secret was not generated")
	}
	if cfg.Twilio.Enabled() {
		t.Error("twilio enabled without credentials")
	}
}

func TestLoadProductionRequiresSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected missing secret error, got %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "oracle")
	t.Setenv("REMINDER_CRON", "every morning")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"DB_DRIVER", "REMINDER_CRON"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" http://a.test , ,http://b.test")
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Errorf("splitList = %v", got)
	}
}
