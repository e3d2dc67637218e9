package app

import (
	"testing"
	"time"

	_ "github.com/shht-tools/tradedesk/testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://api.local")
	t.Setenv("SESSION_SECRET", "session-secret")
	t.Setenv("CSRF_SECRET", "csrf-secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AppAddr != ":8080" {
		t.Fatalf("unexpected default address %q", cfg.AppAddr)
	}
	if cfg.SessionTTL != 720*time.Hour {
		t.Fatalf("unexpected session ttl %v", cfg.SessionTTL)
	}
	if cfg.LookupCacheTTL != 10*time.Minute {
		t.Fatalf("unexpected lookup ttl %v", cfg.LookupCacheTTL)
	}
	if cfg.IsProduction() {
		t.Fatalf("development must not report production")
	}
}

func TestLoadConfigRequiresAPIBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("SESSION_SECRET", "session-secret")
	t.Setenv("CSRF_SECRET", "csrf-secret")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected an error without API_BASE_URL")
	}
}

func TestIsProduction(t *testing.T) {
	cfg := &Config{AppEnv: "production"}
	if !cfg.IsProduction() {
		t.Fatalf("production env not detected")
	}
}
