package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  port: "9090"
store:
  path: /tmp/user_data.json
hackathon:
  variant: sprint
  duration: 1h
redis:
  addr: localhost:6379
  ttl: 2h
postgres:
  url: postgres://portal@localhost/portal
catalog:
  ttl: 10m
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.Server.Port)
	}
	if cfg.Hackathon.Variant != "sprint" {
		t.Fatalf("expected sprint variant, got %q", cfg.Hackathon.Variant)
	}
	if cfg.Store.Path != "/tmp/user_data.json" {
		t.Fatalf("unexpected store path %q", cfg.Store.Path)
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %v", got)
	}
	if got := TTLDuration("90s", time.Minute); got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}
	if got := TTLDuration("bogus", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for bogus value, got %v", got)
	}
}
