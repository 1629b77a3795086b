package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BASE_URL", "")
	t.Setenv("ROOM_TTL", "")

	c := FromEnv()
	if c.Port != "3000" {
		t.Fatalf("expected default port 3000, got %q", c.Port)
	}
	if c.BaseURL != "" {
		t.Fatalf("expected empty base URL by default, got %q", c.BaseURL)
	}
	if c.RoomTTL != 30*time.Minute {
		t.Fatalf("expected default room TTL 30m, got %v", c.RoomTTL)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("BASE_URL", "https://game.example.com")
	t.Setenv("ROOM_TTL", "5m")

	c := FromEnv()
	if c.Port != "8080" {
		t.Fatalf("expected port 8080, got %q", c.Port)
	}
	if c.BaseURL != "https://game.example.com" {
		t.Fatalf("unexpected base URL %q", c.BaseURL)
	}
	if c.RoomTTL != 5*time.Minute {
		t.Fatalf("expected room TTL 5m, got %v", c.RoomTTL)
	}
}

func TestFromEnvBadTTLFallsBack(t *testing.T) {
	t.Setenv("ROOM_TTL", "soon")
	if c := FromEnv(); c.RoomTTL != 30*time.Minute {
		t.Fatalf("bad TTL should fall back to the default, got %v", c.RoomTTL)
	}
}
