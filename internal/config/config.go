package config

import (
	"os"
	"time"
)

type Config struct {
	Port    string
	BaseURL string        // public base for join links; empty means derive from the request
	RoomTTL time.Duration // idle rooms older than this are removed
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "3000")
	c.BaseURL = os.Getenv("BASE_URL")
	c.RoomTTL = getduration("ROOM_TTL", 30*time.Minute)
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
