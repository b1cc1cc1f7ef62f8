package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr    string   // listen address, e.g. ":8080"
	Env     string   // "production" or "development"
	Origins []string // websocket origin patterns; empty keeps the same-origin default
}

// Load reads an optional .env file and then the environment. Every setting
// has a sane default so the server runs with no configuration at all.
func Load() Config {
	_ = godotenv.Load() // a missing .env is fine

	cfg := Config{
		Addr: ":" + envOr("PORT", "8080"),
		Env:  envOr("APP_ENV", "production"),
	}
	if addr := os.Getenv("ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if origins := os.Getenv("WS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.Origins = append(cfg.Origins, o)
			}
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
