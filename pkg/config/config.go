package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string

	// HTTPAddr is the listen address of the dev API simulator.
	HTTPAddr string

	// APIBaseURL is the booking API the client flows talk to.
	// Example: http://localhost:8081
	APIBaseURL string

	// SessionSecret signs the simulator's session cookie (HS256).
	SessionSecret string
	SessionTTL    time.Duration

	// OTPTTL is how long a registration OTP stays valid.
	OTPTTL time.Duration

	// FixedOTP pins the simulator's generated OTP so dev drivers and tests
	// can complete registration without reading server logs.
	//
	// Never set this in production.
	FixedOTP string

	// AllowedOrigins is a comma-separated allowlist of origins allowed to
	// call the simulator from a browser. Example:
	//   http://localhost:3000,http://localhost:5173
	AllowedOrigins []string
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	// Cloud Run sets PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	apiBaseURL := os.Getenv("API_BASE_URL")
	if apiBaseURL == "" {
		if httpAddr[0] == ':' {
			apiBaseURL = "http://localhost" + httpAddr
		} else {
			apiBaseURL = "http://" + httpAddr
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		APIBaseURL:     apiBaseURL,
		SessionSecret:  env("SESSION_SECRET", "dev-only-secret"),
		SessionTTL:     envDuration("SESSION_TTL", 24*time.Hour),
		OTPTTL:         envDuration("OTP_TTL", 10*time.Minute),
		FixedOTP:       os.Getenv("FIXED_OTP"),
		AllowedOrigins: envList("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
	}
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == ',' {
			s := v[start:i]
			start = i + 1
			for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
				s = s[1:]
			}
			for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t') {
				s = s[:len(s)-1]
			}
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
