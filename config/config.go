package config

import (
	"os"
	"strings"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string

	// Base URL shared by the entity microservices, plus optional per-entity
	// overrides ("clients=http://clients:8081,invoices=http://invoices:8085").
	UpstreamBaseURL   string
	UpstreamOverrides map[string]string

	AttachmentBucket string

	GmailUser string
	GmailPass string
}

func LoadConfig() Config {
	return Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		UpstreamBaseURL:   os.Getenv("UPSTREAM_BASE_URL"),
		UpstreamOverrides: parseOverrides(os.Getenv("UPSTREAM_OVERRIDES")),

		AttachmentBucket: os.Getenv("ATTACHMENT_BUCKET"),

		GmailUser: os.Getenv("GMAIL_USER"),
		GmailPass: os.Getenv("GMAIL_APP_PASSWORD"),
	}
}

// ServiceBaseURL resolves the base URL for one entity's microservice.
func (c Config) ServiceBaseURL(entity string) string {
	if url, ok := c.UpstreamOverrides[strings.ToLower(strings.TrimSpace(entity))]; ok {
		return url
	}
	return c.UpstreamBaseURL
}

func parseOverrides(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]string{}
	}

	out := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		eq := strings.Index(pair, "=")
		if eq <= 0 || eq == len(pair)-1 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(pair[:eq]))
		url := strings.TrimSpace(pair[eq+1:])
		if name != "" && url != "" {
			out[name] = url
		}
	}
	return out
}
