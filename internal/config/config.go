package config

import (
	"os"
	"strconv"
	"strings"
)

// Config carries the app-level settings. Infrastructure adapters (database,
// cache, queue) read their own connection env vars directly, so only routing,
// auth and relay settings live here.
type Config struct {
	Port        string
	Environment string
	LogLevel    string
	CORSOrigins []string

	// Static token required by the tool-style endpoints.
	APIToken string

	// Chatwoot webhook auth: HMAC signature is the preferred path; the plain
	// token is only enforced when explicitly configured.
	ChatwootWebhookSecret string
	ChatwootWebhookToken  string

	// Outbound relay transports, first configured wins (WAHA preferred).
	WAHABaseURL     string
	WAHAAPIKey      string
	WAHASession     string
	ZAPIBaseURL     string
	ZAPIClientToken string

	// Tenant that Chatwoot-created conversations land under; the webhook
	// payload carries no company id.
	FallbackCompanyID int64
}

// Load reads the configuration from the environment. godotenv is loaded by
// main before this runs.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "*")),

		APIToken: getEnv("API_TOKEN", ""),

		ChatwootWebhookSecret: getEnv("CHATWOOT_WEBHOOK_SECRET", ""),
		ChatwootWebhookToken:  getEnv("CHATWOOT_WEBHOOK_TOKEN", ""),

		WAHABaseURL:     getEnv("WAHA_BASE_URL", ""),
		WAHAAPIKey:      getEnv("WAHA_API_KEY", ""),
		WAHASession:     getEnv("WAHA_SESSION", "default"),
		ZAPIBaseURL:     getEnv("ZAPI_BASE_URL", ""),
		ZAPIClientToken: getEnv("ZAPI_CLIENT_TOKEN", ""),

		FallbackCompanyID: getEnvInt64("FALLBACK_COMPANY_ID", 1),
	}
}

func getEnvInt64(key string, defaultValue int64) int64 {
	v, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
