package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort        string
	DbHost         string
	DbPort         string
	DbUser         string
	DbPassword     string
	DbName         string
	DbParams       string
	TrustedProxies []string

	// OIDC token validation. The handshake itself (issuance, PKCE,
	// redirects) is the identity provider's problem; we only validate
	// the bearer tokens it minted.
	AuthIssuer     string
	AuthAudience   string
	AuthHMACSecret string
	// Clients whose resource_access roles count toward authorization.
	AuthClientIDs []string
}

func LoadConfig() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		AppPort:        getEnv("APP_PORT", "8085"),
		DbHost:         getEnv("MYSQL_HOST", "db"),
		DbPort:         getEnv("MYSQL_PORT", "3306"),
		DbUser:         getEnv("MYSQL_USER", "workops"),
		DbPassword:     getEnv("MYSQL_PASSWORD", "workops"),
		DbName:         getEnv("MYSQL_DATABASE", "workops"),
		DbParams:       getEnv("MYSQL_PARAMS", "parseTime=true&multiStatements=true"),
		TrustedProxies: splitAndTrim(os.Getenv("TRUSTED_PROXIES")),
		AuthIssuer:     getEnv("AUTH_ISSUER", "http://localhost:8080/realms/workops"),
		AuthAudience:   getEnv("AUTH_AUDIENCE", "workops-api"),
		AuthHMACSecret: os.Getenv("AUTH_HMAC_SECRET"),
		AuthClientIDs:  splitAndTrim(getEnv("AUTH_CLIENT_IDS", "workops-api,workops-spa")),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		v := strings.TrimSpace(part)
		if v == "" {
			continue
		}
		values = append(values, v)
	}

	if len(values) == 0 {
		return nil
	}

	return values
}
