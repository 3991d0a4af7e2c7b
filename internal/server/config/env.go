package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/todoauth/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables. Variables missing
// from the process environment may be supplied by a dotenv file: the one
// named by -e/-env, otherwise ".env" in the working directory when present.
// Values already set in the environment win over the file.
//
// Recognised variables:
//
//	HTTP_ADDR, GRPC_ADDR, DATABASE_DSN, JWT_KEY, CSRF_KEY,
//	ACCESS_TOKEN_TTL, CSRF_TOKEN_TTL (Go durations, e.g. "5m"),
//	BCRYPT_COST, CORS_ALLOWED_ORIGINS, COOKIE_SECURE, GIN_MODE
//
// Unparseable numeric, boolean or duration values are ignored and the
// current value is kept.
func parseEnv(config *Config) {
	loadEnvFile()

	config.EndpointAddrHTTP = getEnv("HTTP_ADDR", config.EndpointAddrHTTP)
	config.EndpointAddrGRPC = getEnv("GRPC_ADDR", config.EndpointAddrGRPC)
	config.DatabaseDSN = getEnv("DATABASE_DSN", config.DatabaseDSN)
	config.SecretKey = getEnv("JWT_KEY", config.SecretKey)
	config.CSRFSecretKey = getEnv("CSRF_KEY", config.CSRFSecretKey)
	config.AccessTokenValidityDuration = getEnvAsDuration("ACCESS_TOKEN_TTL", config.AccessTokenValidityDuration)
	config.CSRFTokenValidityDuration = getEnvAsDuration("CSRF_TOKEN_TTL", config.CSRFTokenValidityDuration)
	config.BcryptCost = getEnvAsInt("BCRYPT_COST", config.BcryptCost)
	config.CORSAllowedOrigins = getEnv("CORS_ALLOWED_ORIGINS", config.CORSAllowedOrigins)
	config.CookieSecure = getEnvAsBool("COOKIE_SECURE", config.CookieSecure)
	config.GinMode = getEnv("GIN_MODE", config.GinMode)
}

func loadEnvFile() {
	if path := flagx.EnvFileFlags(); path != "" {
		_ = godotenv.Load(path)
		return
	}
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
