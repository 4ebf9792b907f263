package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DBHost               string
	DBPort               string
	DBUser               string
	DBPassword           string
	DBName               string
	DBSSLMode            string
	JWTSecret            string
	GinMode              string
	ServerAddr           string
	InviteExpirationDays int
	NoticeExpirationDays int
}

func Load() *Config {
	// .env is optional; deployments normally set the environment directly
	_ = godotenv.Load()

	return &Config{
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnv("DB_PORT", "5432"),
		DBUser:               getEnv("DB_USER", "lumen"),
		DBPassword:           getEnv("DB_PASSWORD", "lumen"),
		DBName:               getEnv("DB_NAME", "lumenplus"),
		DBSSLMode:            getEnv("DB_SSLMODE", "disable"),
		JWTSecret:            getEnv("JWT_SECRET", "default-secret-key-change-me"),
		GinMode:              getEnv("GIN_MODE", "debug"),
		ServerAddr:           getEnv("SERVER_ADDR", ":8080"),
		InviteExpirationDays: getEnvInt("INVITE_EXPIRATION_DAYS", 14),
		NoticeExpirationDays: getEnvInt("NOTICE_EXPIRATION_DAYS", 30),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logrus.WithField("key", key).Warn("invalid integer in environment, using default")
		return defaultValue
	}
	return n
}
