package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fjacquet/cashflow/internal/logging"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var once sync.Once

// LoadEnv loads environment variables from a .env file in the current or
// parent directory, once per process. Variables already set win.
func LoadEnv() {
	once.Do(func() {
		LoadEnvFrom(".env", filepath.Join("..", ".env"))
	})
}

// LoadEnvFrom loads the first existing file among candidates and returns its
// path, or "" when none exists.
func LoadEnvFrom(candidates ...string) string {
	log := logging.GetLogger()
	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			log.WithError(err).Warn("Error loading .env file", logging.Field{Key: logging.FieldFile, Value: envFile})
			return ""
		}
		log.Debug("Loaded environment variables", logging.Field{Key: logging.FieldFile, Value: envFile})
		ApplyLogLevelFromEnv()
		return envFile
	}
	return ""
}

// ApplyLogLevelFromEnv sets the process-wide log level from LOG_LEVEL
func ApplyLogLevelFromEnv() {
	levelStr := GetEnv("LOG_LEVEL", "info")
	level, err := logrus.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		logging.GetLogger().Warn("Invalid log level, using info", logging.Field{Key: "level", Value: levelStr})
		level = logrus.InfoLevel
	}
	logging.SetAllLogLevels(level)
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
