package config

import (
	"os"
	"path/filepath"
	"sync"

	"fjacquet/swift-mt/internal/logging"

	"github.com/joho/godotenv"
)

var envOnce sync.Once

// LoadEnv loads a .env file from the working directory or its parent, once.
// It returns the file it loaded, or "" when none was found.
func LoadEnv(logger logging.Logger) string {
	if logger == nil {
		logger = logging.GetLogger()
	}
	var loaded string
	envOnce.Do(func() {
		for _, candidate := range []string{".env", filepath.Join("..", ".env")} {
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
			if err := godotenv.Load(candidate); err != nil {
				logger.WithError(err).Warn("Error loading .env file", logging.Field{Key: logging.FieldFile, Value: candidate})
				return
			}
			logger.Debug("Loaded environment variables", logging.Field{Key: logging.FieldFile, Value: candidate})
			loaded = candidate
			return
		}
		logger.Debug("No .env file found, using environment variables")
	})
	return loaded
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
