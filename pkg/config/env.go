package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadEnvFile finds name with FindEnvFile and loads it into the process
// environment. Variables that are already set keep their values.
func LoadEnvFile(name string) (string, error) {
	path, err := FindEnvFile(name)
	if err != nil {
		return "", err
	}
	return path, godotenv.Load(path)
}

// GetEnv retrieves an environment variable with a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
