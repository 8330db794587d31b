package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// envFiles are tried in order; the first one that exists is loaded.
var envFiles = []string{".env", ".env.local"}

// loadEnvFile loads environment variables from the first .env file found.
// Variables already set in the process environment win.
func loadEnvFile() (string, error) {
	for _, envPath := range envFiles {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := loadSingleEnvFile(envPath); err != nil {
			return "", err
		}
		return envPath, nil
	}
	return "", fmt.Errorf("no .env file found")
}

func loadSingleEnvFile(filename string) error {
	if err := godotenv.Load(filename); err != nil {
		return fmt.Errorf("load %s: %w", filename, err)
	}
	return nil
}
