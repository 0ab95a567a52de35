package env

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var Env map[string]string

func GetEnv(key, def string) string {
	// First check our loaded Env map
	if val, ok := Env[key]; ok {
		return val
	}
	// Fallback to OS environment variables (for Docker/tests)
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func SetupEnvFile() {
	// Look for .env file in project root
	envFiles := []string{
		".env",          // Current directory
		"../../.env",    // From cmd/linkbio to project root
		"../../../.env", // Fallback for deeper nesting
	}

	var err error
	for _, envFile := range envFiles {
		Env, err = godotenv.Read(envFile)
		if err == nil {
			// Successfully loaded env file
			return
		}
	}

	// No .env file found; OS environment variables still apply.
	log.Print("env: no .env file found, using OS environment only")
}

func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
