package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port          string
	MongoURI      string
	DBName        string
	ClientOrigin  string
	UploadDir     string
	AnswerTimeout time.Duration // how long a call invite rings before timing out
}

// Load reads configuration from the environment, falling back to a .env file
// and finally to defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:        getEnv("DB_NAME", "sambung"),
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		AnswerTimeout: getDurationSeconds("CALL_ANSWER_TIMEOUT", 30),
	}
}

// getEnv gets an environment variable with a default fallback
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationSeconds reads an integer number of seconds from the environment
func getDurationSeconds(key string, defaultSecs int64) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(defaultSecs) * time.Second
	}
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || secs <= 0 {
		return time.Duration(defaultSecs) * time.Second
	}
	return time.Duration(secs) * time.Second
}
