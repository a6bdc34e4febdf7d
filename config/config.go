package config

import (
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv     string
	Port       string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	JWTSecret  string

	// Display board behaviour.
	DisplayRefreshSeconds int
	AvgServiceMinutes     float64

	// Fallback doctor id used to stamp visits when no session claims are
	// available.
	DefaultDoctorID string
}

var (
	cfg  *Config
	once sync.Once
)

func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: .env file not found. Relying on environment variables.")
		}
		cfg = &Config{
			AppEnv:                os.Getenv("APP_ENV"),
			Port:                  getEnv("PORT", "8080"),
			DBUser:                os.Getenv("DB_USER"),
			DBPassword:            os.Getenv("DB_PASSWORD"),
			DBHost:                getEnv("DB_HOST", "127.0.0.1"),
			DBPort:                getEnv("DB_PORT", "3306"),
			DBName:                os.Getenv("DB_NAME"),
			JWTSecret:             os.Getenv("JWT_SECRET_KEY"),
			DisplayRefreshSeconds: getEnvInt("DISPLAY_REFRESH_SECONDS", 5),
			AvgServiceMinutes:     getEnvFloat("AVG_SERVICE_MINUTES", 10),
			DefaultDoctorID:       os.Getenv("DEFAULT_DOCTOR_ID"),
		}
	})
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using %g", key, v, fallback)
		return fallback
	}
	return f
}
