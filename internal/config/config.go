package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	// BonusAmount is the flat payout emitted at every even completed-order
	// milestone.
	BonusAmount float64
}

const defaultBonusAmount = 50000

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:      os.Getenv("DB_HOST"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      os.Getenv("DB_NAME"),
		DBPort:      os.Getenv("DB_PORT"),
		AppPort:     os.Getenv("APP_PORT"),
		AppEnv:      os.Getenv("APP_ENV"),
		BonusAmount: defaultBonusAmount,
	}

	if raw := os.Getenv("BONUS_AMOUNT"); raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil || amount <= 0 {
			log.Fatalf("invalid BONUS_AMOUNT: %q", raw)
		}
		cfg.BonusAmount = amount
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}
