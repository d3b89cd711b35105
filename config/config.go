package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	DbHost            string
	DbPort            string
	DbUser            string
	DbPassword        string
	DbName            string
	ServerPort        string
	ReferenceDataPath string
	PartsFilePath     string
)

func LoadConfig() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	DbHost = getEnv("DB_HOST", "localhost")
	DbPort = getEnv("DB_PORT", "5432")
	DbUser = getEnv("DB_USER", "postgres")
	DbPassword = getEnv("DB_PASSWORD", "password")
	DbName = getEnv("DB_NAME", "muims")
	ServerPort = getEnv("SERVER_PORT", "8080")
	ReferenceDataPath = getEnv("REFERENCE_DATA_PATH", "refdata/reference.yaml")
	PartsFilePath = getEnv("PARTS_FILE_PATH", "data/parts.txt")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
