package main

import (
	"log"

	"workforce-backend/config"
	"workforce-backend/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	config.ConnectDB()
	database.SeedAll(config.DB)
}
