package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/craftconnect/authsvc/internal/app"
	"github.com/craftconnect/authsvc/internal/config"
)

func main() {
	// Missing .env is fine in containerized deploys.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := app.Run(cfg); err != nil {
		log.Fatalf("app: %v", err)
	}
}
