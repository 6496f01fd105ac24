package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/crescendoapp/crescendo/internal/accounts/app"
)

func main() {
	// Best effort: absent .env just means plain environment variables.
	_ = godotenv.Load()

	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
