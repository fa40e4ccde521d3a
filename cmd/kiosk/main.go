package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"pollstation/internal/app/bootstrap"
)

// Kiosk process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Start the operator HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	log.Println("pollstation kiosk starting")
	app, err := bootstrap.BuildKiosk()
	if err != nil {
		log.Fatalf("bootstrap kiosk failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("kiosk shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("pollstation kiosk stopped with error: %v", err)
	}
}
