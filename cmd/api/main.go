package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/varsityhub/backend/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading env vars from system")
	}

	srv := server.NewServer()
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
