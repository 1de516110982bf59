// Package main Medical Bot API Server
//
//	@title			Medical Bot API
//	@version		1.0.0
//	@description	AI-powered medical question answering system using RAG
//
//	@host		localhost:8080
//	@BasePath	/
package main

import (
	"log"

	"github.com/joho/godotenv"

	_ "medbot/docs" // swagger definitions
	"medbot/internal/config"
	"medbot/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting %s %s on %s", cfg.AppName, cfg.AppVersion, cfg.ServerAddr)

	srv := server.NewServer(cfg)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
