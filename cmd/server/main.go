package main

import (
	"log"

	"go-jewel-backoffice/internal/auth"
	"go-jewel-backoffice/internal/config"
	"go-jewel-backoffice/internal/database"
	"go-jewel-backoffice/internal/router"
)

func main() {
	cfg := config.Load()
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("❌ Error: JWT_SECRET not found in .env file. Refusing to sign tokens with a default key.")
	}

	auth.Configure(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	database.Connect(cfg.DB)
	database.ConnectCache(cfg.Redis)

	r := router.New(cfg)

	log.Println("🚀 Server starting on " + cfg.BaseURL)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
