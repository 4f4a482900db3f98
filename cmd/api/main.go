package main

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"livestock-registry/internal/adapters/auth/jwt"
	"livestock-registry/internal/platform/logger"
	"livestock-registry/internal/router"
)

// @title Livestock Registry API
// @version 1.0
// @description Registro ganadero multiusuario: animales, grupos de trabajo, eventos sanitarios y campañas.
// @BasePath /
func main() {
	// .env opcional: en producción las variables vienen del entorno.
	_ = godotenv.Load()

	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
		log.Warn("JWT_SECRET not set, using dev secret", nil)
	}
	tokens := jwt.NewManager(secret, 24*time.Hour)

	r := router.NewRouter(router.Options{
		AuthVerifier: tokens,
		TokenIssuer:  tokens,
		Logger:       log,
		EnableDemo:   os.Getenv("DISABLE_DEMO") == "",
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
