package main

import (
	"estate-market/pkg/config"
	app "estate-market/services/media/internal/app"

	_ "estate-market/services/media/docs" // Swagger docs
)

// @title           Media Service API
// @version         1.0
// @description     Chunked media uploads, media serving and video metadata for the estate marketplace

// @host      localhost:8082
// @BasePath  /api/v1

// @securityDefinitions.apikey TokenAuth
// @in header
// @name token
// @description Signed token issued by the marketplace service.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Validate JWT_SECRET for services that use JWT
	if cfg.JWTSecret == config.DefaultJWTSecret || cfg.JWTSecret == "" {
		panic("JWT_SECRET must be set in environment variables")
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		panic(err)
	}

	if err := application.Run(); err != nil {
		panic(err)
	}

	application.Wait()

	if err := application.Shutdown(); err != nil {
		panic(err)
	}
}
