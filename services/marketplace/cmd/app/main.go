package main

import (
	"estate-market/pkg/config"
	app "estate-market/services/marketplace/internal/app"

	_ "estate-market/services/marketplace/docs" // Swagger docs
)

// @title           Marketplace Service API
// @version         1.0
// @description     Users, posters, categories, consultants, favorites and chat for the estate marketplace

// @host      localhost:8081
// @BasePath  /api/v1

// @securityDefinitions.apikey TokenAuth
// @in header
// @name token
// @description Token returned by /auth/register or /auth/login.

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
