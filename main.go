// @title SkillSwap API
// @version 1.0
// @description Backend for the SkillSwap skill-exchange platform.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"log"
	"skillswap_backend/internal/app"
	"skillswap_backend/internal/config"
	"skillswap_backend/pkg/configwatcher"
	"skillswap_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		logger.Log.Info("config reloaded")
		application.Config = newCfg
	})

	application.Run()
}
