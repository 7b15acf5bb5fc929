// @title Quiz Tournament API
// @version 1.0
// @description 限时问答比赛平台的后端服务器。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"log"

	"quiz_tournament_backend/internal/app"
	"quiz_tournament_backend/internal/config"
	"quiz_tournament_backend/pkg/configwatcher"
	"quiz_tournament_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 配置热更新，变更只在下一次重启时全量生效
	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		logger.Log.Info("config file reloaded")
	})

	application.Run()
}
