// file: main.go
package main

import (
	"flag"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"AstraCTF/config"
	"AstraCTF/controllers"
	"AstraCTF/database"
	"AstraCTF/database/gormstore"
	"AstraCTF/routes"
	"AstraCTF/services"
	"AstraCTF/utils"
)

func main() {
	configPath := flag.String("config", "./config.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	database.Connect(cfg.Database.DSN, cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns)
	database.MigrateTables()
	database.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	utils.InitJWT(cfg.Auth.JWTSecret, cfg.TokenTTL())

	if err := services.InitStorage(cfg.Upload.Dir); err != nil {
		log.Fatalf("Failed to init storage: %v", err)
	}

	// 评分与判题服务依赖存储接口，在这里完成注入
	controllers.InitServices(gormstore.NewGormStore(database.DB))

	if cfg.Instance.Enabled {
		services.InitDocker()
		controllers.InitInstanceSettings(cfg.InstanceLifetime(), cfg.Instance.MaxRenewals)

		// 定时回收到期的题目环境
		go func() {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				controllers.CleanupExpiredInstances()
			}
		}()
	}

	// 启动时先建一次排行榜缓存
	go services.UpdateScoreboardCache()

	r := routes.SetupRouter()

	log.Printf("Starting server on %s", cfg.Server.Addr)
	if err := r.Run(cfg.Server.Addr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
