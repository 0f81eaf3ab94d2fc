// 手动触发数据库迁移和默认数据填充脚本
//
// 建表和填充已集成在主应用启动流程中，此脚本仅用于单独执行，
// 例如 CI 环境初始化或不启动 HTTP 服务的场景。
//
// 用法: go run scripts/seed_data.go

package main

import (
	"log"
	"os"
	"teamwelly_backend/internal/config"
	"teamwelly_backend/pkg/database"
	"teamwelly_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("failed to parse config file: %v", err)
	}

	logger.InitLogger(&cfg)

	cfg.ForceMigrate = true
	_, err = database.InitDB(&cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	log.Println("migration and seed data completed")
}
