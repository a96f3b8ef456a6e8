package main

import (
	"github.com/blues/cfl/internal/cache"
	"github.com/blues/cfl/internal/config"
	"github.com/blues/cfl/internal/database"
	"github.com/blues/cfl/internal/event"
	"github.com/blues/cfl/internal/logger"
	"github.com/blues/cfl/internal/logic"
	"github.com/blues/cfl/internal/router"
	"github.com/blues/cfl/internal/task"
)

func main() {
	// 加载配置
	cfg := config.Load()
	logger.Setup(cfg.Log)
	defer logger.Sync()

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 初始化快照缓存（可选）
	snapshotCache, err := cache.Init(cfg.Redis)
	if err != nil {
		logger.Warn("Failed to initialize redis cache, running without cache: %v", err)
	}

	// 初始化事件发布器；NATS不可用只影响通知，不影响账本
	publisher, err := event.Init(cfg.Nats)
	if err != nil {
		logger.Warn("Failed to connect to nats, events stay in outbox: %v", err)
		publisher = nil
	}

	// 铸造能力凭证（仅首次启动生效）
	capability, created, err := logic.NewCapabilityLogic(db).Bootstrap(cfg.Admin.Address)
	if err != nil {
		logger.Fatal("Failed to bootstrap admin capability: %v", err)
	}
	if created {
		// Token只在铸造时输出一次，之后无法再查询
		logger.Info("Admin capability minted for %s, token: %s", capability.HolderAddress, capability.Token)
	}

	// 初始化路由
	r := router.Setup(db, snapshotCache, cfg)

	// 启动后台任务
	manager := task.Start(db, publisher, cfg)
	defer manager.Stop()

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
