package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/newsdesk/internal/config"
	"github.com/newsdesk/internal/db"
	"github.com/newsdesk/internal/handler"
	"github.com/newsdesk/internal/router"
	"github.com/newsdesk/internal/service"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 确保存在可用的审核员账号
	if err := db.EnsureReviewer(cfg.RootReviewerName, cfg.RootReviewerEmail, cfg.RootReviewerPass); err != nil {
		log.Fatalf("failed to seed root reviewer: %v", err)
	}

	// 启动生命周期调度器
	scheduler := service.NewScheduler(service.NewLifecycleService(db.DB), cfg.SweepInterval)
	scheduler.Start(context.Background())
	defer scheduler.Stop()

	// 设置并运行 Gin 服务器
	api := handler.NewAPI(db.DB, cfg.UploadDir, cfg.UploadURLPath)
	r := router.SetupRouter(api, router.Options{
		SessionSecret: cfg.SessionSecret,
		UploadDir:     cfg.UploadDir,
		UploadURLPath: cfg.UploadURLPath,
	})

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
