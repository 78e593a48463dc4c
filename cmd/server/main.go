// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedback-assist-go/internal/config"
	"feedback-assist-go/internal/handler"
	"feedback-assist-go/internal/middleware"
	"feedback-assist-go/internal/model"
	"feedback-assist-go/internal/repository"
	"feedback-assist-go/internal/service"
	"feedback-assist-go/pkg/database"
	"feedback-assist-go/pkg/llm"
	"feedback-assist-go/pkg/log"
	"feedback-assist-go/pkg/token"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 初始化配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库并迁移表结构
	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal("failed to open database", err)
	}
	if err := db.AutoMigrate(&model.Submission{}); err != nil {
		log.Fatal("database migration failed", err)
	}

	// 4. 初始化 Repository 与 Service (依赖注入)
	submissionRepo := repository.NewSubmissionRepository(db)
	llmClient := llm.NewClient(cfg.LLM)
	assistant := service.NewFeedbackAssistant(llmClient, cfg.LLM)
	feedbackService := service.NewFeedbackService(assistant, submissionRepo)

	var jwtManager *token.JWTManager
	if cfg.AdminAuthEnabled() {
		jwtManager = token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireHours)
		log.Info("管理后台鉴权已启用")
	} else {
		log.Warnf("ADMIN_PASSWORD_HASH 或 JWT_SECRET 未配置，管理后台不做鉴权")
	}
	adminService := service.NewAdminService(cfg.Admin, jwtManager)

	// 5. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())
	handler.RegisterRoutes(r, cfg, feedbackService, adminService, jwtManager)

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// LLM 调用最长 30 秒，留足时间让进行中的提交完成
	ctx, cancel := context.WithTimeout(context.Background(), cfg.LLM.Timeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("服务已优雅关闭")
}
