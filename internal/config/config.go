package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string
	Port              string
	DatabasePath      string
	SessionSecret     string
	GinMode           string
	UploadDir         string
	UploadURLPath     string
	RootReviewerName  string
	RootReviewerEmail string
	RootReviewerPass  string
	SweepInterval     time.Duration
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "newsdesk.db"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "newsdesk-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	uploadDir := strings.TrimSpace(os.Getenv("UPLOAD_DIR"))
	if uploadDir == "" {
		uploadDir = "web/static/uploads"
	}

	uploadURLPath := strings.TrimSpace(os.Getenv("UPLOAD_URL_PATH"))
	if uploadURLPath == "" {
		uploadURLPath = "/static/uploads"
	}

	sweepInterval := parseSweepInterval(os.Getenv("SWEEP_INTERVAL"))

	rootReviewerName := strings.TrimSpace(os.Getenv("ROOT_REVIEWER_NAME"))
	rootReviewerEmail := strings.TrimSpace(os.Getenv("ROOT_REVIEWER_EMAIL"))
	rootReviewerPass := strings.TrimSpace(os.Getenv("ROOT_REVIEWER_PASSWORD"))

	return AppConfig{
		ListenAddr:        listenAddr,
		Port:              port,
		DatabasePath:      databasePath,
		SessionSecret:     sessionSecret,
		GinMode:           ginMode,
		UploadDir:         uploadDir,
		UploadURLPath:     uploadURLPath,
		RootReviewerName:  rootReviewerName,
		RootReviewerEmail: rootReviewerEmail,
		RootReviewerPass:  rootReviewerPass,
		SweepInterval:     sweepInterval,
	}
}

func parseSweepInterval(raw string) time.Duration {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Minute
	}

	interval, err := time.ParseDuration(trimmed)
	if err != nil || interval <= 0 {
		return time.Minute
	}
	return interval
}
