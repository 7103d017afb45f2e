package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/SyncShire/E-Commerce/internal/app"
	"github.com/SyncShire/E-Commerce/internal/config"
	"github.com/SyncShire/E-Commerce/internal/logger"
	"github.com/SyncShire/E-Commerce/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiCyan  = "\033[36m"
)

func main() {
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	printStartupBanner(cfg, mode)

	release := cfg.Server.Mode == "release"
	if isWeakSecret(cfg.UserJWT.SecretKey) {
		if release {
			stdLog.Fatalf("user_jwt.secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
		logger.Warnw("weak_jwt_secret", "hint", "set USER_JWT_SECRET before going live")
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, !release); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	if release && strings.TrimSpace(cfg.Admin.Password) == "" {
		logger.Warnw("default_admin_skipped", "reason", "admin.password not set in release mode")
	} else if err := models.InitDefaultAdmin(cfg.Admin.Email, cfg.Admin.Password); err != nil {
		logger.Warnw("default_admin_init_failed", "error", err)
	}

	if release {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner(cfg *config.Config, mode string) {
	name := strings.TrimSpace(cfg.App.Name)
	if name == "" {
		name = "ShopVibe"
	}
	fmt.Println(ansiCyan + ansiBold + "== " + name + " storefront API ==" + ansiReset)
	fmt.Printf(ansiDim+"mode=%s listen=%s:%s db=%s payment=%s"+ansiReset+"\n",
		mode, cfg.Server.Host, cfg.Server.Port, cfg.Database.Driver, cfg.Payment.Provider)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	return strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key")
}
