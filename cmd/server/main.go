// PaiGong 派工引擎服务
// 主程序入口

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paigong/paigong/internal/cache"
	"github.com/paigong/paigong/internal/config"
	"github.com/paigong/paigong/internal/database"
	"github.com/paigong/paigong/internal/handler"
	"github.com/paigong/paigong/internal/metrics"
	"github.com/paigong/paigong/internal/middleware"
	"github.com/paigong/paigong/internal/repository"
	"github.com/paigong/paigong/pkg/logger"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// 加载配置（.env -> 环境变量 -> 可选YAML覆盖）
	var cfg *config.Config
	var err error
	if path := os.Getenv("APP_CONFIG_FILE"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	format := "json"
	if cfg.IsDevelopment() {
		format = "console"
	}
	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: format,
	})

	// 打印版本信息
	fmt.Printf("PaiGong 派工引擎 v%s\n", Version)
	fmt.Printf("Build: %s (%s)\n", BuildTime, GitCommit)
	fmt.Println()

	// 创建处理器
	h := handler.New(cfg)

	// 按配置接入快照持久化（数据库未启用时快照端点降级为不可用）
	if cfg.Database.Enabled {
		db, err := database.New(&cfg.Database)
		if err != nil {
			logger.Fatal().Err(err).Msg("连接数据库失败")
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := db.Migrate(ctx); err != nil {
			cancel()
			logger.Fatal().Err(err).Msg("数据库迁移失败")
		}
		cancel()

		h.WithSnapshotRepository(repository.NewSnapshotRepository(db))
		logger.Info().Str("database", cfg.Database.Name).Msg("快照持久化已启用")
	}

	if cfg.Redis.Enabled {
		snapshotCache, err := cache.New(&cfg.Redis)
		if err != nil {
			// 缓存只是读取加速，连不上不阻止启动
			logger.Warn().Err(err).Msg("连接Redis失败，快照缓存未启用")
		} else {
			defer snapshotCache.Close()
			h.WithSnapshotCache(snapshotCache)
			logger.Info().Str("addr", cfg.Redis.Addr()).Msg("快照缓存已启用")
		}
	}

	// 创建 HTTP 服务器
	mux := http.NewServeMux()

	// ========================================
	// 系统端点
	// ========================================

	// 健康检查端点
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"paigong"}`))
	})

	// 版本信息端点
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"version":"%s","build_time":"%s","git_commit":"%s"}`, Version, BuildTime, GitCommit)
	})

	// ========================================
	// API v1 端点
	// ========================================

	// API 根路由
	mux.HandleFunc("/api/v1/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"message": "PaiGong 派工引擎 API v1",
			"endpoints": {
				"assign": {
					"run": "POST /api/v1/assign/run",
					"clear": "POST /api/v1/assign/clear"
				},
				"schedule": {
					"worker": "GET /api/v1/schedule/worker",
					"aggregate": "GET /api/v1/schedule/aggregate"
				},
				"stats": {
					"coverage": "GET /api/v1/stats/coverage",
					"utilization": "GET /api/v1/stats/utilization",
					"audit": "GET /api/v1/stats/audit"
				},
				"snapshot": {
					"save": "POST /api/v1/snapshot/save",
					"restore": "POST /api/v1/snapshot/restore",
					"list": "GET /api/v1/snapshot/list",
					"delete": "DELETE /api/v1/snapshot/delete"
				}
			}
		}`))
	})

	// 派工运行 API
	mux.HandleFunc("/api/v1/assign/run", h.Run)

	// 清空场景 API
	mux.HandleFunc("/api/v1/assign/clear", h.Clear)

	// ========================================
	// 日程查询 API
	// ========================================

	// 单工人日程 API
	mux.HandleFunc("/api/v1/schedule/worker", h.GetWorkerSchedule)

	// 合并日程 API
	mux.HandleFunc("/api/v1/schedule/aggregate", h.GetAggregatedSchedule)

	// ========================================
	// 统计分析 API
	// ========================================

	// 覆盖率分析 API
	mux.HandleFunc("/api/v1/stats/coverage", h.GetCoverage)

	// 工作量均衡分析 API
	mux.HandleFunc("/api/v1/stats/utilization", h.GetUtilization)

	// 一致性审计 API
	mux.HandleFunc("/api/v1/stats/audit", h.Audit)

	// ========================================
	// 快照 API
	// ========================================

	mux.HandleFunc("/api/v1/snapshot/save", h.SaveSnapshot)
	mux.HandleFunc("/api/v1/snapshot/restore", h.RestoreSnapshot)
	mux.HandleFunc("/api/v1/snapshot/list", h.ListSnapshots)
	mux.HandleFunc("/api/v1/snapshot/delete", h.DeleteSnapshot)

	// ========================================
	// 监控端点
	// ========================================

	// Prometheus 指标端点
	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	// ========================================
	// 中间件
	// ========================================

	// 中间件执行顺序：requestLogger -> metrics -> handler
	root := middleware.Chain(mux, middleware.RequestLogger, middleware.Metrics)

	port := fmt.Sprintf("%d", cfg.App.Port)
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      root,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 启动服务器（非阻塞）
	go func() {
		logger.Info().
			Str("port", port).
			Str("version", Version).
			Str("env", cfg.App.Env).
			Str("url", fmt.Sprintf("http://localhost:%s", port)).
			Str("api_docs", fmt.Sprintf("http://localhost:%s/api/v1/", port)).
			Msg("服务器启动")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("服务器启动失败")
			os.Exit(1)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
		os.Exit(1)
	}

	logger.Info().Msg("服务器已关闭")
}
