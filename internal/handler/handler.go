// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/paigong/paigong/internal/cache"
	"github.com/paigong/paigong/internal/config"
	"github.com/paigong/paigong/internal/repository"
	"github.com/paigong/paigong/pkg/assign"
	"github.com/paigong/paigong/pkg/errors"
	"github.com/paigong/paigong/pkg/model"
)

// Handler 派工服务处理器
// 持有进程内的场景簿；对同一场景的运行由 mu 串行化
type Handler struct {
	mu     sync.RWMutex
	book   model.ScenarioBook
	engine *assign.Engine
	cfg    *config.Config

	// 每个场景最近一次运行的上下文（任务表与冲突列表），用于统计与聚合
	runs map[string]*runContext

	// 可选的持久化能力，未配置时快照端点返回服务不可用
	snapshots repository.SnapshotRepositoryInterface
	cache     *cache.SnapshotCache
}

// runContext 一次运行遗留的查询上下文
type runContext struct {
	tasks         model.TaskIndex
	conflictTasks []string
}

// New 创建处理器
func New(cfg *config.Config) *Handler {
	return &Handler{
		book:   model.NewScenarioBook(),
		engine: assign.NewEngine(),
		cfg:    cfg,
		runs:   make(map[string]*runContext),
	}
}

// WithSnapshotRepository 配置快照仓储
func (h *Handler) WithSnapshotRepository(repo repository.SnapshotRepositoryInterface) *Handler {
	h.snapshots = repo
	return h
}

// WithSnapshotCache 配置快照缓存
func (h *Handler) WithSnapshotCache(c *cache.SnapshotCache) *Handler {
	h.cache = c
	return h
}

// respondJSON 返回JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 返回错误响应
func respondError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
	})
}
