package handler

import (
	"net/http"

	"github.com/paigong/paigong/pkg/errors"
	"github.com/paigong/paigong/pkg/model"
	"github.com/paigong/paigong/pkg/stats"
	"github.com/paigong/paigong/pkg/validator"
)

// GetCoverage 覆盖率分析
// GET /api/stats/coverage?scenario_id=xxx
// 需要场景最近一次运行的任务表，未运行过的场景返回404
func (h *Handler) GetCoverage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}

	scenarioID := r.URL.Query().Get("scenario_id")
	if scenarioID == "" {
		respondError(w, errors.InvalidInput("scenario_id", "不能为空"))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	state := h.book.Get(scenarioID)
	if state == nil {
		respondError(w, errors.ScenarioNotFound(scenarioID))
		return
	}

	var tasks model.TaskIndex
	var conflictTasks []string
	if run, ok := h.runs[scenarioID]; ok {
		tasks = run.tasks
		conflictTasks = run.conflictTasks
	}

	metrics := stats.NewCoverageAnalyzer().Analyze(state, tasks, conflictTasks)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"scenario_id": scenarioID,
		"coverage":    metrics,
	})
}

// GetUtilization 工作量均衡分析
// GET /api/stats/utilization?scenario_id=xxx
func (h *Handler) GetUtilization(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}

	scenarioID := r.URL.Query().Get("scenario_id")
	if scenarioID == "" {
		respondError(w, errors.InvalidInput("scenario_id", "不能为空"))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	state := h.book.Get(scenarioID)
	if state == nil {
		respondError(w, errors.ScenarioNotFound(scenarioID))
		return
	}

	metrics := stats.NewUtilizationAnalyzer().Analyze(state.Schedules)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"scenario_id": scenarioID,
		"utilization": metrics,
	})
}

// Audit 派工结果一致性审计
// GET /api/stats/audit?scenario_id=xxx
func (h *Handler) Audit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}

	scenarioID := r.URL.Query().Get("scenario_id")
	if scenarioID == "" {
		respondError(w, errors.InvalidInput("scenario_id", "不能为空"))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	state := h.book.Get(scenarioID)
	if state == nil {
		respondError(w, errors.ScenarioNotFound(scenarioID))
		return
	}

	report := validator.NewAuditor().Audit(state)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"scenario_id": scenarioID,
		"clean":       report.IsClean(),
		"report":      report,
	})
}
