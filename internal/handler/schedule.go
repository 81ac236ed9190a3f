package handler

import (
	"net/http"

	"github.com/paigong/paigong/pkg/errors"
	"github.com/paigong/paigong/pkg/schedule"
)

// WorkerScheduleResponse 单工人日程响应
type WorkerScheduleResponse struct {
	ScenarioID string      `json:"scenario_id"`
	Schedule   interface{} `json:"schedule"`
}

// GetWorkerSchedule 查询单个工人的日程
// GET /api/schedule/worker?scenario_id=xxx&worker_id=yyy
func (h *Handler) GetWorkerSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}

	scenarioID := r.URL.Query().Get("scenario_id")
	workerID := r.URL.Query().Get("worker_id")
	if scenarioID == "" {
		respondError(w, errors.InvalidInput("scenario_id", "不能为空"))
		return
	}
	if workerID == "" {
		respondError(w, errors.InvalidInput("worker_id", "不能为空"))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	state := h.book.Get(scenarioID)
	if state == nil {
		respondError(w, errors.ScenarioNotFound(scenarioID))
		return
	}
	ws, ok := schedule.GetWorkerSchedule(state, workerID)
	if !ok {
		respondError(w, errors.WorkerNotFound(workerID))
		return
	}

	respondJSON(w, http.StatusOK, WorkerScheduleResponse{
		ScenarioID: scenarioID,
		Schedule:   ws,
	})
}

// GetAggregatedSchedule 查询合并日程视图
// GET /api/schedule/aggregate?scenario_id=xxx&role=mechanic|quality|customer|all
func (h *Handler) GetAggregatedSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}

	scenarioID := r.URL.Query().Get("scenario_id")
	if scenarioID == "" {
		respondError(w, errors.InvalidInput("scenario_id", "不能为空"))
		return
	}
	roleFilter := r.URL.Query().Get("role")

	h.mu.RLock()
	defer h.mu.RUnlock()

	state := h.book.Get(scenarioID)
	if state == nil {
		respondError(w, errors.ScenarioNotFound(scenarioID))
		return
	}

	agg := schedule.GetAggregatedSchedule(state, roleFilter)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"scenario_id": scenarioID,
		"role":        roleFilter,
		"aggregate":   agg,
	})
}
