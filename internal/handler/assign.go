// Package handler 提供HTTP请求处理器
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/paigong/paigong/internal/metrics"
	"github.com/paigong/paigong/pkg/assign"
	"github.com/paigong/paigong/pkg/errors"
	"github.com/paigong/paigong/pkg/model"
	"github.com/paigong/paigong/pkg/pool"
	"github.com/paigong/paigong/pkg/schedule"
	"github.com/paigong/paigong/pkg/stats"
)

// RunRequest 派工运行请求
// 任务顺序即处理顺序：上游视图按优先级+开始时间排好后原样传入
type RunRequest struct {
	ScenarioID     string         `json:"scenario_id"`
	Capacities     map[string]int `json:"capacities"`
	TeamFilter     string         `json:"team_filter,omitempty"`
	SkillFilter    string         `json:"skill_filter,omitempty"`
	ClearConflicts *bool          `json:"clear_conflicts,omitempty"`
	Timeout        int            `json:"timeout_seconds,omitempty"`
	Tasks          []TaskInput    `json:"tasks"`
}

// TaskInput 任务输入
type TaskInput struct {
	ID              string `json:"id"`
	Team            string `json:"team"`
	Skill           string `json:"skill,omitempty"`
	Type            string `json:"type,omitempty"`
	Product         string `json:"product,omitempty"`
	RequiredWorkers int    `json:"required_workers"`
	StartTime       string `json:"start_time"` // RFC3339
	EndTime         string `json:"end_time"`   // RFC3339
	Priority        int    `json:"priority,omitempty"`

	CustomerFlag bool `json:"customer_flag,omitempty"`
	QualityFlag  bool `json:"quality_flag,omitempty"`
	LatePartFlag bool `json:"late_part_flag,omitempty"`
	ReworkFlag   bool `json:"rework_flag,omitempty"`
	CriticalFlag bool `json:"critical_flag,omitempty"`
}

// RecordOutput 派工记录输出
type RecordOutput struct {
	TaskID          string   `json:"task_id"`
	WorkerIDs       []string `json:"worker_ids"`
	Team            string   `json:"team"`
	Skill           string   `json:"skill,omitempty"`
	RequiredWorkers int      `json:"required_workers"`
	Partial         bool     `json:"partial"`
	Outcome         string   `json:"outcome"`
}

// RunResponse 派工运行响应
type RunResponse struct {
	RunID         string               `json:"run_id"`
	ScenarioID    string               `json:"scenario_id"`
	PoolSize      int                  `json:"pool_size"`
	Records       []RecordOutput       `json:"records"`
	FullCount     int                  `json:"full_count"`
	PartialCount  int                  `json:"partial_count"`
	ConflictCount int                  `json:"conflict_count"`
	ConflictTasks []string             `json:"conflict_tasks,omitempty"`
	Skipped       []assign.SkippedTask `json:"skipped,omitempty"`
	PoolDiags     []pool.Diagnostic    `json:"pool_diagnostics,omitempty"`
	Duration      string               `json:"duration"`
}

// Run 执行一次派工运行
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if appErr := validateRunRequest(&req); appErr != nil {
		respondError(w, appErr)
		return
	}

	tasks, appErr := buildTasks(req.Tasks)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	teamFilter := req.TeamFilter
	if teamFilter == "" {
		teamFilter = h.cfg.Engine.DefaultTeamFilter
	}
	skillFilter := req.SkillFilter
	if skillFilter == "" {
		skillFilter = h.cfg.Engine.DefaultSkillFilter
	}
	clearConflicts := h.cfg.Engine.ClearConflicts
	if req.ClearConflicts != nil {
		clearConflicts = *req.ClearConflicts
	}

	timeout := h.cfg.Engine.DefaultTimeout
	if req.Timeout > 0 {
		timeout = time.Duration(req.Timeout) * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	// 工人池按本次过滤组合新建，运行结束即丢弃
	workerPool, poolDiags := pool.Build(req.Capacities, teamFilter, skillFilter)

	h.mu.Lock()
	result, err := h.engine.RunAssignment(ctx, tasks, workerPool)
	if err != nil {
		h.mu.Unlock()
		if err == context.DeadlineExceeded {
			respondError(w, errors.New(errors.CodeTimeout, "派工计算超时，请减少任务数量"))
			return
		}
		if err == context.Canceled {
			respondError(w, errors.New(errors.CodeInternal, "派工请求已取消"))
			return
		}
		respondError(w, errors.Wrap(err, errors.GetCode(err), "派工失败"))
		return
	}

	// 提交结果并重建日程（记录变更后、读取前必须重建）
	state := h.book.GetOrCreate(req.ScenarioID)
	result.Apply(state, clearConflicts)
	taskIndex := model.BuildTaskIndex(tasks)
	schedule.RebuildWorkerSchedules(state, taskIndex)
	h.runs[req.ScenarioID] = &runContext{
		tasks:         taskIndex,
		conflictTasks: result.ConflictTasks,
	}

	coverage := stats.NewCoverageAnalyzer().Analyze(state, taskIndex, result.ConflictTasks)
	utilization := stats.NewUtilizationAnalyzer().Analyze(state.Schedules)
	h.mu.Unlock()

	metrics.RecordAssignmentRun(req.ScenarioID, true, result.Duration)
	metrics.RecordTaskOutcomes(req.ScenarioID, result.FullCount, result.PartialCount, result.ConflictCount)
	metrics.SetPoolSize(req.ScenarioID, workerPool.Size())
	metrics.SetCoverageRate(req.ScenarioID, coverage.OverallCoverage)
	metrics.SetWorkloadGini(req.ScenarioID, utilization.WorkloadGini)

	respondJSON(w, http.StatusOK, buildRunResponse(req.ScenarioID, workerPool.Size(), result, poolDiags))
}

// Clear 清空单个场景的派工记录
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST/DELETE方法"))
		return
	}

	scenarioID := r.URL.Query().Get("scenario_id")
	if scenarioID == "" {
		respondError(w, errors.InvalidInput("scenario_id", "不能为空"))
		return
	}

	h.mu.Lock()
	schedule.ClearScenarioAssignments(h.book, scenarioID)
	delete(h.runs, scenarioID)
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"scenario_id": scenarioID,
		"cleared":     true,
	})
}

// validateRunRequest 验证运行请求
func validateRunRequest(req *RunRequest) *errors.AppError {
	ve := &errors.ValidationErrors{}

	if req.ScenarioID == "" {
		ve.Add("scenario_id", "场景ID不能为空")
	}
	if len(req.Capacities) == 0 {
		ve.Add("capacities", "容量表不能为空")
	}
	if len(req.Tasks) == 0 {
		ve.Add("tasks", "任务列表不能为空")
	}

	if ve.HasErrors() {
		return ve.ToAppError()
	}
	return nil
}

// buildTasks 将输入转换为任务模型，时间格式错误按请求级错误处理
func buildTasks(inputs []TaskInput) ([]*model.Task, *errors.AppError) {
	tasks := make([]*model.Task, 0, len(inputs))
	for _, in := range inputs {
		start, err := time.Parse(time.RFC3339, in.StartTime)
		if err != nil {
			return nil, errors.InvalidInput("start_time", "时间格式无效，应为RFC3339: "+in.ID)
		}
		end, err := time.Parse(time.RFC3339, in.EndTime)
		if err != nil {
			return nil, errors.InvalidInput("end_time", "时间格式无效，应为RFC3339: "+in.ID)
		}

		tasks = append(tasks, &model.Task{
			ID:              in.ID,
			Team:            in.Team,
			Skill:           in.Skill,
			Type:            in.Type,
			Product:         in.Product,
			RequiredWorkers: in.RequiredWorkers,
			StartTime:       start,
			EndTime:         end,
			Priority:        in.Priority,
			CustomerFlag:    in.CustomerFlag,
			QualityFlag:     in.QualityFlag,
			LatePartFlag:    in.LatePartFlag,
			ReworkFlag:      in.ReworkFlag,
			CriticalFlag:    in.CriticalFlag,
		})
	}
	return tasks, nil
}

// buildRunResponse 构建运行响应（记录按任务ID排序，输出确定）
func buildRunResponse(scenarioID string, poolSize int, result *assign.Result, poolDiags []pool.Diagnostic) RunResponse {
	records := make([]RecordOutput, 0, len(result.Records))
	for _, rec := range result.Records {
		records = append(records, RecordOutput{
			TaskID:          rec.TaskID,
			WorkerIDs:       rec.WorkerIDs,
			Team:            rec.Team,
			Skill:           rec.Skill,
			RequiredWorkers: rec.RequiredWorkers,
			Partial:         rec.Partial,
			Outcome:         string(rec.Outcome()),
		})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].TaskID < records[j].TaskID
	})

	return RunResponse{
		RunID:         result.RunID.String(),
		ScenarioID:    scenarioID,
		PoolSize:      poolSize,
		Records:       records,
		FullCount:     result.FullCount,
		PartialCount:  result.PartialCount,
		ConflictCount: result.ConflictCount,
		ConflictTasks: result.ConflictTasks,
		Skipped:       result.Skipped,
		PoolDiags:     poolDiags,
		Duration:      result.Duration.String(),
	}
}
