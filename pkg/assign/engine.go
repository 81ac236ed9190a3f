// Package assign 提供贪心派工引擎
//
// 引擎按调用方给定的任务顺序单遍处理：任务顺序是 RunAssignment 的显式参数，
// 分配质量依赖该顺序，结果对相同输入完全可复现。
// 引擎不做全局最优（不保证最大匹配或最小延迟），只保证确定性的贪心结果。
package assign

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/paigong/paigong/pkg/classify"
	"github.com/paigong/paigong/pkg/errors"
	"github.com/paigong/paigong/pkg/logger"
	"github.com/paigong/paigong/pkg/model"
	"github.com/paigong/paigong/pkg/pool"
)

// SkippedTask 被跳过的非法任务诊断
type SkippedTask struct {
	TaskID string `json:"task_id"`
	Reason string `json:"reason"`
}

// Result 一次派工运行的结果
// 一次运行要么完整提交要么整体丢弃，不存在半次运行
type Result struct {
	RunID         uuid.UUID                          `json:"run_id"`
	Records       map[string]*model.AssignmentRecord `json:"records"`
	FullCount     int                                `json:"full_count"`
	PartialCount  int                                `json:"partial_count"`
	ConflictCount int                                `json:"conflict_count"`
	ConflictTasks []string                           `json:"conflict_tasks,omitempty"`
	Skipped       []SkippedTask                      `json:"skipped,omitempty"`
	Duration      time.Duration                      `json:"duration"`
}

// Apply 将运行结果写入场景状态（逐任务覆盖旧记录）
// clearConflicts 为真时同时清除冲突任务的历史记录，否则保留
func (r *Result) Apply(state *model.ScenarioState, clearConflicts bool) {
	for taskID, rec := range r.Records {
		state.Records[taskID] = rec.Clone()
	}
	if clearConflicts {
		for _, taskID := range r.ConflictTasks {
			delete(state.Records, taskID)
		}
	}
}

// Engine 派工引擎
type Engine struct {
	logger *logger.AssignLogger
}

// NewEngine 创建派工引擎
func NewEngine() *Engine {
	return &Engine{logger: logger.NewAssignLogger()}
}

// RunAssignment 对任务序列执行一次派工
//
// 任务严格按传入顺序处理；运行期间共享可变状态仅限 p 内的工人
// （BusyUntil 与 AssignedTasks），检查可用性与提交之间不允许穿插，
// 因此一次运行内不做并行。上下文取消时整次运行丢弃。
func (e *Engine) RunAssignment(ctx context.Context, tasks []*model.Task, p *pool.WorkerPool) (*Result, error) {
	if p == nil {
		return nil, errors.ErrNilPool
	}

	startTime := time.Now()
	result := &Result{
		RunID:   uuid.New(),
		Records: make(map[string]*model.AssignmentRecord, len(tasks)),
	}
	e.logger.StartRun(result.RunID.String(), len(tasks), p.Size())

	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			// 整体丢弃：半次运行不得提交
			return nil, err
		}

		if err := task.Validate(); err != nil {
			result.Skipped = append(result.Skipped, SkippedTask{
				TaskID: task.ID,
				Reason: err.Error(),
			})
			e.logger.TaskSkipped(result.RunID.String(), task.ID, err.Error())
			continue
		}

		annotated := classify.Annotate(task)
		candidates := e.findCandidates(p, annotated)
		rankCandidates(candidates, annotated.Class.Skill)

		e.commit(result, annotated, candidates)
	}

	result.Duration = time.Since(startTime)
	e.logger.RunComplete(result.RunID.String(), result.Duration,
		result.FullCount, result.PartialCount, result.ConflictCount)

	return result, nil
}

// findCandidates 按池内迭代顺序扫描候选工人
// 找满所需人数即提前结束：只取迭代顺序中第一组够用的匹配，不找最优解
func (e *Engine) findCandidates(p *pool.WorkerPool, annotated classify.Annotated) []*model.Worker {
	required := annotated.Task.RequiredWorkers
	var candidates []*model.Worker

	for _, w := range p.Workers() {
		if !isCandidate(w, annotated.Class, annotated.Task.StartTime) {
			continue
		}
		candidates = append(candidates, w)
		if len(candidates) >= required {
			break
		}
	}
	return candidates
}

// isCandidate 检查工人是否可承接任务
//
// 角色规则：客户检验任务只派客户检验员，质检任务只派质检员；
// 其余任务要求机械师，且班组匹配满足以下任一条件：
//   - 工人的班组-技能标签与任务要求完全一致
//   - 任务不带技能要求且工人属于同一班组
//   - 工人属于同一班组且技能与任务要求一致
// 时间规则：工人空闲（BusyUntil 缺省或不晚于任务开始时刻）
func isCandidate(w *model.Worker, class classify.Classification, start time.Time) bool {
	if !w.AvailableAt(start) {
		return false
	}

	switch class.RequiredRole {
	case model.RoleCustomer:
		return w.Role == model.RoleCustomer
	case model.RoleQuality:
		return w.Role == model.RoleQuality
	default:
		if w.Role != model.RoleMechanic {
			return false
		}
		if w.TeamSkillKey == class.TeamSkillKey {
			return true
		}
		if w.BaseTeam != class.BaseTeam {
			return false
		}
		return !class.HasSkillRequirement() || class.Skill == w.Skill
	}
}

// rankCandidates 对候选工人排序：技能精确匹配者在前，组内序号升序兜底
// 排序确定，保证候选多于所需时分配顺序仍可复现
func rankCandidates(candidates []*model.Worker, skill string) {
	sort.SliceStable(candidates, func(i, j int) bool {
		iMatch := skill != "" && candidates[i].Skill == skill
		jMatch := skill != "" && candidates[j].Skill == skill
		if iMatch != jMatch {
			return iMatch
		}
		return candidates[i].Position < candidates[j].Position
	})
}

// commit 按排序结果提交分配并归类结果
func (e *Engine) commit(result *Result, annotated classify.Annotated, candidates []*model.Worker) {
	task := annotated.Task
	class := annotated.Class

	assignCount := len(candidates)
	if assignCount > task.RequiredWorkers {
		assignCount = task.RequiredWorkers
	}

	if assignCount == 0 {
		// 冲突是可预期、可统计的结果，不是异常
		result.ConflictCount++
		result.ConflictTasks = append(result.ConflictTasks, task.ID)
		e.logger.TaskConflict(result.RunID.String(), task.ID, class.TeamSkillKey)
		return
	}

	record := &model.AssignmentRecord{
		TaskID:          task.ID,
		WorkerIDs:       make([]string, 0, assignCount),
		Team:            class.BaseTeam,
		Skill:           class.Skill,
		RequiredWorkers: task.RequiredWorkers,
	}

	ref := model.TaskRef{
		TaskID:    task.ID,
		StartTime: task.StartTime,
		EndTime:   task.EndTime,
	}
	for _, w := range candidates[:assignCount] {
		w.Commit(ref)
		record.WorkerIDs = append(record.WorkerIDs, w.ID)
	}

	record.RecomputePartial()
	result.Records[task.ID] = record

	if record.Partial {
		result.PartialCount++
	} else {
		result.FullCount++
	}
}
