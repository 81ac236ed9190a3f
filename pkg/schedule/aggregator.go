// Package schedule 提供派工结果的日程聚合视图
//
// 聚合是纯投影：每次调用都从派工记录重建，不做增量维护。
// 记录变更之后、日程读取之前必须先重建。
package schedule

import (
	"sort"
	"strconv"
	"strings"

	"github.com/paigong/paigong/pkg/classify"
	"github.com/paigong/paigong/pkg/model"
)

// 聚合视图的角色过滤器取值
const (
	RoleFilterAll      = "all"
	RoleFilterMechanic = string(model.RoleMechanic)
	RoleFilterQuality  = string(model.RoleQuality)
	RoleFilterCustomer = string(model.RoleCustomer)
)

// AggregatedSchedule 按角色合并后的日程视图
type AggregatedSchedule struct {
	Tasks        []model.ScheduleEntry   `json:"tasks"`
	Workers      []*model.WorkerSchedule `json:"workers"`
	TotalWorkers int                     `json:"total_workers"`
}

// RebuildWorkerSchedules 从派工记录重建全部工人日程
//
// 幂等：输入不变时两次调用产出逐字节一致的结果。
// 引用了任务表中不存在任务的记录被跳过，不中断聚合。
func RebuildWorkerSchedules(state *model.ScenarioState, tasks model.TaskIndex) map[string]*model.WorkerSchedule {
	schedules := make(map[string]*model.WorkerSchedule)
	if state == nil {
		return schedules
	}

	for _, rec := range state.Records {
		task, ok := tasks[rec.TaskID]
		if !ok {
			// 任务表中已不存在的引用直接跳过
			continue
		}

		class := classify.Annotate(task).Class
		entry := model.ScheduleEntry{
			TaskID:         task.ID,
			StartTime:      task.StartTime,
			EndTime:        task.EndTime,
			Type:           task.Type,
			Product:        task.Product,
			Duration:       task.Duration(),
			Team:           rec.Team,
			Skill:          rec.Skill,
			IsCustomerTask: class.IsCustomerTask,
		}

		for _, workerID := range rec.WorkerIDs {
			if workerID == "" {
				continue
			}
			ws, ok := schedules[workerID]
			if !ok {
				ws = newWorkerSchedule(workerID)
				schedules[workerID] = ws
			}
			ws.Tasks = append(ws.Tasks, entry)
		}
	}

	// 每个工人的日程按开始时间排序，任务ID兜底保证可复现
	for _, ws := range schedules {
		sort.Slice(ws.Tasks, func(i, j int) bool {
			if !ws.Tasks[i].StartTime.Equal(ws.Tasks[j].StartTime) {
				return ws.Tasks[i].StartTime.Before(ws.Tasks[j].StartTime)
			}
			return ws.Tasks[i].TaskID < ws.Tasks[j].TaskID
		})
	}

	state.Schedules = schedules
	return schedules
}

// GetWorkerSchedule 获取单个工人的日程
func GetWorkerSchedule(state *model.ScenarioState, workerID string) (*model.WorkerSchedule, bool) {
	if state == nil {
		return nil, false
	}
	ws, ok := state.Schedules[workerID]
	return ws, ok
}

// GetAggregatedSchedule 合并所有匹配角色过滤器的工人日程
// 任务列表按开始时间排序并按任务ID去重（多人同一任务只出现一次）
func GetAggregatedSchedule(state *model.ScenarioState, roleFilter string) *AggregatedSchedule {
	agg := &AggregatedSchedule{}
	if state == nil {
		return agg
	}

	// 工人按ID排序，输出顺序确定
	workerIDs := make([]string, 0, len(state.Schedules))
	for id := range state.Schedules {
		workerIDs = append(workerIDs, id)
	}
	sort.Strings(workerIDs)

	seen := make(map[string]bool)
	for _, id := range workerIDs {
		ws := state.Schedules[id]
		if !matchesRoleFilter(ws, roleFilter) {
			continue
		}
		agg.Workers = append(agg.Workers, ws)
		for _, entry := range ws.Tasks {
			if seen[entry.TaskID] {
				continue
			}
			seen[entry.TaskID] = true
			agg.Tasks = append(agg.Tasks, entry)
		}
	}
	agg.TotalWorkers = len(agg.Workers)

	sort.Slice(agg.Tasks, func(i, j int) bool {
		if !agg.Tasks[i].StartTime.Equal(agg.Tasks[j].StartTime) {
			return agg.Tasks[i].StartTime.Before(agg.Tasks[j].StartTime)
		}
		return agg.Tasks[i].TaskID < agg.Tasks[j].TaskID
	})

	return agg
}

// ClearScenarioAssignments 清空单个场景的派工记录
// 只影响给定场景，其他场景的记录保持不变
func ClearScenarioAssignments(book model.ScenarioBook, scenarioID string) {
	if state := book.Get(scenarioID); state != nil {
		state.Clear()
	}
}

// newWorkerSchedule 由工人ID还原日程骨架
// ID格式为 {teamSkillKey}_{position}，解析失败时整个ID当作标签
func newWorkerSchedule(workerID string) *model.WorkerSchedule {
	key, position := splitWorkerID(workerID)
	label := model.ParseTeamSkillLabel(key)
	role := label.Role()

	displayName := key
	if position > 0 {
		displayName = key + " #" + strconv.Itoa(position)
	}

	return &model.WorkerSchedule{
		WorkerID:    workerID,
		DisplayName: displayName,
		Team:        label.BaseTeam,
		Skill:       label.Skill,
		IsQuality:   role == model.RoleQuality,
		IsCustomer:  role == model.RoleCustomer,
	}
}

// splitWorkerID 拆出班组-技能标签与组内序号
func splitWorkerID(workerID string) (string, int) {
	idx := strings.LastIndex(workerID, "_")
	if idx < 0 {
		return workerID, 0
	}
	position, err := strconv.Atoi(workerID[idx+1:])
	if err != nil || position < 1 {
		return workerID, 0
	}
	return workerID[:idx], position
}

// matchesRoleFilter 检查工人日程是否满足角色过滤器
func matchesRoleFilter(ws *model.WorkerSchedule, roleFilter string) bool {
	switch strings.ToLower(strings.TrimSpace(roleFilter)) {
	case "", RoleFilterAll:
		return true
	case RoleFilterQuality:
		return ws.IsQuality
	case RoleFilterCustomer:
		return ws.IsCustomer
	case RoleFilterMechanic:
		return !ws.IsQuality && !ws.IsCustomer
	default:
		return false
	}
}
