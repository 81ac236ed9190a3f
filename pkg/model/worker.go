// Package model 定义派工引擎的核心数据模型
package model

import (
	"fmt"
	"time"
)

// Worker 一个可分配的工人单位（由班组容量展开而来）
// 同一班组-技能组的每个容量单位各对应一个 Worker
type Worker struct {
	ID            string     `json:"id"`             // {teamSkillKey}_{position}
	TeamSkillKey  string     `json:"team_skill_key"` // 原始班组-技能标签
	BaseTeam      string     `json:"base_team"`      // 班组名（去除技能后缀）
	Skill         string     `json:"skill"`          // 技能编码，空表示不限
	Role          Role       `json:"role"`           // mechanic/quality/customer
	Position      int        `json:"position"`       // 组内序号（1 起），仅用于稳定排序
	BusyUntil     *time.Time `json:"busy_until,omitempty"`
	AssignedTasks []TaskRef  `json:"assigned_tasks,omitempty"` // 按开始时间有序
}

// TaskRef 工人已承接任务的引用
type TaskRef struct {
	TaskID    string    `json:"task_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// WorkerID 组合工人ID
func WorkerID(teamSkillKey string, position int) string {
	return fmt.Sprintf("%s_%d", teamSkillKey, position)
}

// NewWorker 创建工人记录
func NewWorker(teamSkillKey string, position int) *Worker {
	label := ParseTeamSkillLabel(teamSkillKey)
	return &Worker{
		ID:           WorkerID(teamSkillKey, position),
		TeamSkillKey: teamSkillKey,
		BaseTeam:     label.BaseTeam,
		Skill:        label.Skill,
		Role:         label.Role(),
		Position:     position,
	}
}

// AvailableAt 检查工人在时刻 t 是否空闲
// BusyUntil <= t 视为可用
func (w *Worker) AvailableAt(t time.Time) bool {
	return w.BusyUntil == nil || !w.BusyUntil.After(t)
}

// Commit 承接一个任务：占用至任务结束并记录任务引用
func (w *Worker) Commit(ref TaskRef) {
	end := ref.EndTime
	w.BusyUntil = &end

	// 按开始时间插入，保持有序
	idx := len(w.AssignedTasks)
	for i, existing := range w.AssignedTasks {
		if ref.StartTime.Before(existing.StartTime) {
			idx = i
			break
		}
	}
	w.AssignedTasks = append(w.AssignedTasks, TaskRef{})
	copy(w.AssignedTasks[idx+1:], w.AssignedTasks[idx:])
	w.AssignedTasks[idx] = ref

	// 保证占用时间覆盖所有已承接任务
	for _, existing := range w.AssignedTasks {
		if existing.EndTime.After(*w.BusyUntil) {
			end = existing.EndTime
			w.BusyUntil = &end
		}
	}
}

// DisplayName 工人显示名，例如 "Mechanic Team 1 #2"
func (w *Worker) DisplayName() string {
	return fmt.Sprintf("%s #%d", w.TeamSkillKey, w.Position)
}

// MatchesSkill 检查工人是否满足技能要求（空要求匹配任意工人）
func (w *Worker) MatchesSkill(skill string) bool {
	return skill == "" || w.Skill == skill
}
