// Package stats 提供派工统计分析功能
package stats

import (
	"sort"

	"github.com/paigong/paigong/pkg/model"
)

// CoverageMetrics 派工覆盖指标
type CoverageMetrics struct {
	// 整体覆盖
	TotalTasks      int     `json:"total_tasks"`      // 参与统计的任务数
	FullTasks       int     `json:"full_tasks"`       // 人数全部满足的任务数
	PartialTasks    int     `json:"partial_tasks"`    // 部分满足的任务数
	ConflictTasks   int     `json:"conflict_tasks"`   // 无人可派的任务数
	OverallCoverage float64 `json:"overall_coverage"` // 槽位满足率 (%)

	// 按班组统计
	TeamCoverage map[string]TeamCoverage `json:"team_coverage"`

	// 按角色统计
	RoleCoverage map[string]float64 `json:"role_coverage"`

	// 问题识别
	Unfilled []UnfilledTask `json:"unfilled,omitempty"` // 缺工时段（部分满足与冲突任务）
}

// TeamCoverage 单个班组的覆盖情况
type TeamCoverage struct {
	Team          string  `json:"team"`
	TotalTasks    int     `json:"total_tasks"`
	RequiredSlots int     `json:"required_slots"`
	FilledSlots   int     `json:"filled_slots"`
	CoverageRate  float64 `json:"coverage_rate"`
}

// UnfilledTask 缺工任务
type UnfilledTask struct {
	TaskID   string `json:"task_id"`
	Team     string `json:"team"`
	Skill    string `json:"skill,omitempty"`
	Required int    `json:"required"`
	Assigned int    `json:"assigned"`
	Shortage int    `json:"shortage"`
}

// CoverageAnalyzer 覆盖率分析器
type CoverageAnalyzer struct{}

// NewCoverageAnalyzer 创建覆盖率分析器
func NewCoverageAnalyzer() *CoverageAnalyzer {
	return &CoverageAnalyzer{}
}

// Analyze 分析一个场景的派工覆盖情况
// conflictTasks 为本次运行冲突（无记录写入）的任务ID列表
func (c *CoverageAnalyzer) Analyze(state *model.ScenarioState, tasks model.TaskIndex, conflictTasks []string) *CoverageMetrics {
	metrics := &CoverageMetrics{
		TeamCoverage: make(map[string]TeamCoverage),
		RoleCoverage: make(map[string]float64),
	}
	if state == nil {
		metrics.OverallCoverage = 100
		return metrics
	}

	requiredSlots := 0
	filledSlots := 0
	roleRequired := make(map[string]int)
	roleFilled := make(map[string]int)

	// 记录按任务ID排序，输出顺序确定
	taskIDs := make([]string, 0, len(state.Records))
	for id := range state.Records {
		taskIDs = append(taskIDs, id)
	}
	sort.Strings(taskIDs)

	for _, taskID := range taskIDs {
		rec := state.Records[taskID]
		filled := rec.FilledCount()

		metrics.TotalTasks++
		requiredSlots += rec.RequiredWorkers
		filledSlots += filled

		role := string(model.ClassifyRole(rec.Team))
		roleRequired[role] += rec.RequiredWorkers
		roleFilled[role] += filled

		tc := metrics.TeamCoverage[rec.Team]
		tc.Team = rec.Team
		tc.TotalTasks++
		tc.RequiredSlots += rec.RequiredWorkers
		tc.FilledSlots += filled
		metrics.TeamCoverage[rec.Team] = tc

		if rec.Partial {
			metrics.PartialTasks++
			metrics.Unfilled = append(metrics.Unfilled, UnfilledTask{
				TaskID:   rec.TaskID,
				Team:     rec.Team,
				Skill:    rec.Skill,
				Required: rec.RequiredWorkers,
				Assigned: filled,
				Shortage: rec.RequiredWorkers - filled,
			})
		} else {
			metrics.FullTasks++
		}
	}

	// 冲突任务没有记录，从任务表补齐缺工信息
	for _, taskID := range conflictTasks {
		metrics.TotalTasks++
		metrics.ConflictTasks++

		task, ok := tasks[taskID]
		if !ok {
			continue
		}
		requiredSlots += task.RequiredWorkers
		metrics.Unfilled = append(metrics.Unfilled, UnfilledTask{
			TaskID:   task.ID,
			Team:     task.Team,
			Skill:    task.Skill,
			Required: task.RequiredWorkers,
			Assigned: 0,
			Shortage: task.RequiredWorkers,
		})
	}

	if requiredSlots > 0 {
		metrics.OverallCoverage = float64(filledSlots) / float64(requiredSlots) * 100
	} else {
		metrics.OverallCoverage = 100
	}

	for role, required := range roleRequired {
		if required > 0 {
			metrics.RoleCoverage[role] = float64(roleFilled[role]) / float64(required) * 100
		}
	}

	// 班组覆盖率
	for team, tc := range metrics.TeamCoverage {
		if tc.RequiredSlots > 0 {
			tc.CoverageRate = float64(tc.FilledSlots) / float64(tc.RequiredSlots) * 100
		}
		metrics.TeamCoverage[team] = tc
	}

	return metrics
}
