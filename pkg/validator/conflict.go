// Package validator 提供派工结果验证功能
package validator

import (
	"fmt"
	"sort"

	"github.com/paigong/paigong/pkg/model"
)

// ConflictType 冲突类型
type ConflictType string

const (
	ConflictOverlap   ConflictType = "overlap"    // 工人任务时间重叠（重复占用）
	ConflictSlotCount ConflictType = "slot_count" // 记录槽位数超出所需人数
	ConflictPartial   ConflictType = "partial"    // partial 标志与槽位计数不一致
	ConflictEmptySlot ConflictType = "empty_slot" // 记录只含空槽位
)

// Conflict 冲突信息
type Conflict struct {
	Type     ConflictType `json:"type"`
	Severity string       `json:"severity"` // error/warning
	WorkerID string       `json:"worker_id,omitempty"`
	TaskIDs  []string     `json:"task_ids,omitempty"`
	Message  string       `json:"message"`
}

// AuditReport 审计报告
type AuditReport struct {
	Conflicts []Conflict `json:"conflicts"`
	Checked   int        `json:"checked"` // 审计过的工人日程数
}

// IsClean 报告是否无错误级冲突
func (r *AuditReport) IsClean() bool {
	for _, c := range r.Conflicts {
		if c.Severity == "error" {
			return false
		}
	}
	return true
}

// Auditor 派工审计器
// 对已重建的工人日程与派工记录做事后校验
type Auditor struct{}

// NewAuditor 创建审计器
func NewAuditor() *Auditor {
	return &Auditor{}
}

// Audit 审计一个场景：重复占用 + 记录一致性
func (a *Auditor) Audit(state *model.ScenarioState) *AuditReport {
	report := &AuditReport{}
	if state == nil {
		return report
	}

	// 工人按ID排序，报告顺序确定
	workerIDs := make([]string, 0, len(state.Schedules))
	for id := range state.Schedules {
		workerIDs = append(workerIDs, id)
	}
	sort.Strings(workerIDs)

	for _, id := range workerIDs {
		report.Conflicts = append(report.Conflicts, a.detectOverlaps(state.Schedules[id])...)
		report.Checked++
	}

	taskIDs := make([]string, 0, len(state.Records))
	for id := range state.Records {
		taskIDs = append(taskIDs, id)
	}
	sort.Strings(taskIDs)

	for _, id := range taskIDs {
		report.Conflicts = append(report.Conflicts, a.auditRecord(state.Records[id])...)
	}

	return report
}

// detectOverlaps 检测单个工人日程内的时间重叠
// 日程已按开始时间排序，只需比较相邻条目
func (a *Auditor) detectOverlaps(ws *model.WorkerSchedule) []Conflict {
	var conflicts []Conflict

	for i := 0; i < len(ws.Tasks)-1; i++ {
		current := ws.Tasks[i]
		next := ws.Tasks[i+1]

		currentRange := model.TimeRange{Start: current.StartTime, End: current.EndTime}
		nextRange := model.TimeRange{Start: next.StartTime, End: next.EndTime}

		if currentRange.Overlaps(nextRange) {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictOverlap,
				Severity: "error",
				WorkerID: ws.WorkerID,
				TaskIDs:  []string{current.TaskID, next.TaskID},
				Message:  fmt.Sprintf("工人 %s 的任务 %s 与 %s 时间重叠", ws.WorkerID, current.TaskID, next.TaskID),
			})
		}
	}

	return conflicts
}

// auditRecord 校验单条派工记录的内部一致性
func (a *Auditor) auditRecord(rec *model.AssignmentRecord) []Conflict {
	var conflicts []Conflict

	filled := rec.FilledCount()

	if len(rec.WorkerIDs) > rec.RequiredWorkers {
		conflicts = append(conflicts, Conflict{
			Type:     ConflictSlotCount,
			Severity: "error",
			TaskIDs:  []string{rec.TaskID},
			Message:  fmt.Sprintf("任务 %s 的槽位数 %d 超出所需人数 %d", rec.TaskID, len(rec.WorkerIDs), rec.RequiredWorkers),
		})
	}

	wantPartial := filled > 0 && filled < rec.RequiredWorkers
	if rec.Partial != wantPartial {
		conflicts = append(conflicts, Conflict{
			Type:     ConflictPartial,
			Severity: "error",
			TaskIDs:  []string{rec.TaskID},
			Message:  fmt.Sprintf("任务 %s 的 partial 标志与槽位计数不一致", rec.TaskID),
		})
	}

	// 零人记录应报告为冲突而非空记录，出现即说明上游漏清
	if filled == 0 {
		conflicts = append(conflicts, Conflict{
			Type:     ConflictEmptySlot,
			Severity: "warning",
			TaskIDs:  []string{rec.TaskID},
			Message:  fmt.Sprintf("任务 %s 的记录不含任何工人", rec.TaskID),
		})
	}

	return conflicts
}
