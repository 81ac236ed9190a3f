// Package model 定义派工引擎的核心数据模型
package model

// Outcome 单个任务的派工结果分类
type Outcome string

const (
	OutcomeFull     Outcome = "full"     // 人数全部满足
	OutcomePartial  Outcome = "partial"  // 部分满足
	OutcomeConflict Outcome = "conflict" // 无可用工人
)

// AssignmentRecord 任务的派工记录（每任务持久化一条）
// WorkerIDs 按分配槽位有序，长度不超过 RequiredWorkers
type AssignmentRecord struct {
	TaskID          string   `json:"task_id"`
	WorkerIDs       []string `json:"worker_ids"`
	Team            string   `json:"team"`
	Skill           string   `json:"skill,omitempty"`
	RequiredWorkers int      `json:"required_workers"`
	Partial         bool     `json:"partial"`
}

// FilledCount 返回非空槽位数
func (r *AssignmentRecord) FilledCount() int {
	count := 0
	for _, id := range r.WorkerIDs {
		if id != "" {
			count++
		}
	}
	return count
}

// RecomputePartial 重新派生 partial 标志
// partial 永远由槽位计数派生，不独立存储，避免与槽位内容漂移
func (r *AssignmentRecord) RecomputePartial() {
	filled := r.FilledCount()
	r.Partial = filled > 0 && filled < r.RequiredWorkers
}

// Outcome 返回记录对应的结果分类
func (r *AssignmentRecord) Outcome() Outcome {
	switch filled := r.FilledCount(); {
	case filled == 0:
		return OutcomeConflict
	case filled < r.RequiredWorkers:
		return OutcomePartial
	default:
		return OutcomeFull
	}
}

// Clone 深拷贝记录
func (r *AssignmentRecord) Clone() *AssignmentRecord {
	dup := *r
	dup.WorkerIDs = append([]string(nil), r.WorkerIDs...)
	return &dup
}
