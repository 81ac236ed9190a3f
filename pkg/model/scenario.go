// Package model 定义派工引擎的核心数据模型
package model

import (
	"encoding/json"
	"time"
)

// ScheduleEntry 工人日程中的反规范化任务视图
type ScheduleEntry struct {
	TaskID         string        `json:"task_id"`
	StartTime      time.Time     `json:"start_time"`
	EndTime        time.Time     `json:"end_time"`
	Type           string        `json:"type,omitempty"`
	Product        string        `json:"product,omitempty"`
	Duration       time.Duration `json:"duration"`
	Team           string        `json:"team"`
	Skill          string        `json:"skill,omitempty"`
	IsCustomerTask bool          `json:"is_customer_task,omitempty"`
}

// WorkerSchedule 单个工人的派生日程（按开始时间有序）
type WorkerSchedule struct {
	WorkerID    string          `json:"worker_id"`
	DisplayName string          `json:"display_name"`
	Team        string          `json:"team"`
	Skill       string          `json:"skill,omitempty"`
	IsQuality   bool            `json:"is_quality,omitempty"`
	IsCustomer  bool            `json:"is_customer,omitempty"`
	Tasks       []ScheduleEntry `json:"tasks"`
}

// ScenarioState 单个场景的派工状态
// Records 以任务ID为键，Schedules 以工人ID为键
type ScenarioState struct {
	Records   map[string]*AssignmentRecord `json:"records"`
	Schedules map[string]*WorkerSchedule   `json:"schedules"`
}

// NewScenarioState 创建空的场景状态
func NewScenarioState() *ScenarioState {
	return &ScenarioState{
		Records:   make(map[string]*AssignmentRecord),
		Schedules: make(map[string]*WorkerSchedule),
	}
}

// Clear 清空本场景的全部派工记录与日程
func (s *ScenarioState) Clear() {
	s.Records = make(map[string]*AssignmentRecord)
	s.Schedules = make(map[string]*WorkerSchedule)
}

// Snapshot 将单个场景序列化为不透明快照
func (s *ScenarioState) Snapshot() ([]byte, error) {
	return json.Marshal(s)
}

// RestoreScenarioState 从快照恢复单个场景，partial 标志按槽位重新派生
func RestoreScenarioState(blob []byte) (*ScenarioState, error) {
	state := NewScenarioState()
	if len(blob) == 0 {
		return state, nil
	}
	if err := json.Unmarshal(blob, state); err != nil {
		return nil, err
	}
	if state.Records == nil {
		state.Records = make(map[string]*AssignmentRecord)
	}
	if state.Schedules == nil {
		state.Schedules = make(map[string]*WorkerSchedule)
	}
	for _, rec := range state.Records {
		rec.RecomputePartial()
	}
	return state, nil
}

// ScenarioBook 场景ID到派工状态的映射
// 首次访问时惰性创建，仅由显式清空操作重置，进程/会话内常驻
// 并发运行同一场景不受支持，由调用方串行化
type ScenarioBook map[string]*ScenarioState

// NewScenarioBook 创建场景簿
func NewScenarioBook() ScenarioBook {
	return make(ScenarioBook)
}

// Get 获取场景状态，不存在时返回 nil
func (b ScenarioBook) Get(scenarioID string) *ScenarioState {
	return b[scenarioID]
}

// GetOrCreate 获取场景状态，不存在时惰性创建
func (b ScenarioBook) GetOrCreate(scenarioID string) *ScenarioState {
	if state, ok := b[scenarioID]; ok {
		return state
	}
	state := NewScenarioState()
	b[scenarioID] = state
	return state
}

// Snapshot 将场景簿序列化为不透明快照（跨会话保存/恢复）
func (b ScenarioBook) Snapshot() ([]byte, error) {
	return json.Marshal(b)
}

// RestoreSnapshot 从快照恢复场景簿，partial 标志按槽位重新派生
func RestoreSnapshot(blob []byte) (ScenarioBook, error) {
	book := NewScenarioBook()
	if len(blob) == 0 {
		return book, nil
	}
	if err := json.Unmarshal(blob, &book); err != nil {
		return nil, err
	}
	for _, state := range book {
		if state.Records == nil {
			state.Records = make(map[string]*AssignmentRecord)
		}
		if state.Schedules == nil {
			state.Schedules = make(map[string]*WorkerSchedule)
		}
		for _, rec := range state.Records {
			rec.RecomputePartial()
		}
	}
	return book, nil
}
