// Package model 定义派工引擎的核心数据模型
package model

import (
	"errors"
	"time"
)

// 任务记录级校验错误
var (
	errEmptyTaskID      = errors.New("任务ID为空")
	errRequiredWorkers  = errors.New("所需人数必须不小于1")
	errInvalidTimeRange = errors.New("结束时间必须晚于开始时间")
)

// Task 计划任务（只读输入）
// 来源字段保持原样，派生标志由分类器计算
type Task struct {
	ID              string    `json:"id"`
	Team            string    `json:"team"`  // 可能自带技能后缀，按标签规则解析
	Skill           string    `json:"skill,omitempty"`
	Type            string    `json:"type,omitempty"` // 自由文本类别
	Product         string    `json:"product,omitempty"`
	RequiredWorkers int       `json:"required_workers"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Priority        int       `json:"priority"` // 数值越小越紧急

	// 数据源携带的显式标志（与类型、ID标记做 OR 组合）
	CustomerFlag bool `json:"customer_flag,omitempty"`
	QualityFlag  bool `json:"quality_flag,omitempty"`
	LatePartFlag bool `json:"late_part_flag,omitempty"`
	ReworkFlag   bool `json:"rework_flag,omitempty"`
	CriticalFlag bool `json:"critical_flag,omitempty"`
}

// Range 返回任务的时间范围
func (t *Task) Range() TimeRange {
	return TimeRange{Start: t.StartTime, End: t.EndTime}
}

// Duration 返回任务时长
func (t *Task) Duration() time.Duration {
	return t.EndTime.Sub(t.StartTime)
}

// Validate 检查任务记录是否合法
// 非法记录在一次运行中被跳过并记入诊断，不中断运行
func (t *Task) Validate() error {
	if t.ID == "" {
		return errEmptyTaskID
	}
	if t.RequiredWorkers < 1 {
		return errRequiredWorkers
	}
	if !t.EndTime.After(t.StartTime) {
		return errInvalidTimeRange
	}
	return nil
}

// TaskIndex 按ID索引的任务表
type TaskIndex map[string]*Task

// BuildTaskIndex 构建任务索引
func BuildTaskIndex(tasks []*Task) TaskIndex {
	idx := make(TaskIndex, len(tasks))
	for _, t := range tasks {
		idx[t.ID] = t
	}
	return idx
}
