package model

import (
	"testing"
	"time"
)

func TestTask_Validate(t *testing.T) {
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		task    Task
		wantErr bool
	}{
		{
			"合法任务",
			Task{ID: "T1", RequiredWorkers: 1, StartTime: base, EndTime: base.Add(time.Hour)},
			false,
		},
		{
			"空ID",
			Task{RequiredWorkers: 1, StartTime: base, EndTime: base.Add(time.Hour)},
			true,
		},
		{
			"所需人数为零",
			Task{ID: "T1", StartTime: base, EndTime: base.Add(time.Hour)},
			true,
		},
		{
			"所需人数为负",
			Task{ID: "T1", RequiredWorkers: -1, StartTime: base, EndTime: base.Add(time.Hour)},
			true,
		},
		{
			"结束早于开始",
			Task{ID: "T1", RequiredWorkers: 1, StartTime: base.Add(time.Hour), EndTime: base},
			true,
		},
		{
			"零长度时间范围",
			Task{ID: "T1", RequiredWorkers: 1, StartTime: base, EndTime: base},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildTaskIndex(t *testing.T) {
	tasks := []*Task{
		{ID: "T1", RequiredWorkers: 1},
		{ID: "T2", RequiredWorkers: 2},
	}

	idx := BuildTaskIndex(tasks)
	if len(idx) != 2 {
		t.Fatalf("索引长度 = %d", len(idx))
	}
	if idx["T2"].RequiredWorkers != 2 {
		t.Error("索引内容不一致")
	}
}
