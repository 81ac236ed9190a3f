package validator

import (
	"testing"
	"time"

	"github.com/paigong/paigong/pkg/model"
)

var testBase = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func TestAudit_Clean(t *testing.T) {
	state := model.NewScenarioState()
	state.Records["T1"] = &model.AssignmentRecord{
		TaskID: "T1", WorkerIDs: []string{"A_1"}, RequiredWorkers: 1,
	}
	state.Schedules["A_1"] = &model.WorkerSchedule{
		WorkerID: "A_1",
		Tasks: []model.ScheduleEntry{
			{TaskID: "T1", StartTime: testBase, EndTime: testBase.Add(time.Hour)},
			{TaskID: "T2", StartTime: testBase.Add(time.Hour), EndTime: testBase.Add(2 * time.Hour)},
		},
	}

	report := NewAuditor().Audit(state)

	if !report.IsClean() {
		t.Errorf("无冲突状态应为clean: %+v", report.Conflicts)
	}
	if report.Checked != 1 {
		t.Errorf("Checked = %d", report.Checked)
	}
}

func TestAudit_Overlap(t *testing.T) {
	state := model.NewScenarioState()
	state.Schedules["A_1"] = &model.WorkerSchedule{
		WorkerID: "A_1",
		Tasks: []model.ScheduleEntry{
			{TaskID: "T1", StartTime: testBase, EndTime: testBase.Add(2 * time.Hour)},
			{TaskID: "T2", StartTime: testBase.Add(time.Hour), EndTime: testBase.Add(3 * time.Hour)},
		},
	}

	report := NewAuditor().Audit(state)

	if report.IsClean() {
		t.Fatal("时间重叠应报告为错误")
	}
	c := report.Conflicts[0]
	if c.Type != ConflictOverlap || c.WorkerID != "A_1" {
		t.Errorf("冲突 = %+v", c)
	}
}

func TestAudit_RecordConsistency(t *testing.T) {
	tests := []struct {
		name     string
		record   *model.AssignmentRecord
		expected ConflictType
		severity string
	}{
		{
			"槽位超出所需人数",
			&model.AssignmentRecord{TaskID: "T1", WorkerIDs: []string{"A_1", "A_2"}, RequiredWorkers: 1},
			ConflictSlotCount, "error",
		},
		{
			"partial标志漂移",
			&model.AssignmentRecord{TaskID: "T1", WorkerIDs: []string{"A_1"}, RequiredWorkers: 2, Partial: false},
			ConflictPartial, "error",
		},
		{
			"零人记录",
			&model.AssignmentRecord{TaskID: "T1", WorkerIDs: nil, RequiredWorkers: 1},
			ConflictEmptySlot, "warning",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := model.NewScenarioState()
			state.Records["T1"] = tt.record

			report := NewAuditor().Audit(state)

			found := false
			for _, c := range report.Conflicts {
				if c.Type == tt.expected && c.Severity == tt.severity {
					found = true
				}
			}
			if !found {
				t.Errorf("未检出 %s 冲突: %+v", tt.expected, report.Conflicts)
			}
		})
	}
}

func TestAudit_NilState(t *testing.T) {
	report := NewAuditor().Audit(nil)
	if !report.IsClean() || report.Checked != 0 {
		t.Error("nil状态应返回空报告")
	}
}
