package stats

import (
	"math"
	"testing"
	"time"

	"github.com/paigong/paigong/pkg/model"
)

var testBase = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func TestCoverageAnalyzer_Analyze(t *testing.T) {
	state := model.NewScenarioState()
	state.Records["T1"] = &model.AssignmentRecord{
		TaskID: "T1", Team: "Mechanic Team 1", RequiredWorkers: 2,
		WorkerIDs: []string{"Mechanic Team 1_1", "Mechanic Team 1_2"},
	}
	state.Records["T2"] = &model.AssignmentRecord{
		TaskID: "T2", Team: "Mechanic Team 1", RequiredWorkers: 2,
		WorkerIDs: []string{"Mechanic Team 1_1"}, Partial: true,
	}
	state.Records["T3"] = &model.AssignmentRecord{
		TaskID: "T3", Team: "Quality Team", RequiredWorkers: 1,
		WorkerIDs: []string{"Quality Team_1"},
	}

	tasks := model.BuildTaskIndex([]*model.Task{
		{ID: "T4", Team: "Mechanic Team 2", RequiredWorkers: 3,
			StartTime: testBase, EndTime: testBase.Add(time.Hour)},
	})

	metrics := NewCoverageAnalyzer().Analyze(state, tasks, []string{"T4"})

	if metrics.TotalTasks != 4 {
		t.Errorf("TotalTasks = %d", metrics.TotalTasks)
	}
	if metrics.FullTasks != 2 || metrics.PartialTasks != 1 || metrics.ConflictTasks != 1 {
		t.Errorf("计数 = full:%d partial:%d conflict:%d",
			metrics.FullTasks, metrics.PartialTasks, metrics.ConflictTasks)
	}

	// 槽位: 已填 4 / 所需 8 (2+2+1+3)
	if math.Abs(metrics.OverallCoverage-50) > 0.001 {
		t.Errorf("OverallCoverage = %f", metrics.OverallCoverage)
	}

	tc := metrics.TeamCoverage["Mechanic Team 1"]
	if tc.TotalTasks != 2 || tc.RequiredSlots != 4 || tc.FilledSlots != 3 {
		t.Errorf("班组覆盖 = %+v", tc)
	}
	if math.Abs(tc.CoverageRate-75) > 0.001 {
		t.Errorf("CoverageRate = %f", tc.CoverageRate)
	}

	if math.Abs(metrics.RoleCoverage["quality"]-100) > 0.001 {
		t.Errorf("质检角色覆盖率 = %f", metrics.RoleCoverage["quality"])
	}

	// 缺工列表：T2缺1人，T4缺3人
	if len(metrics.Unfilled) != 2 {
		t.Fatalf("Unfilled = %+v", metrics.Unfilled)
	}
	for _, u := range metrics.Unfilled {
		switch u.TaskID {
		case "T2":
			if u.Shortage != 1 {
				t.Errorf("T2 缺口 = %d", u.Shortage)
			}
		case "T4":
			if u.Shortage != 3 || u.Assigned != 0 {
				t.Errorf("T4 缺工 = %+v", u)
			}
		default:
			t.Errorf("意外的缺工条目: %+v", u)
		}
	}
}

func TestCoverageAnalyzer_EmptyState(t *testing.T) {
	metrics := NewCoverageAnalyzer().Analyze(model.NewScenarioState(), nil, nil)

	if metrics.TotalTasks != 0 {
		t.Errorf("TotalTasks = %d", metrics.TotalTasks)
	}
	// 无所需槽位时覆盖率约定为100
	if metrics.OverallCoverage != 100 {
		t.Errorf("OverallCoverage = %f", metrics.OverallCoverage)
	}

	metrics = NewCoverageAnalyzer().Analyze(nil, nil, nil)
	if metrics.OverallCoverage != 100 {
		t.Errorf("nil状态 OverallCoverage = %f", metrics.OverallCoverage)
	}
}

func TestCoverageAnalyzer_ConflictWithoutTask(t *testing.T) {
	// 冲突任务在任务表中缺失时计入计数但不产生缺工条目
	metrics := NewCoverageAnalyzer().Analyze(model.NewScenarioState(), nil, []string{"GHOST"})

	if metrics.ConflictTasks != 1 || metrics.TotalTasks != 1 {
		t.Errorf("冲突计数 = %d", metrics.ConflictTasks)
	}
	if len(metrics.Unfilled) != 0 {
		t.Errorf("Unfilled = %+v", metrics.Unfilled)
	}
}
