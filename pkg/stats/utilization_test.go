package stats

import (
	"math"
	"testing"
	"time"

	"github.com/paigong/paigong/pkg/model"
)

func scheduleWithHours(workerID string, hours ...float64) *model.WorkerSchedule {
	ws := &model.WorkerSchedule{WorkerID: workerID, DisplayName: workerID}
	for _, h := range hours {
		ws.Tasks = append(ws.Tasks, model.ScheduleEntry{
			Duration: time.Duration(h * float64(time.Hour)),
		})
	}
	return ws
}

func TestUtilizationAnalyzer_Analyze(t *testing.T) {
	schedules := map[string]*model.WorkerSchedule{
		"A_1": scheduleWithHours("A_1", 4, 4), // 8h
		"A_2": scheduleWithHours("A_2", 2),    // 2h
		"B_1": scheduleWithHours("B_1", 2),    // 2h
	}

	metrics := NewUtilizationAnalyzer().Analyze(schedules)

	if metrics.TotalWorkers != 3 {
		t.Errorf("TotalWorkers = %d", metrics.TotalWorkers)
	}
	if math.Abs(metrics.AvgHoursPerWorker-4) > 0.001 {
		t.Errorf("AvgHoursPerWorker = %f", metrics.AvgHoursPerWorker)
	}
	if metrics.MaxHours != 8 || metrics.MinHours != 2 {
		t.Errorf("极值 = max:%f min:%f", metrics.MaxHours, metrics.MinHours)
	}
	if math.Abs(metrics.AvgTasksPerWorker-4.0/3.0) > 0.001 {
		t.Errorf("AvgTasksPerWorker = %f", metrics.AvgTasksPerWorker)
	}

	// 工人统计按ID排序
	if metrics.WorkerStats[0].WorkerID != "A_1" {
		t.Errorf("第一个工人 = %q", metrics.WorkerStats[0].WorkerID)
	}
	// A_1 工时 8h，人均 4h，偏差 +100%
	if math.Abs(metrics.WorkerStats[0].Deviation-100) > 0.001 {
		t.Errorf("A_1 Deviation = %f", metrics.WorkerStats[0].Deviation)
	}
}

func TestUtilizationAnalyzer_Empty(t *testing.T) {
	metrics := NewUtilizationAnalyzer().Analyze(nil)
	if metrics.TotalWorkers != 0 || metrics.WorkloadGini != 0 {
		t.Errorf("空输入指标 = %+v", metrics)
	}
}

func TestGini(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
		delta    float64
	}{
		{"完全均衡", []float64{4, 4, 4, 4}, 0, 0.001},
		{"全零", []float64{0, 0, 0}, 0, 0.001},
		{"单人", []float64{8}, 0, 0.001},
		{"一人独占", []float64{0, 0, 0, 12}, 0.75, 0.001},
		{"中度失衡", []float64{2, 4, 6, 8}, 0.25, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if g := gini(tt.values); math.Abs(g-tt.expected) > tt.delta {
				t.Errorf("gini(%v) = %f, expected %f", tt.values, g, tt.expected)
			}
		})
	}
}
