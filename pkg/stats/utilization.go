// Package stats 提供派工统计分析功能
package stats

import (
	"math"
	"sort"

	"github.com/paigong/paigong/pkg/model"
)

// UtilizationMetrics 工人负载指标
type UtilizationMetrics struct {
	TotalWorkers      int     `json:"total_workers"`       // 至少承接一个任务的工人数
	AvgTasksPerWorker float64 `json:"avg_tasks_per_worker"`
	AvgHoursPerWorker float64 `json:"avg_hours_per_worker"`
	MaxHours          float64 `json:"max_hours"`
	MinHours          float64 `json:"min_hours"`
	WorkloadGini      float64 `json:"workload_gini"` // 0=完全均衡, 1=完全失衡
	WorkloadStdDev    float64 `json:"workload_std_dev"`

	WorkerStats []WorkerStat `json:"worker_stats"`
}

// WorkerStat 单个工人的负载统计
type WorkerStat struct {
	WorkerID    string  `json:"worker_id"`
	DisplayName string  `json:"display_name"`
	Team        string  `json:"team"`
	TaskCount   int     `json:"task_count"`
	TotalHours  float64 `json:"total_hours"`
	Deviation   float64 `json:"deviation"` // 相对人均工时的偏差百分比
}

// UtilizationAnalyzer 负载分析器
type UtilizationAnalyzer struct{}

// NewUtilizationAnalyzer 创建负载分析器
func NewUtilizationAnalyzer() *UtilizationAnalyzer {
	return &UtilizationAnalyzer{}
}

// Analyze 分析工人日程的负载分布
func (u *UtilizationAnalyzer) Analyze(schedules map[string]*model.WorkerSchedule) *UtilizationMetrics {
	metrics := &UtilizationMetrics{}
	if len(schedules) == 0 {
		return metrics
	}

	workerIDs := make([]string, 0, len(schedules))
	for id := range schedules {
		workerIDs = append(workerIDs, id)
	}
	sort.Strings(workerIDs)

	hours := make([]float64, 0, len(workerIDs))
	totalTasks := 0
	for _, id := range workerIDs {
		ws := schedules[id]
		var workerHours float64
		for _, entry := range ws.Tasks {
			workerHours += entry.Duration.Hours()
		}
		hours = append(hours, workerHours)
		totalTasks += len(ws.Tasks)

		metrics.WorkerStats = append(metrics.WorkerStats, WorkerStat{
			WorkerID:    ws.WorkerID,
			DisplayName: ws.DisplayName,
			Team:        ws.Team,
			TaskCount:   len(ws.Tasks),
			TotalHours:  workerHours,
		})
	}

	metrics.TotalWorkers = len(workerIDs)
	metrics.AvgTasksPerWorker = float64(totalTasks) / float64(len(workerIDs))

	avg := mean(hours)
	metrics.AvgHoursPerWorker = avg
	metrics.MaxHours, metrics.MinHours = valueRange(hours)
	metrics.WorkloadStdDev = math.Sqrt(variance(hours, avg))
	metrics.WorkloadGini = gini(hours)

	for i := range metrics.WorkerStats {
		if avg > 0 {
			metrics.WorkerStats[i].Deviation = (metrics.WorkerStats[i].TotalHours - avg) / avg * 100
		}
	}

	return metrics
}

// mean 计算均值
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// variance 计算方差
func variance(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		diff := v - mean
		sum += diff * diff
	}
	return sum / float64(len(values))
}

// valueRange 计算极值
func valueRange(values []float64) (max, min float64) {
	if len(values) == 0 {
		return 0, 0
	}
	max, min = values[0], values[0]
	for _, v := range values {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return max, min
}

// gini 计算基尼系数
func gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	if sum == 0 {
		return 0
	}

	g := 0.0
	for i, v := range sorted {
		g += (2*float64(i+1) - float64(n) - 1) * v
	}

	g = g / (float64(n) * sum)
	return math.Max(0, math.Min(1, g))
}
