// Package pool 提供工人池展开：把班组容量表变成逐个可派的工人单位
package pool

import (
	"sort"
	"strings"

	"github.com/paigong/paigong/pkg/model"
)

// 聚合过滤器取值
const (
	TeamFilterAll          = "all"
	TeamFilterAllMechanics = "all mechanics"
	TeamFilterAllQuality   = "all quality"
	TeamFilterAllCustomer  = "all customer"
	SkillFilterAll         = "all"
)

// Diagnostic 被跳过的容量条目诊断
type Diagnostic struct {
	TeamSkillKey string `json:"team_skill_key"`
	Capacity     int    `json:"capacity"`
	Reason       string `json:"reason"`
}

// WorkerPool 一次派工运行使用的工人池
// 迭代顺序确定：容量键排序后按位置展开
type WorkerPool struct {
	workers []*model.Worker
	byID    map[string]*model.Worker
}

// Build 按过滤条件展开容量表
// 纯函数：不修改 capacities，也不做任何 I/O
// 无匹配条目时返回空池而非错误；负容量条目被跳过并记入诊断
func Build(capacities map[string]int, teamFilter, skillFilter string) (*WorkerPool, []Diagnostic) {
	p := &WorkerPool{byID: make(map[string]*model.Worker)}
	var diags []Diagnostic

	// 稳定的展开顺序
	keys := make([]string, 0, len(capacities))
	for key := range capacities {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		capacity := capacities[key]
		if capacity < 0 {
			diags = append(diags, Diagnostic{
				TeamSkillKey: key,
				Capacity:     capacity,
				Reason:       "容量不能为负数",
			})
			continue
		}
		if capacity == 0 {
			continue
		}

		label := model.ParseTeamSkillLabel(key)
		if !matchesTeamFilter(label, teamFilter) || !matchesSkillFilter(label, skillFilter) {
			continue
		}

		for position := 1; position <= capacity; position++ {
			w := model.NewWorker(key, position)
			p.workers = append(p.workers, w)
			p.byID[w.ID] = w
		}
	}

	return p, diags
}

// Workers 返回池内工人（迭代顺序即匹配扫描顺序）
func (p *WorkerPool) Workers() []*model.Worker {
	return p.workers
}

// Get 按ID查找工人
func (p *WorkerPool) Get(id string) *model.Worker {
	return p.byID[id]
}

// Size 返回池内工人数
func (p *WorkerPool) Size() int {
	return len(p.workers)
}

// matchesTeamFilter 检查标签是否满足班组过滤器
// 精确过滤器本身也可能带技能后缀，按同一标签规则解析
func matchesTeamFilter(label model.TeamSkillLabel, filter string) bool {
	switch strings.ToLower(strings.TrimSpace(filter)) {
	case "", TeamFilterAll:
		return true
	case TeamFilterAllMechanics:
		return label.Role() == model.RoleMechanic
	case TeamFilterAllQuality:
		return label.Role() == model.RoleQuality
	case TeamFilterAllCustomer:
		return label.Role() == model.RoleCustomer
	}

	want := model.ParseTeamSkillLabel(filter)
	if want.BaseTeam != label.BaseTeam {
		return false
	}
	return want.Skill == "" || want.Skill == label.Skill
}

// matchesSkillFilter 检查标签是否满足技能过滤器
func matchesSkillFilter(label model.TeamSkillLabel, filter string) bool {
	trimmed := strings.TrimSpace(filter)
	if trimmed == "" || strings.EqualFold(trimmed, SkillFilterAll) {
		return true
	}
	return label.Skill == trimmed
}
