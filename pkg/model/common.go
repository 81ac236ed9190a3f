// Package model 定义派工引擎的核心数据模型
package model

import (
	"fmt"
	"strings"
	"time"
)

// Role 工人角色（粗粒度分类）
type Role string

const (
	RoleMechanic Role = "mechanic" // 机械师
	RoleQuality  Role = "quality"  // 质检员
	RoleCustomer Role = "customer" // 客户检验员
)

// ClassifyRole 根据班组名称推断角色
// 匹配优先级：customer > quality > 默认 mechanic
func ClassifyRole(baseTeam string) Role {
	lower := strings.ToLower(baseTeam)
	if strings.Contains(lower, "customer") {
		return RoleCustomer
	}
	if strings.Contains(lower, "quality") {
		return RoleQuality
	}
	return RoleMechanic
}

// TeamSkillLabel 班组-技能复合标签
// 例如 "Mechanic Team 3 (Avionics)" 表示班组 "Mechanic Team 3" 的 Avionics 技能组
type TeamSkillLabel struct {
	Key      string `json:"key"`       // 原始标签
	BaseTeam string `json:"base_team"` // 去除技能后缀的班组名
	Skill    string `json:"skill"`     // 括号内的技能编码，空表示不限技能
}

// ParseTeamSkillLabel 解析班组-技能标签
// 仅当括号后缀位于标签末尾时才视为技能编码
func ParseTeamSkillLabel(key string) TeamSkillLabel {
	label := TeamSkillLabel{Key: key, BaseTeam: strings.TrimSpace(key)}

	trimmed := strings.TrimSpace(key)
	if !strings.HasSuffix(trimmed, ")") {
		return label
	}
	open := strings.LastIndex(trimmed, "(")
	if open <= 0 {
		return label
	}

	base := strings.TrimSpace(trimmed[:open])
	skill := strings.TrimSpace(trimmed[open+1 : len(trimmed)-1])
	if base == "" || skill == "" {
		return label
	}

	label.BaseTeam = base
	label.Skill = skill
	return label
}

// Role 返回标签对应班组的角色
func (l TeamSkillLabel) Role() Role {
	return ClassifyRole(l.BaseTeam)
}

// MakeTeamSkillKey 由班组名和技能编码组合出标签
func MakeTeamSkillKey(team, skill string) string {
	if skill == "" {
		return team
	}
	return fmt.Sprintf("%s (%s)", team, skill)
}

// TimeRange 时间范围
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration 返回时间范围的持续时间
func (tr TimeRange) Duration() time.Duration {
	return tr.End.Sub(tr.Start)
}

// Overlaps 检查两个时间范围是否重叠（半开区间 [Start, End)）
func (tr TimeRange) Overlaps(other TimeRange) bool {
	return tr.Start.Before(other.End) && other.Start.Before(tr.End)
}

// Contains 检查时间范围是否包含某个时间点
func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.Start) && t.Before(tr.End)
}

// IsValid 检查时间范围是否合法（结束晚于开始）
func (tr TimeRange) IsValid() bool {
	return tr.End.After(tr.Start)
}
