// Package classify 提供任务分类：从异构来源字段派生任务的角色与匹配要求
//
// 分类只在任务进入派工流程时计算一次，结果缓存在标注任务上，
// 使用方不得在各处重复解析原始字段。
package classify

import (
	"strings"

	"github.com/paigong/paigong/pkg/model"
)

// 任务ID中的标记片段与类型标签
const (
	customerTaskMarker = "CUST" // 客户检验任务的ID标记
	latePartMarker     = "-LP"  // 晚到件任务
	reworkMarker       = "-RW"  // 返工任务

	customerInspectionType = "Customer Inspection"
	qualityInspectionType  = "Quality Inspection"
	latePartType           = "Late Part"
	reworkType             = "Rework"
	criticalType           = "Critical"
)

// Classification 任务分类结果
type Classification struct {
	IsCustomerTask bool `json:"is_customer_task"`
	IsQualityTask  bool `json:"is_quality_task"`
	IsLatePartTask bool `json:"is_late_part_task"`
	IsReworkTask   bool `json:"is_rework_task"`
	IsCritical     bool `json:"is_critical"`

	// 规范化后的匹配要求
	RequiredRole model.Role `json:"required_role"`
	BaseTeam     string     `json:"base_team"`
	Skill        string     `json:"skill,omitempty"`
	TeamSkillKey string     `json:"team_skill_key"`
}

// Annotated 携带分类结果的任务
type Annotated struct {
	Task  *model.Task
	Class Classification
}

// Annotate 对任务做一次性分类标注
func Annotate(t *model.Task) Annotated {
	class := Classification{
		IsCustomerTask: t.CustomerFlag ||
			t.Type == customerInspectionType ||
			strings.Contains(t.ID, customerTaskMarker),
		IsQualityTask: t.QualityFlag ||
			t.Type == qualityInspectionType,
		IsLatePartTask: t.LatePartFlag ||
			t.Type == latePartType ||
			strings.Contains(t.ID, latePartMarker),
		IsReworkTask: t.ReworkFlag ||
			t.Type == reworkType ||
			strings.Contains(t.ID, reworkMarker),
		IsCritical: t.CriticalFlag || t.Type == criticalType,
	}

	// 任务的班组字符串可能自带技能后缀，按容量标签同一规则解析
	label := model.ParseTeamSkillLabel(t.Team)
	class.BaseTeam = label.BaseTeam

	// 显式技能字段优先于班组后缀
	class.Skill = t.Skill
	if class.Skill == "" {
		class.Skill = label.Skill
	}
	class.TeamSkillKey = model.MakeTeamSkillKey(class.BaseTeam, class.Skill)

	// 角色要求优先级：客户检验 > 质检 > 按班组名推断
	switch {
	case class.IsCustomerTask:
		class.RequiredRole = model.RoleCustomer
	case class.IsQualityTask:
		class.RequiredRole = model.RoleQuality
	default:
		class.RequiredRole = model.ClassifyRole(class.BaseTeam)
	}

	return Annotated{Task: t, Class: class}
}

// AnnotateAll 标注任务序列，保持输入顺序
func AnnotateAll(tasks []*model.Task) []Annotated {
	annotated := make([]Annotated, len(tasks))
	for i, t := range tasks {
		annotated[i] = Annotate(t)
	}
	return annotated
}

// HasSkillRequirement 任务是否带技能要求
func (c Classification) HasSkillRequirement() bool {
	return c.Skill != ""
}
