package classify

import (
	"testing"

	"github.com/paigong/paigong/pkg/model"
)

func TestAnnotate_Flags(t *testing.T) {
	tests := []struct {
		name     string
		task     model.Task
		customer bool
		quality  bool
		latePart bool
		rework   bool
		critical bool
	}{
		{
			"无任何标记",
			model.Task{ID: "T-100", Team: "Mechanic Team 1"},
			false, false, false, false, false,
		},
		{
			"ID含CUST标记",
			model.Task{ID: "CUST-001", Team: "Mechanic Team 1"},
			true, false, false, false, false,
		},
		{
			"类型为Customer Inspection",
			model.Task{ID: "T-100", Team: "Mechanic Team 1", Type: "Customer Inspection"},
			true, false, false, false, false,
		},
		{
			"显式customer标志",
			model.Task{ID: "T-100", Team: "Mechanic Team 1", CustomerFlag: true},
			true, false, false, false, false,
		},
		{
			"类型为Quality Inspection",
			model.Task{ID: "T-100", Team: "Mechanic Team 1", Type: "Quality Inspection"},
			false, true, false, false, false,
		},
		{
			"ID含-LP标记",
			model.Task{ID: "T-100-LP", Team: "Mechanic Team 1"},
			false, false, true, false, false,
		},
		{
			"ID含-RW标记",
			model.Task{ID: "T-100-RW", Team: "Mechanic Team 1"},
			false, false, false, true, false,
		},
		{
			"类型为Critical",
			model.Task{ID: "T-100", Team: "Mechanic Team 1", Type: "Critical"},
			false, false, false, false, true,
		},
		{
			"多标记OR组合",
			model.Task{ID: "CUST-07-LP", Team: "Mechanic Team 1", CriticalFlag: true},
			true, false, true, false, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class := Annotate(&tt.task).Class
			if class.IsCustomerTask != tt.customer {
				t.Errorf("IsCustomerTask = %v", class.IsCustomerTask)
			}
			if class.IsQualityTask != tt.quality {
				t.Errorf("IsQualityTask = %v", class.IsQualityTask)
			}
			if class.IsLatePartTask != tt.latePart {
				t.Errorf("IsLatePartTask = %v", class.IsLatePartTask)
			}
			if class.IsReworkTask != tt.rework {
				t.Errorf("IsReworkTask = %v", class.IsReworkTask)
			}
			if class.IsCritical != tt.critical {
				t.Errorf("IsCritical = %v", class.IsCritical)
			}
		})
	}
}

func TestAnnotate_RequiredRole(t *testing.T) {
	tests := []struct {
		name     string
		task     model.Task
		expected model.Role
	}{
		{"普通任务按班组推断", model.Task{ID: "T-1", Team: "Mechanic Team 1"}, model.RoleMechanic},
		{"质检班组", model.Task{ID: "T-1", Team: "Quality Team"}, model.RoleQuality},
		{"客户任务要求客户检验员", model.Task{ID: "CUST-1", Team: "Mechanic Team 1"}, model.RoleCustomer},
		{"质检任务要求质检员", model.Task{ID: "T-1", Team: "Mechanic Team 1", Type: "Quality Inspection"}, model.RoleQuality},
		{"客户标记优先于质检标记", model.Task{ID: "CUST-1", Team: "Mechanic Team 1", Type: "Quality Inspection"}, model.RoleCustomer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class := Annotate(&tt.task).Class
			if class.RequiredRole != tt.expected {
				t.Errorf("RequiredRole = %v, expected %v", class.RequiredRole, tt.expected)
			}
		})
	}
}

func TestAnnotate_TeamSkillNormalization(t *testing.T) {
	tests := []struct {
		name     string
		task     model.Task
		baseTeam string
		skill    string
		key      string
	}{
		{
			"班组后缀解析为技能",
			model.Task{ID: "T-1", Team: "Mechanic Team 3 (Avionics)"},
			"Mechanic Team 3", "Avionics", "Mechanic Team 3 (Avionics)",
		},
		{
			"显式技能字段优先于后缀",
			model.Task{ID: "T-1", Team: "Mechanic Team 3 (Avionics)", Skill: "Engines"},
			"Mechanic Team 3", "Engines", "Mechanic Team 3 (Engines)",
		},
		{
			"无技能",
			model.Task{ID: "T-1", Team: "Mechanic Team 1"},
			"Mechanic Team 1", "", "Mechanic Team 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class := Annotate(&tt.task).Class
			if class.BaseTeam != tt.baseTeam {
				t.Errorf("BaseTeam = %q", class.BaseTeam)
			}
			if class.Skill != tt.skill {
				t.Errorf("Skill = %q", class.Skill)
			}
			if class.TeamSkillKey != tt.key {
				t.Errorf("TeamSkillKey = %q", class.TeamSkillKey)
			}
			if class.HasSkillRequirement() != (tt.skill != "") {
				t.Errorf("HasSkillRequirement() = %v", class.HasSkillRequirement())
			}
		})
	}
}

func TestAnnotateAll(t *testing.T) {
	tasks := []*model.Task{
		{ID: "T-1", Team: "Mechanic Team 1"},
		{ID: "CUST-2", Team: "Mechanic Team 2"},
	}

	annotated := AnnotateAll(tasks)
	if len(annotated) != 2 {
		t.Fatalf("标注数 = %d", len(annotated))
	}
	// 保持输入顺序
	if annotated[0].Task.ID != "T-1" || annotated[1].Task.ID != "CUST-2" {
		t.Error("标注顺序与输入不一致")
	}
	if !annotated[1].Class.IsCustomerTask {
		t.Error("第二个任务应被识别为客户任务")
	}
}
