package pool

import (
	"reflect"
	"testing"

	"github.com/paigong/paigong/pkg/model"
)

func workerIDs(p *WorkerPool) []string {
	ids := make([]string, 0, p.Size())
	for _, w := range p.Workers() {
		ids = append(ids, w.ID)
	}
	return ids
}

func TestBuild_Expansion(t *testing.T) {
	capacities := map[string]int{
		"Mechanic Team 1": 3,
		"Quality Team":    1,
	}

	p, diags := Build(capacities, TeamFilterAll, SkillFilterAll)
	if len(diags) != 0 {
		t.Fatalf("不应有诊断: %v", diags)
	}
	if p.Size() != 4 {
		t.Fatalf("Size() = %d, expected 4", p.Size())
	}

	// 容量键排序后按位置展开
	expected := []string{
		"Mechanic Team 1_1",
		"Mechanic Team 1_2",
		"Mechanic Team 1_3",
		"Quality Team_1",
	}
	if !reflect.DeepEqual(workerIDs(p), expected) {
		t.Errorf("展开顺序 = %v", workerIDs(p))
	}

	w := p.Get("Quality Team_1")
	if w == nil || w.Role != model.RoleQuality {
		t.Errorf("Quality Team_1 角色错误: %+v", w)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	capacities := map[string]int{
		"Mechanic Team 2 (Engines)":  2,
		"Mechanic Team 1 (Avionics)": 2,
		"Customer Inspection Team":   1,
		"Quality Team":               2,
	}

	first, _ := Build(capacities, TeamFilterAll, SkillFilterAll)
	for i := 0; i < 10; i++ {
		again, _ := Build(capacities, TeamFilterAll, SkillFilterAll)
		if !reflect.DeepEqual(workerIDs(first), workerIDs(again)) {
			t.Fatalf("第%d次展开顺序不一致", i)
		}
	}
}

func TestBuild_CapacityEdgeCases(t *testing.T) {
	capacities := map[string]int{
		"Mechanic Team 1": 2,
		"Mechanic Team 2": 0,
		"Mechanic Team 3": -1,
	}

	p, diags := Build(capacities, TeamFilterAll, SkillFilterAll)

	if p.Size() != 2 {
		t.Errorf("Size() = %d, 零容量与负容量条目都不应展开", p.Size())
	}
	// 零容量静默跳过，负容量记入诊断
	if len(diags) != 1 {
		t.Fatalf("诊断数 = %d", len(diags))
	}
	if diags[0].TeamSkillKey != "Mechanic Team 3" || diags[0].Capacity != -1 {
		t.Errorf("诊断内容 = %+v", diags[0])
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	p, diags := Build(nil, TeamFilterAll, SkillFilterAll)
	if p.Size() != 0 || len(diags) != 0 {
		t.Error("空容量表应返回空池而非错误")
	}
}

func TestBuild_TeamFilters(t *testing.T) {
	capacities := map[string]int{
		"Mechanic Team 1 (Avionics)": 1,
		"Mechanic Team 2 (Engines)":  1,
		"Quality Team":               1,
		"Customer Inspection Team":   1,
	}

	tests := []struct {
		name       string
		teamFilter string
		expected   []string
	}{
		{
			"all保留全部",
			TeamFilterAll,
			[]string{"Customer Inspection Team_1", "Mechanic Team 1 (Avionics)_1", "Mechanic Team 2 (Engines)_1", "Quality Team_1"},
		},
		{
			"空过滤器等同all",
			"",
			[]string{"Customer Inspection Team_1", "Mechanic Team 1 (Avionics)_1", "Mechanic Team 2 (Engines)_1", "Quality Team_1"},
		},
		{
			"all mechanics只留机械师",
			TeamFilterAllMechanics,
			[]string{"Mechanic Team 1 (Avionics)_1", "Mechanic Team 2 (Engines)_1"},
		},
		{
			"all quality只留质检",
			TeamFilterAllQuality,
			[]string{"Quality Team_1"},
		},
		{
			"all customer只留客户检验",
			TeamFilterAllCustomer,
			[]string{"Customer Inspection Team_1"},
		},
		{
			"精确班组过滤",
			"Mechanic Team 1 (Avionics)",
			[]string{"Mechanic Team 1 (Avionics)_1"},
		},
		{
			"基础班组名匹配带后缀条目",
			"Mechanic Team 1",
			[]string{"Mechanic Team 1 (Avionics)_1"},
		},
		{
			"无匹配返回空池",
			"Mechanic Team 9",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := Build(capacities, tt.teamFilter, SkillFilterAll)
			ids := workerIDs(p)
			if len(ids) == 0 {
				ids = nil
			}
			if !reflect.DeepEqual(ids, tt.expected) {
				t.Errorf("结果 = %v, expected %v", ids, tt.expected)
			}
		})
	}
}

func TestBuild_SkillFilter(t *testing.T) {
	capacities := map[string]int{
		"Mechanic Team 1 (Avionics)": 1,
		"Mechanic Team 2 (Engines)":  1,
		"Mechanic Team 3":            1,
	}

	p, _ := Build(capacities, TeamFilterAll, "Avionics")
	if p.Size() != 1 || p.Workers()[0].Skill != "Avionics" {
		t.Errorf("技能过滤结果 = %v", workerIDs(p))
	}

	p, _ = Build(capacities, TeamFilterAll, SkillFilterAll)
	if p.Size() != 3 {
		t.Errorf("all技能应保留全部, Size() = %d", p.Size())
	}
}

func TestBuild_Pure(t *testing.T) {
	capacities := map[string]int{"Mechanic Team 1": 2}
	Build(capacities, TeamFilterAll, SkillFilterAll)

	if capacities["Mechanic Team 1"] != 2 {
		t.Error("Build 不得修改输入容量表")
	}
}
