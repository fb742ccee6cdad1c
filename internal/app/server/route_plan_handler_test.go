package server

import (
	"testing"

	"inboxradar/internal/api/dto"
)

func TestPlanFromPayloadDefaults(t *testing.T) {
	plan := planFromPayload("cat_1", dto.PlanPayload{Drops: []int{10, 20}})

	if plan.StartTime != "09:00" || plan.Status != "active" || plan.Mode != "auto" {
		t.Fatalf("defaults = %s/%s/%s, want 09:00/active/auto",
			plan.StartTime, plan.Status, plan.Mode)
	}
	if len(plan.Drops) != 2 || plan.Drops[1].Position != 1 || plan.Drops[1].Value != 20 {
		t.Fatalf("drops = %+v, want positions 0,1 with values 10,20", plan.Drops)
	}
}

func TestPlanFromPayloadDropCount(t *testing.T) {
	t.Run("pads with empty slots", func(t *testing.T) {
		plan := planFromPayload("cat_1", dto.PlanPayload{Drops: []int{10}, DropCount: 3})
		if len(plan.Drops) != 3 {
			t.Fatalf("DropCount 3 produced %d drops, want 3", len(plan.Drops))
		}
		if plan.Drops[0].Value != 10 || plan.Drops[2].Value != 0 || plan.Drops[2].Position != 2 {
			t.Fatalf("drops = %+v, want value 10 kept and zero-value slot at position 2", plan.Drops)
		}
	})

	t.Run("truncates from the end", func(t *testing.T) {
		plan := planFromPayload("cat_1", dto.PlanPayload{Drops: []int{10, 20, 30}, DropCount: 2})
		if len(plan.Drops) != 2 || plan.Drops[1].Value != 20 {
			t.Fatalf("drops = %+v, want the first two values", plan.Drops)
		}
	})

	t.Run("zero leaves explicit drops alone", func(t *testing.T) {
		plan := planFromPayload("cat_1", dto.PlanPayload{Drops: []int{10, 20}})
		if len(plan.Drops) != 2 {
			t.Fatalf("unset DropCount changed drops: %+v", plan.Drops)
		}
	})
}
