package domain

import "testing"

func TestPlanTotalPerDay(t *testing.T) {
	plan := PlanConfig{Drops: []Drop{{Value: 10}, {Value: 0}, {Value: 5}}}
	if got := plan.TotalPerDay(); got != 15 {
		t.Fatalf("TotalPerDay returned %d, want 15", got)
	}

	empty := PlanConfig{}
	if got := empty.TotalPerDay(); got != 0 {
		t.Fatalf("TotalPerDay on empty plan returned %d, want 0", got)
	}
}

func TestPlanResize(t *testing.T) {
	plan := PlanConfig{ID: 7, Drops: []Drop{{Position: 0, Value: 3}}}

	plan.Resize(3)
	if len(plan.Drops) != 3 {
		t.Fatalf("Resize(3) left %d drops, want 3", len(plan.Drops))
	}
	if plan.Drops[0].Value != 3 {
		t.Fatalf("Resize dropped existing value, got %d, want 3", plan.Drops[0].Value)
	}
	if plan.Drops[2].Position != 2 || plan.Drops[2].Value != 0 {
		t.Fatalf("Resize padded with %+v, want zero-value drop at position 2", plan.Drops[2])
	}
	if plan.Drops[1].PlanConfigID != 7 {
		t.Fatalf("padded drop has PlanConfigID %d, want 7", plan.Drops[1].PlanConfigID)
	}

	plan.Resize(1)
	if len(plan.Drops) != 1 || plan.Drops[0].Value != 3 {
		t.Fatalf("Resize(1) returned %+v, want the original first drop", plan.Drops)
	}

	plan.Resize(-1)
	if len(plan.Drops) != 1 {
		t.Fatalf("Resize(-1) changed length to %d, want 1", len(plan.Drops))
	}
}
