package allocation

import (
	"testing"

	"inboxradar/internal/domain"
)

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

func TestAllocateQuotaExactness(t *testing.T) {
	cases := []struct {
		weights []int
		total   int
	}{
		{[]int{1, 1, 1}, 10},
		{[]int{3, 2, 5}, 100},
		{[]int{7, 11, 13, 17}, 999},
		{[]int{1}, 42},
		{[]int{50, 1}, 3},
	}
	for _, c := range cases {
		got := AllocateQuota(c.weights, c.total)
		if sum(got) != c.total {
			t.Fatalf("AllocateQuota(%v, %d) = %v, sums to %d", c.weights, c.total, got, sum(got))
		}
	}
}

func TestAllocateQuotaTieBreaking(t *testing.T) {
	// 10/3 leaves identical fractions everywhere; the single leftover unit
	// must land on the first index.
	got := AllocateQuota([]int{1, 1, 1}, 10)
	want := []int{4, 3, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("AllocateQuota([1 1 1], 10) = %v, want %v", got, want)
		}
	}
}

func TestAllocateQuotaZeroWeights(t *testing.T) {
	got := AllocateQuota([]int{0, 0, 0}, 500)
	for i, v := range got {
		if v != 0 {
			t.Fatalf("AllocateQuota with zero weights assigned %d at index %d", v, i)
		}
	}
}

func TestAllocateQuotaMonotonicity(t *testing.T) {
	base := AllocateQuota([]int{2, 3, 5}, 50)
	bumped := AllocateQuota([]int{4, 3, 5}, 50)
	if bumped[0] < base[0] {
		t.Fatalf("increasing weight 0 decreased its share: %d -> %d", base[0], bumped[0])
	}
}

func TestStepPerSession(t *testing.T) {
	cases := []struct {
		consumption int
		drops       int
		want        int
	}{
		{10, 4, 3}, // 2.5 rounds up
		{10, 5, 2},
		{0, 3, 0},
		{7, 0, 0},
	}
	for _, c := range cases {
		if got := StepPerSession(c.consumption, c.drops); got != c.want {
			t.Fatalf("StepPerSession(%d, %d) = %d, want %d", c.consumption, c.drops, got, c.want)
		}
	}
}

func TestRotation(t *testing.T) {
	if got := Rotation(150, 60); got != "2.50" {
		t.Fatalf("Rotation(150, 60) = %q, want \"2.50\"", got)
	}
	if got := Rotation(100, 0); got != "0.00" {
		t.Fatalf("Rotation(100, 0) = %q, want \"0.00\"", got)
	}
}

func TestDropTime(t *testing.T) {
	cases := []struct {
		start string
		index int
		want  string
	}{
		{"09:00", 0, "09:00"},
		{"09:30", 5, "14:30"},
		{"22:15", 4, "02:15"},
		{"", 2, "--:--"},
		{"bogus", 1, "bogus"},
	}
	for _, c := range cases {
		if got := DropTime(c.start, c.index); got != c.want {
			t.Fatalf("DropTime(%q, %d) = %q, want %q", c.start, c.index, got, c.want)
		}
	}
}

func TestActiveCount(t *testing.T) {
	catA := "cat_a"
	limits := []domain.LimitRecord{
		{ProfileName: "pr1", CategoryID: &catA, IntervalsInRepo: "1-10,15"},
		{ProfileName: "pr1", LimitActiveSession: "1-50"},
		{ProfileName: "pr2", LimitActiveSession: "1-20", IntervalsQuality: "5-8"},
	}

	t.Run("category scoped record wins", func(t *testing.T) {
		if got := ActiveCount("pr1", "cat_a", limits); got != 11 {
			t.Fatalf("ActiveCount = %d, want 11", got)
		}
	})

	t.Run("falls back to category-agnostic record", func(t *testing.T) {
		if got := ActiveCount("pr1", "cat_other", limits); got != 50 {
			t.Fatalf("ActiveCount = %d, want 50", got)
		}
	})

	t.Run("computes complement when cache empty", func(t *testing.T) {
		// 1-20 minus 5-8 leaves 1-4 and 9-20: 16 members.
		if got := ActiveCount("pr2", "cat_a", limits); got != 16 {
			t.Fatalf("ActiveCount = %d, want 16", got)
		}
	})

	t.Run("missing record", func(t *testing.T) {
		if got := ActiveCount("ghost", "cat_a", limits); got != 0 {
			t.Fatalf("ActiveCount = %d, want 0", got)
		}
	})
}

func TestSummarize(t *testing.T) {
	category := &domain.ParentCategory{
		ID:   "cat_offer",
		Name: "Offer Warmup REPORTING",
		Profiles: []domain.SessionProfile{
			{ProfileName: "pr1"},
			{ProfileName: "pr2"},
			{ProfileName: "pr2_mirror", IsMirror: true},
		},
	}
	plan := &domain.PlanConfig{
		StartTime: "09:00",
		Status:    "active",
		Mode:      "auto",
		Drops:     []domain.Drop{{Value: 10}, {Value: 10}, {Value: 10}},
	}
	limits := []domain.LimitRecord{
		{ProfileName: "pr1", IntervalsInRepo: "1-20"},
		{ProfileName: "pr2", IntervalsInRepo: "1-10"},
	}

	summary := Summarize(category, plan, limits)

	if summary.TotalPerDay != 30 {
		t.Fatalf("TotalPerDay = %d, want 30", summary.TotalPerDay)
	}
	if summary.TotalSeedsConnected != 30 {
		t.Fatalf("TotalSeedsConnected = %d, want 30", summary.TotalSeedsConnected)
	}
	if len(summary.Rows) != 2 {
		t.Fatalf("mirror profile not excluded: %d rows", len(summary.Rows))
	}
	if summary.TotalConsumption != 30 {
		t.Fatalf("TotalConsumption = %d, want 30", summary.TotalConsumption)
	}
	if summary.Rows[0].Consumption != 20 || summary.Rows[1].Consumption != 10 {
		t.Fatalf("consumptions = %d/%d, want 20/10",
			summary.Rows[0].Consumption, summary.Rows[1].Consumption)
	}
	if summary.Rotation != "1.00" {
		t.Fatalf("Rotation = %q, want \"1.00\"", summary.Rotation)
	}
	if summary.Drops[0].Label != "09:00" || summary.Drops[2].Label != "11:00" {
		t.Fatalf("drop labels = %q/%q, want 09:00/11:00",
			summary.Drops[0].Label, summary.Drops[2].Label)
	}

	plan.Mode = "request"
	summary = Summarize(category, plan, limits)
	for _, d := range summary.Drops {
		if d.Label != RequestLabel {
			t.Fatalf("request-mode offer drop labelled %q, want %q", d.Label, RequestLabel)
		}
	}
}

func TestSummarizeNilPlan(t *testing.T) {
	category := &domain.ParentCategory{
		ID:   "cat_ip1",
		Name: "IP 1 REPORTING",
		Profiles: []domain.SessionProfile{
			{ProfileName: "pr1"},
		},
	}
	limits := []domain.LimitRecord{
		{ProfileName: "pr1", IntervalsInRepo: "1-20"},
	}

	summary := Summarize(category, nil, limits)

	if summary.TotalPerDay != 0 {
		t.Fatalf("TotalPerDay = %d, want 0", summary.TotalPerDay)
	}
	if len(summary.Drops) != 0 {
		t.Fatalf("nil plan produced %d drops, want 0", len(summary.Drops))
	}
	if len(summary.Rows) != 1 || summary.Rows[0].ActiveInRepo != 20 {
		t.Fatalf("rows = %+v, want one row with 20 active", summary.Rows)
	}
	if summary.Rows[0].Consumption != 0 || summary.TotalConsumption != 0 {
		t.Fatalf("nil plan allocated consumption: %+v", summary.Rows)
	}
	if summary.Rotation != "0.00" {
		t.Fatalf("Rotation = %q, want \"0.00\"", summary.Rotation)
	}
}
