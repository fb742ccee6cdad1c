// Package allocation distributes a plan's daily seed quota across the
// principal session profiles of a category. Shares are proportional to how
// many seed intervals each profile has active in the repo, with the
// Largest Remainder Method guaranteeing the distributed sum matches the
// quota exactly. All functions are pure and never fail: missing limit
// records count as zero, zero divisors yield zero results.
package allocation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"inboxradar/internal/domain"
	"inboxradar/internal/interval"
)

// ActiveCount resolves the limit record for a profile (category-scoped
// first, then the category-agnostic fallback) and counts the members of its
// effective in-repo range set. No record means a count of 0.
func ActiveCount(profileName, categoryID string, limits []domain.LimitRecord) int {
	limit := findLimit(profileName, categoryID, limits)
	if limit == nil {
		return 0
	}
	return interval.CountMembers(limit.EffectiveInRepo())
}

func findLimit(profileName, categoryID string, limits []domain.LimitRecord) *domain.LimitRecord {
	for i := range limits {
		if limits[i].ProfileName == profileName &&
			limits[i].CategoryID != nil && *limits[i].CategoryID == categoryID {
			return &limits[i]
		}
	}
	for i := range limits {
		if limits[i].ProfileName == profileName && limits[i].CategoryID == nil {
			return &limits[i]
		}
	}
	return nil
}

// AllocateQuota splits total into integer shares proportional to weights
// using the Largest Remainder Method. Floors are assigned first, then the
// leftover units go to the largest fractional parts; ties break by
// ascending original index (stable sort), which decides who receives the
// rounding units and is pinned by tests. A zero weight sum returns all
// zeros regardless of total.
func AllocateQuota(weights []int, total int) []int {
	shares := make([]int, len(weights))

	weightSum := 0
	for _, w := range weights {
		weightSum += w
	}
	if weightSum <= 0 {
		return shares
	}

	fractions := make([]float64, len(weights))
	assigned := 0
	for i, w := range weights {
		raw := float64(w) * float64(total) / float64(weightSum)
		floor := int(raw)
		shares[i] = floor
		fractions[i] = raw - float64(floor)
		assigned += floor
	}

	order := make([]int, len(weights))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return fractions[order[a]] > fractions[order[b]]
	})

	for i := 0; i < total-assigned && i < len(order); i++ {
		shares[order[i]]++
	}
	return shares
}

// StepPerSession is the per-drop consumption of one session, rounded half
// up. Display-level only; the step column is not required to sum exactly.
func StepPerSession(consumption, numDrops int) int {
	if numDrops <= 0 {
		return 0
	}
	step := float64(consumption) / float64(numDrops)
	return int(step + 0.5)
}

// Rotation formats seeds-connected over daily total with two decimals,
// guarding the zero divisor.
func Rotation(totalSeedsConnected, totalPerDay int) string {
	if totalPerDay == 0 {
		return "0.00"
	}
	return strconv.FormatFloat(float64(totalSeedsConnected)/float64(totalPerDay), 'f', 2, 64)
}

// DropTime returns the clock label of the drop at index i: start time plus
// i hours, wrapping at midnight. An empty start renders "--:--" and an
// unparsable one is returned as-is.
func DropTime(startTime string, index int) string {
	if startTime == "" {
		return "--:--"
	}
	parts := strings.SplitN(startTime, ":", 2)
	if len(parts) != 2 {
		return startTime
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return startTime
	}
	return fmt.Sprintf("%02d:%02d", (h+index)%24, m)
}

// RequestLabel is shown in place of a drop time when an offer category runs
// in request mode.
const RequestLabel = "REQUEST"

// SessionRow is one line of the step/session table.
type SessionRow struct {
	ProfileName  string `json:"profileName"`
	ActiveInRepo int    `json:"activeInRepo"`
	StepPerDrop  int    `json:"stepPerDrop"`
	Consumption  int    `json:"consumption"`
}

// DropRow is one scheduled drop with its display label.
type DropRow struct {
	Position int    `json:"position"`
	Label    string `json:"label"`
	Value    int    `json:"value"`
}

// PlanSummary is the recomputed summary block of a category plan: per-drop
// labels, per-session consumption, and the headline totals.
type PlanSummary struct {
	Drops []DropRow    `json:"drops"`
	Rows  []SessionRow `json:"sessions"`

	TotalPerDay         int    `json:"totalPerDay"`
	TotalSeedsConnected int    `json:"totalSeedsConnected"`
	TotalStepPerDrop    int    `json:"totalStepPerDrop"`
	TotalConsumption    int    `json:"totalConsumption"`
	Rotation            string `json:"rotation"`
}

// Summarize recomputes the full plan summary for one category: mirrors are
// dropped, active counts come from the entity's limit records, and the
// daily quota is spread with AllocateQuota. A category whose plan was never
// saved has a nil plan; it summarizes as zero drops and zero consumption.
func Summarize(category *domain.ParentCategory, plan *domain.PlanConfig, limits []domain.LimitRecord) PlanSummary {
	if plan == nil {
		plan = &domain.PlanConfig{}
	}

	summary := PlanSummary{TotalPerDay: plan.TotalPerDay()}

	requestMode := plan.Mode == "request" && category.IsOffer()
	summary.Drops = make([]DropRow, len(plan.Drops))
	for i, d := range plan.Drops {
		label := DropTime(plan.StartTime, i)
		if requestMode {
			label = RequestLabel
		}
		summary.Drops[i] = DropRow{Position: i, Label: label, Value: d.Value}
	}

	var principals []domain.SessionProfile
	for _, p := range category.Profiles {
		if !p.IsMirror {
			principals = append(principals, p)
		}
	}

	weights := make([]int, len(principals))
	for i, p := range principals {
		weights[i] = ActiveCount(p.ProfileName, category.ID, limits)
		summary.TotalSeedsConnected += weights[i]
	}

	consumptions := AllocateQuota(weights, summary.TotalPerDay)

	numDrops := len(plan.Drops)
	summary.Rows = make([]SessionRow, len(principals))
	for i, p := range principals {
		step := StepPerSession(consumptions[i], numDrops)
		summary.Rows[i] = SessionRow{
			ProfileName:  p.ProfileName,
			ActiveInRepo: weights[i],
			StepPerDrop:  step,
			Consumption:  consumptions[i],
		}
		summary.TotalStepPerDrop += step
		summary.TotalConsumption += consumptions[i]
	}

	summary.Rotation = Rotation(summary.TotalSeedsConnected, summary.TotalPerDay)
	return summary
}
