package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"inboxradar/internal/allocation"
	"inboxradar/internal/api/dto"
	"inboxradar/internal/database"
	"inboxradar/internal/domain"

	"gorm.io/gorm"
)

func getPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := database.GetPlan(r.PathValue("categoryId"))
	if errors.Is(err, database.ErrPlanNotFound) {
		writeError(w, "Plan not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, "Failed to load plan", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(plan)
}

func savePlan(w http.ResponseWriter, r *http.Request) {
	entityID := r.PathValue("id")
	categoryID := r.PathValue("categoryId")

	var payload dto.PlanPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if payload.Status != "" && payload.Status != "active" && payload.Status != "stopped" {
		writeError(w, "Invalid plan status", http.StatusBadRequest)
		return
	}
	if payload.Mode != "" && payload.Mode != "auto" && payload.Mode != "request" {
		writeError(w, "Invalid plan mode", http.StatusBadRequest)
		return
	}

	plan := planFromPayload(categoryID, payload)

	if err := database.SavePlan(plan); err != nil {
		writeError(w, "Failed to save plan", http.StatusInternalServerError)
		return
	}

	database.RecordHistory(domain.HistoryEntry{
		EntityID:   entityID,
		EntityType: "plan",
		CategoryID: categoryID,
		Username:   requestUsername(r),
		ChangeType: "update",
		NewValue:   strconv.Itoa(plan.TotalPerDay()),
	})

	json.NewEncoder(w).Encode(plan)
}

func updatePlanStatus(w http.ResponseWriter, r *http.Request) {
	entityID := r.PathValue("id")
	categoryID := r.PathValue("categoryId")

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if payload.Status != "active" && payload.Status != "stopped" {
		writeError(w, "Invalid plan status", http.StatusBadRequest)
		return
	}

	err := database.UpdatePlanStatus(categoryID, payload.Status)
	if errors.Is(err, database.ErrPlanNotFound) {
		writeError(w, "Plan not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, "Failed to update plan status", http.StatusInternalServerError)
		return
	}

	database.RecordHistory(domain.HistoryEntry{
		EntityID:     entityID,
		EntityType:   "plan",
		CategoryID:   categoryID,
		Username:     requestUsername(r),
		ChangeType:   "update",
		FieldChanged: "status",
		NewValue:     payload.Status,
	})

	json.NewEncoder(w).Encode(map[string]string{"message": "Plan status updated"})
}

// getPlanSummary recomputes the consumption table of a category from its
// current plan and limit records. Nothing is cached; the summary always
// reflects the stored state.
func getPlanSummary(w http.ResponseWriter, r *http.Request) {
	entityID := r.PathValue("id")
	categoryID := r.PathValue("categoryId")

	category, err := database.GetCategory(categoryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, "Category not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, "Failed to load category", http.StatusInternalServerError)
		return
	}

	limits, err := database.GetCategoryLimits(entityID, categoryID)
	if err != nil {
		writeError(w, "Failed to load limits", http.StatusInternalServerError)
		return
	}

	summary := allocation.Summarize(category, category.Plan, limits)
	json.NewEncoder(w).Encode(summary)
}

// planFromPayload applies the save-time defaults and resolves the drop
// list: explicit values first, then DropCount pads with empty slots or
// truncates from the end.
func planFromPayload(categoryID string, payload dto.PlanPayload) *domain.PlanConfig {
	plan := &domain.PlanConfig{
		CategoryID: categoryID,
		StartTime:  payload.StartTime,
		Status:     payload.Status,
		Mode:       payload.Mode,
		ScriptName: payload.ScriptName,
		Scenario:   payload.Scenario,
	}
	if plan.StartTime == "" {
		plan.StartTime = "09:00"
	}
	if plan.Status == "" {
		plan.Status = "active"
	}
	if plan.Mode == "" {
		plan.Mode = "auto"
	}
	for i, value := range payload.Drops {
		plan.Drops = append(plan.Drops, domain.Drop{Position: i, Value: value})
	}
	if payload.DropCount > 0 {
		plan.Resize(payload.DropCount)
	}
	return plan
}
