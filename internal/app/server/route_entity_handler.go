package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"inboxradar/internal/api/dto"
	"inboxradar/internal/auth"
	"inboxradar/internal/database"
	"inboxradar/internal/domain"
	"inboxradar/internal/interval"
)

// requestUsername resolves the acting user's email for the audit trail.
func requestUsername(r *http.Request) string {
	userID, err := auth.GetUserIDFromRequest(r)
	if err != nil {
		return "unknown"
	}
	user := database.GetUserFromId(userID)
	if user.Email == "" {
		return "unknown"
	}
	return user.Email
}

func getEntities(w http.ResponseWriter, r *http.Request) {
	entities, err := database.GetEntities()
	if err != nil {
		writeError(w, "Failed to load entities", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(entities)
}

func getEntity(w http.ResponseWriter, r *http.Request) {
	entity, err := database.GetEntity(r.PathValue("id"))
	if errors.Is(err, database.ErrEntityNotFound) {
		writeError(w, "Entity not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, "Failed to load entity", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(entity)
}

func createEntity(w http.ResponseWriter, r *http.Request) {
	var payload dto.EntityPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if payload.ID == "" || payload.Name == "" {
		writeError(w, "Entity id and name are required", http.StatusBadRequest)
		return
	}

	entity := entityFromPayload(payload)
	if entity.Status == "" {
		entity.Status = "active"
	}

	if err := database.CreateEntity(entity); err != nil {
		writeError(w, "Failed to create entity", http.StatusInternalServerError)
		return
	}

	database.RecordHistory(domain.HistoryEntry{
		EntityID:   entity.ID,
		EntityType: "entity",
		Username:   requestUsername(r),
		ChangeType: "create",
		NewValue:   entity.Name,
	})

	writeJSON(w, http.StatusCreated, entity)
}

func updateEntity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	previous, err := database.GetEntity(id)
	if errors.Is(err, database.ErrEntityNotFound) {
		writeError(w, "Entity not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, "Failed to load entity", http.StatusInternalServerError)
		return
	}

	var payload dto.EntityPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	payload.ID = id
	entity := entityFromPayload(payload)
	if err := database.UpdateEntity(entity); err != nil {
		writeError(w, "Failed to update entity", http.StatusInternalServerError)
		return
	}

	recordEntityDiff(previous, entity, requestUsername(r))

	json.NewEncoder(w).Encode(map[string]string{"message": "Entity updated"})
}

func deleteEntity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := database.DeleteEntity(id)
	if errors.Is(err, database.ErrEntityNotFound) {
		writeError(w, "Entity not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, "Failed to delete entity", http.StatusInternalServerError)
		return
	}

	database.RecordHistory(domain.HistoryEntry{
		EntityID:   id,
		EntityType: "entity",
		Username:   requestUsername(r),
		ChangeType: "delete",
	})

	json.NewEncoder(w).Encode(map[string]string{"message": "Entity deleted"})
}

func getEntityLimits(w http.ResponseWriter, r *http.Request) {
	limits, err := database.GetEntityLimits(r.PathValue("id"))
	if err != nil {
		writeError(w, "Failed to load limits", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(limits)
}

func saveEntityLimits(w http.ResponseWriter, r *http.Request) {
	entityID := r.PathValue("id")

	var payloads []dto.LimitPayload
	if err := json.NewDecoder(r.Body).Decode(&payloads); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	limits := make([]domain.LimitRecord, 0, len(payloads))
	for _, p := range payloads {
		if p.ID == "" || p.ProfileName == "" {
			writeError(w, "Limit id and profile name are required", http.StatusBadRequest)
			return
		}

		record := domain.LimitRecord{
			ID:                    p.ID,
			EntityID:              entityID,
			ProfileName:           p.ProfileName,
			CategoryID:            p.CategoryID,
			LimitActiveSession:    p.LimitActiveSession,
			IntervalsInRepo:       p.IntervalsInRepo,
			IntervalsQuality:      p.IntervalsQuality,
			IntervalsPausedSearch: p.IntervalsPausedSearch,
			IntervalsToxic:        p.IntervalsToxic,
			IntervalsOther:        p.IntervalsOther,
			TotalPaused:           p.TotalPaused,
		}

		// Refresh the cached in-repo set whenever the client did not send
		// a precomputed one.
		if record.IntervalsInRepo == "" && record.LimitActiveSession != "" {
			record.IntervalsInRepo = interval.Complement(record.LimitActiveSession, []string{
				record.IntervalsQuality,
				record.IntervalsPausedSearch,
				record.IntervalsToxic,
				record.IntervalsOther,
			})
		}

		limits = append(limits, record)
	}

	if err := database.UpsertLimits(limits); err != nil {
		writeError(w, "Failed to save limits", http.StatusInternalServerError)
		return
	}

	database.RecordHistory(domain.HistoryEntry{
		EntityID:   entityID,
		EntityType: "limit",
		Username:   requestUsername(r),
		ChangeType: "update",
	})

	json.NewEncoder(w).Encode(map[string]string{"message": "Limits saved"})
}

func entityFromPayload(payload dto.EntityPayload) *domain.Entity {
	entity := &domain.Entity{
		ID:            payload.ID,
		Name:          payload.Name,
		Status:        payload.Status,
		ContactPerson: payload.ContactPerson,
		Email:         payload.Email,
		Notes:         payload.Notes,
		BotToken:      payload.BotToken,
		BotChatID:     payload.BotChatID,
	}

	for _, c := range payload.Categories {
		category := domain.ParentCategory{
			ID:       c.ID,
			EntityID: payload.ID,
			Name:     c.Name,
		}
		for _, p := range c.Profiles {
			profileType := p.Type
			if profileType == "" {
				profileType = "other"
			}
			category.Profiles = append(category.Profiles, domain.SessionProfile{
				ID:           p.ID,
				CategoryID:   c.ID,
				ProfileName:  p.ProfileName,
				Type:         profileType,
				MainIP:       p.MainIP,
				IsMirror:     p.IsMirror,
				MirrorNumber: p.MirrorNumber,
			})
		}
		entity.Categories = append(entity.Categories, category)
	}

	return entity
}

// recordEntityDiff writes one audit entry per changed scalar field.
func recordEntityDiff(previous, next *domain.Entity, username string) {
	fields := []struct {
		name     string
		old, new string
	}{
		{"name", previous.Name, next.Name},
		{"status", previous.Status, next.Status},
		{"contact_person", previous.ContactPerson, next.ContactPerson},
		{"email", previous.Email, next.Email},
		{"notes", previous.Notes, next.Notes},
	}

	for _, f := range fields {
		if f.old == f.new {
			continue
		}
		database.RecordHistory(domain.HistoryEntry{
			EntityID:     previous.ID,
			EntityType:   "entity",
			Username:     username,
			ChangeType:   "update",
			FieldChanged: f.name,
			OldValue:     f.old,
			NewValue:     f.new,
		})
	}
}
