package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"inboxradar/internal/api/dto"
	"inboxradar/internal/database"
	"inboxradar/internal/domain"
)

func getScripts(w http.ResponseWriter, r *http.Request) {
	scripts, err := database.GetScripts()
	if err != nil {
		writeError(w, "Failed to load scripts", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(scripts)
}

func createScript(w http.ResponseWriter, r *http.Request) {
	var payload dto.ScriptPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.ID == "" || payload.Name == "" {
		writeError(w, "Script id and name are required", http.StatusBadRequest)
		return
	}

	script := domain.Script{
		ID:          payload.ID,
		Name:        payload.Name,
		Description: payload.Description,
	}
	if err := database.CreateScript(&script); err != nil {
		writeError(w, "Failed to create script", http.StatusInternalServerError)
		return
	}

	database.RecordHistory(domain.HistoryEntry{
		EntityType: "script",
		Username:   requestUsername(r),
		ChangeType: "create",
		NewValue:   script.Name,
	})

	writeJSON(w, http.StatusCreated, script)
}

func updateScript(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var payload dto.ScriptPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Name == "" {
		writeError(w, "Script name is required", http.StatusBadRequest)
		return
	}

	script := domain.Script{
		ID:          id,
		Name:        payload.Name,
		Description: payload.Description,
	}
	if err := database.UpdateScript(&script); err != nil {
		if errors.Is(err, database.ErrScriptNotFound) {
			writeError(w, "Script not found", http.StatusNotFound)
			return
		}
		writeError(w, "Failed to update script", http.StatusInternalServerError)
		return
	}

	database.RecordHistory(domain.HistoryEntry{
		EntityType: "script",
		Username:   requestUsername(r),
		ChangeType: "update",
		NewValue:   script.Name,
	})

	json.NewEncoder(w).Encode(script)
}

func deleteScript(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := database.DeleteScript(id); err != nil {
		if errors.Is(err, database.ErrScriptNotFound) {
			writeError(w, "Script not found", http.StatusNotFound)
			return
		}
		writeError(w, "Failed to delete script", http.StatusInternalServerError)
		return
	}

	database.RecordHistory(domain.HistoryEntry{
		EntityType: "script",
		Username:   requestUsername(r),
		ChangeType: "delete",
		OldValue:   id,
	})

	w.WriteHeader(http.StatusNoContent)
}

func createScenario(w http.ResponseWriter, r *http.Request) {
	scriptID := r.PathValue("id")

	var payload dto.ScenarioPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.ID == "" || payload.Name == "" {
		writeError(w, "Scenario id and name are required", http.StatusBadRequest)
		return
	}

	scenario := domain.Scenario{
		ID:          payload.ID,
		ScriptID:    scriptID,
		Name:        payload.Name,
		Description: payload.Description,
	}
	if err := database.CreateScenario(&scenario); err != nil {
		writeError(w, "Failed to create scenario", http.StatusInternalServerError)
		return
	}

	database.RecordHistory(domain.HistoryEntry{
		EntityType: "scenario",
		Username:   requestUsername(r),
		ChangeType: "create",
		NewValue:   scenario.Name,
	})

	writeJSON(w, http.StatusCreated, scenario)
}

func deleteScenario(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := database.DeleteScenario(id); err != nil {
		if errors.Is(err, database.ErrScriptNotFound) {
			writeError(w, "Scenario not found", http.StatusNotFound)
			return
		}
		writeError(w, "Failed to delete scenario", http.StatusInternalServerError)
		return
	}

	database.RecordHistory(domain.HistoryEntry{
		EntityType: "scenario",
		Username:   requestUsername(r),
		ChangeType: "delete",
		OldValue:   id,
	})

	w.WriteHeader(http.StatusNoContent)
}
