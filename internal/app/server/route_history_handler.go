package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"inboxradar/internal/config"
	"inboxradar/internal/database"
	jobruntime "inboxradar/internal/jobs/runtime"
)

// getHistory serves one page of the audit trail. Query params: entity
// narrows to a single entity, page starts at 1.
func getHistory(w http.ResponseWriter, r *http.Request) {
	entityID := r.URL.Query().Get("entity")

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, "Invalid page", http.StatusBadRequest)
			return
		}
		page = parsed
	}

	pageSize := config.GetConfig().Dashboard.HistoryPageSize
	entries, total, err := database.GetHistory(entityID, page, pageSize)
	if err != nil {
		writeError(w, "Failed to load history", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]any{
		"entries":  entries,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// refreshDNS drops the memoised lookups and kicks off a full re-resolve in
// the background. The response does not wait for the resolve to finish.
func refreshDNS(w http.ResponseWriter, r *http.Request) {
	jobruntime.SharedResolver.Clear()
	go jobruntime.RunDNSRefresh(context.Background(), "manual")

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refresh started"})
}
