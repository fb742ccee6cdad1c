package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"inboxradar/internal/api/dto"
	"inboxradar/internal/database"
	"inboxradar/internal/geo"
	jobruntime "inboxradar/internal/jobs/runtime"
	"inboxradar/internal/stats"
)

// getDashboardData rebuilds the whole dashboard view-model for the given
// date and filters. Query params: date=YYYY-MM-DD, entities=a,b, hours=09,14.
func getDashboardData(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	selectedEntities := splitParam(r.URL.Query().Get("entities"))
	selectedHours := splitParam(r.URL.Query().Get("hours"))

	feed, refs, ok := loadFeed(w, date)
	if !ok {
		return
	}

	view := stats.Process(feed, selectedEntities, selectedHours, date, refs, nil)
	if view == nil {
		writeError(w, "Failed to build dashboard", http.StatusInternalServerError)
		return
	}

	// Country annotation is display-only and must never block the data.
	for i := range view.SpamRelationships {
		if ip := view.SpamRelationships[i].IP; ip != "" && ip != "N/A" {
			view.SpamRelationships[i].Country = geo.CountryCode(ip)
		}
	}

	json.NewEncoder(w).Encode(view)
}

// getDashboardStats serves the lightweight headline block plus the date
// picker values.
func getDashboardStats(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	feed, refs, ok := loadFeed(w, date)
	if !ok {
		return
	}

	view := stats.Process(feed, nil, nil, date, refs, nil)
	if view == nil {
		writeError(w, "Failed to build dashboard", http.StatusInternalServerError)
		return
	}

	dates, err := database.GetAvailableDates()
	if err != nil {
		writeError(w, "Failed to load dates", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]any{
		"stats":          view.Stats,
		"spamStats":      view.SpamStats,
		"availableDates": dates,
		"entities":       refs,
	})
}

func loadFeed(w http.ResponseWriter, date string) (*dto.DashboardFeed, []dto.EntityRef, bool) {
	inboxActions, err := database.GetActionRecords("inbox", date)
	if err != nil {
		writeError(w, "Failed to load actions", http.StatusInternalServerError)
		return nil, nil, false
	}
	spamActions, err := database.GetActionRecords("spam", date)
	if err != nil {
		writeError(w, "Failed to load actions", http.StatusInternalServerError)
		return nil, nil, false
	}
	spamDomains, err := database.GetDomainRecords("spam", date)
	if err != nil {
		writeError(w, "Failed to load domains", http.StatusInternalServerError)
		return nil, nil, false
	}
	inboxDomains, err := database.GetDomainRecords("inbox", date)
	if err != nil {
		writeError(w, "Failed to load domains", http.StatusInternalServerError)
		return nil, nil, false
	}
	relationships, err := database.GetInboxRelationships(date)
	if err != nil {
		writeError(w, "Failed to load relationships", http.StatusInternalServerError)
		return nil, nil, false
	}

	rawRefs, err := database.GetEntityRefs()
	if err != nil {
		writeError(w, "Failed to load entities", http.StatusInternalServerError)
		return nil, nil, false
	}
	refs := make([]dto.EntityRef, 0, len(rawRefs))
	for _, ref := range rawRefs {
		refs = append(refs, dto.EntityRef{ID: ref.ID, Name: ref.Name})
	}

	feed := stats.BuildFeed(inboxActions, spamActions, spamDomains, inboxDomains, relationships, jobruntime.SharedResolver.Get)
	return feed, refs, true
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
