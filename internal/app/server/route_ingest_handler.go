package server

import (
	"encoding/json"
	"net/http"

	"inboxradar/internal/api/dto"
	eventqueue "inboxradar/internal/jobs/queue/events"
)

// ingestEvents accepts a reporting batch and enqueues it for background
// persistence. The caller gets a 202 as soon as the batch is durable in
// the queue; nothing is written to the database on this path.
func ingestEvents(w http.ResponseWriter, r *http.Request) {
	var batch dto.IngestBatch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if batch.Size() == 0 {
		writeError(w, "Batch contains no records", http.StatusBadRequest)
		return
	}

	if eventqueue.PublicEventQueue == nil {
		writeError(w, "Ingest queue unavailable", http.StatusServiceUnavailable)
		return
	}

	if err := eventqueue.PublicEventQueue.AddToQueue(&batch); err != nil {
		writeError(w, "Failed to enqueue batch", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]int{"queued": batch.Size()})
}
