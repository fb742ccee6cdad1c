package server

import (
	"encoding/json"
	"net/http"

	"inboxradar/internal/app/version"
)

func getVersion(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(version.Get())
}
