package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"inboxradar/internal/auth"
)

const distDir = "./static/frontend/browser"

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func ServeFrontend(port int) error {
	if abs, err := filepath.Abs(distDir); err == nil {
		log.Debugf("➡️  Serving static from: %s", abs)
	} else {
		log.Warnf("couldn’t resolve %q: %v", distDir, err)
	}

	mux := http.NewServeMux()
	fs := http.FileServer(http.Dir(distDir))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fp := filepath.Join(distDir, filepath.Clean(r.URL.Path))
		if info, err := os.Stat(fp); err == nil && !info.IsDir() {
			fs.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(distDir, "index.csr.html"))
	})

	addr := fmt.Sprintf(":%d", port)
	log.Infof("Starting frontend static server on port %s", addr)
	return http.ListenAndServe(addr, mux)
}

func OpenRoutes(port int, serveStatic bool) error {

	router := http.NewServeMux()
	router.HandleFunc("GET /version", getVersion)
	router.HandleFunc("POST /register", registerUser)
	router.HandleFunc("POST /login", loginUser)
	router.Handle("GET /checkLogin", auth.RequireAuth(http.HandlerFunc(checkLogin)))
	router.Handle("POST /changePassword", auth.RequireAuth(http.HandlerFunc(changePassword)))
	router.Handle("GET /users/pending", auth.IsAdmin(http.HandlerFunc(getPendingUsers)))
	router.Handle("POST /users/{id}/approve", auth.IsAdmin(http.HandlerFunc(approveUser)))
	router.Handle("POST /saveSettings", auth.IsAdmin(http.HandlerFunc(saveSettings)))
	router.Handle("GET /global/settings", auth.IsAdmin(http.HandlerFunc(getGlobalSettings)))

	router.Handle("GET /entities", auth.RequireAuth(http.HandlerFunc(getEntities)))
	router.Handle("POST /entities", auth.RequireAuth(http.HandlerFunc(createEntity)))
	router.Handle("GET /entities/{id}", auth.RequireAuth(http.HandlerFunc(getEntity)))
	router.Handle("PUT /entities/{id}", auth.RequireAuth(http.HandlerFunc(updateEntity)))
	router.Handle("DELETE /entities/{id}", auth.IsAdmin(http.HandlerFunc(deleteEntity)))

	router.Handle("GET /entities/{id}/limits", auth.RequireAuth(http.HandlerFunc(getEntityLimits)))
	router.Handle("PUT /entities/{id}/limits", auth.RequireAuth(http.HandlerFunc(saveEntityLimits)))

	router.Handle("GET /entities/{id}/categories/{categoryId}/plan", auth.RequireAuth(http.HandlerFunc(getPlan)))
	router.Handle("PUT /entities/{id}/categories/{categoryId}/plan", auth.RequireAuth(http.HandlerFunc(savePlan)))
	router.Handle("POST /entities/{id}/categories/{categoryId}/plan/status", auth.RequireAuth(http.HandlerFunc(updatePlanStatus)))
	router.Handle("GET /entities/{id}/categories/{categoryId}/plan/summary", auth.RequireAuth(http.HandlerFunc(getPlanSummary)))

	router.Handle("GET /dashboard/data", auth.RequireAuth(http.HandlerFunc(getDashboardData)))
	router.Handle("GET /dashboard/stats", auth.RequireAuth(http.HandlerFunc(getDashboardStats)))

	router.Handle("POST /ingest/events", auth.RequireAuth(http.HandlerFunc(ingestEvents)))

	router.Handle("GET /scripts", auth.RequireAuth(http.HandlerFunc(getScripts)))
	router.Handle("POST /scripts", auth.RequireAuth(http.HandlerFunc(createScript)))
	router.Handle("PUT /scripts/{id}", auth.RequireAuth(http.HandlerFunc(updateScript)))
	router.Handle("DELETE /scripts/{id}", auth.RequireAuth(http.HandlerFunc(deleteScript)))
	router.Handle("POST /scripts/{id}/scenarios", auth.RequireAuth(http.HandlerFunc(createScenario)))
	router.Handle("DELETE /scenarios/{id}", auth.RequireAuth(http.HandlerFunc(deleteScenario)))

	router.Handle("GET /history", auth.RequireAuth(http.HandlerFunc(getHistory)))
	router.Handle("POST /dns/refresh", auth.IsAdmin(http.HandlerFunc(refreshDNS)))

	// ---------------
	// FRONTEND
	// ---------------
	if serveStatic {
		fs := http.FileServer(http.Dir(distDir))

		router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				http.NotFound(w, r)
			}
			path := filepath.Join(distDir, filepath.Clean(r.URL.Path))
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				fs.ServeHTTP(w, r)
				return
			}
			http.ServeFile(w, r, filepath.Join(distDir, "index.csr.html"))
		})

		log.Debugf("Frontend assets served from %s on the same port", distDir)
	}

	log.Debug("Routes opened")

	server := http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: enableCORS(router),
	}

	log.Infof("Starting inboxradar backend on port :%d", port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server failed: %w", err)
	}
	return nil
}
