package bootstrap

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"inboxradar/internal/config"
	"inboxradar/internal/database"
	"inboxradar/internal/geo"
	"inboxradar/internal/jobs/ingest"
	eventqueue "inboxradar/internal/jobs/queue/events"
	jobruntime "inboxradar/internal/jobs/runtime"
	"inboxradar/internal/support"
)

// Setup wires settings, storage and the background routines. It must run
// before the HTTP routes open.
func Setup() error {
	config.ReadSettings()

	if _, err := database.SetupDB(); err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	config.SetBetweenTime()

	geo.Open(config.GetConfig().GeoIP.DatabasePath)

	if client, err := support.GetRedisClient(); err != nil {
		log.Warn("Redis unavailable, settings stay instance-local", "error", err)
	} else {
		config.EnableRedisSynchronization(context.Background(), client)
	}

	if err := eventqueue.Init(); err != nil {
		return fmt.Errorf("failed to init ingest queue: %w", err)
	}

	// Routines

	go ingest.ThreadDispatcher()
	go jobruntime.StartDNSRefreshRoutine(context.Background())

	return nil
}
