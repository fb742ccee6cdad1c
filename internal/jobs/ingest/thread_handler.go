// Package ingest drains the redis event queue into Postgres with a worker
// pool sized from config or from the queue backlog.
package ingest

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"inboxradar/internal/api/dto"
	"inboxradar/internal/config"
	"inboxradar/internal/database"
	"inboxradar/internal/domain"
	eventqueue "inboxradar/internal/jobs/queue/events"
)

var (
	currentThreads atomic.Uint32
	stopChannel    = make(chan struct{})
)

const (
	dispatchInterval = 15 * time.Second
	requeueDelay     = 5 * time.Second
	batchesPerThread = 50
	maxAutoThreads   = 16
)

// ThreadDispatcher keeps the worker count in line with config, or with the
// backlog when dynamic threads are enabled. Runs until the process exits.
func ThreadDispatcher() {
	for {
		cfg := config.GetConfig()

		var targetThreads uint32
		if cfg.Ingest.DynamicThreads {
			targetThreads = getAutoThreads()
		} else {
			targetThreads = cfg.Ingest.Threads
		}
		if targetThreads == 0 {
			targetThreads = 1
		}

		for currentThreads.Load() < targetThreads {
			go work()
			currentThreads.Add(1)
		}

		for currentThreads.Load() > targetThreads {
			stopChannel <- struct{}{}
			currentThreads.Add(^uint32(0)) // Decrement by 1
		}

		log.Debug("Ingest threads", "active", currentThreads.Load())
		time.Sleep(dispatchInterval)
	}
}

func getAutoThreads() uint32 {
	backlog, err := eventqueue.PublicEventQueue.GetBatchCount()
	if err != nil {
		log.Error("Failed to get ingest backlog", "error", err)
		return 1
	}

	instances, err := eventqueue.PublicEventQueue.GetActiveInstances()
	if err != nil {
		log.Error("Failed to get active instances", "error", err)
		instances = 1
	}
	if instances == 0 {
		instances = 1
	}

	perInstance := (backlog + int64(instances) - 1) / int64(instances)
	threads := perInstance/batchesPerThread + 1
	if threads > maxAutoThreads {
		threads = maxAutoThreads
	}
	return uint32(threads)
}

func work() {
	ctx := context.Background()

	for {
		select {
		case <-stopChannel:
			return
		default:
		}

		id, batch, err := eventqueue.PublicEventQueue.GetNextBatchContext(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error("Failed to pop ingest batch", "error", err)
			time.Sleep(requeueDelay)
			continue
		}

		if err := storeBatch(batch); err != nil {
			log.Error("Failed to store ingest batch", "batch", id, "error", err)
			if reqErr := eventqueue.PublicEventQueue.RequeueBatch(id, batch, requeueDelay); reqErr != nil {
				log.Error("Failed to requeue ingest batch", "batch", id, "error", reqErr)
			}
		}
	}
}

// storeBatch converts the raw payload into domain records and writes them.
// Timestamp normalization happens in the model hooks.
func storeBatch(batch *dto.IngestBatch) error {
	actions := make([]domain.ActionRecord, 0, len(batch.Actions))
	for _, a := range batch.Actions {
		if a.Category != "spam" && a.Category != "inbox" {
			continue
		}
		actions = append(actions, domain.ActionRecord{
			Category:      a.Category,
			Session:       a.Session,
			Profile:       a.Profile,
			ActionType:    a.ActionType,
			ArchiveAction: a.ArchiveAction,
			Count:         a.Count,
			Timestamp:     a.Timestamp,
		})
	}

	domains := make([]domain.DomainRecord, 0, len(batch.Domains))
	for _, d := range batch.Domains {
		if d.Category != "spam" && d.Category != "inbox" {
			continue
		}
		domains = append(domains, domain.DomainRecord{
			Category:  d.Category,
			Session:   d.Session,
			Profile:   d.Profile,
			Sender:    d.Sender,
			Domain:    d.Domain,
			Count:     d.Count,
			Timestamp: d.Timestamp,
		})
	}

	relationships := make([]domain.InboxRelationship, 0, len(batch.Relationships))
	for _, r := range batch.Relationships {
		relationships = append(relationships, domain.InboxRelationship{
			Session:   r.Session,
			FromName:  r.FromName,
			Domain:    r.Domain,
			Count:     r.Count,
			Timestamp: r.Timestamp,
		})
	}

	if _, err := database.InsertActionRecords(actions); err != nil {
		return err
	}
	if _, err := database.InsertDomainRecords(domains); err != nil {
		return err
	}
	if _, err := database.InsertInboxRelationships(relationships); err != nil {
		return err
	}
	return nil
}
