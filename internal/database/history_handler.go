package database

import (
	"github.com/charmbracelet/log"

	"inboxradar/internal/domain"
)

const historyDefaultPageSize = 50

// RecordHistory appends an audit entry. Failures are logged, not returned;
// a broken audit trail must never block the change itself.
func RecordHistory(entry domain.HistoryEntry) {
	if DB == nil {
		return
	}
	if err := DB.Create(&entry).Error; err != nil {
		log.Error("Failed to record history entry", "entityType", entry.EntityType, "error", err)
	}
}

// GetHistory returns one page of the audit trail, newest first. entityID
// empty means all entities.
func GetHistory(entityID string, page, pageSize int) ([]domain.HistoryEntry, int64, error) {
	if pageSize <= 0 {
		pageSize = historyDefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	query := DB.Model(&domain.HistoryEntry{})
	if entityID != "" {
		query = query.Where("entity_id = ?", entityID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []domain.HistoryEntry
	err := query.
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
