package database

import (
	"gorm.io/gorm/clause"

	"inboxradar/internal/domain"
)

// GetEntityLimits loads every limit record of an entity. Both category
// scoped and entity wide records come back; the allocation pass picks the
// right one per profile.
func GetEntityLimits(entityID string) ([]domain.LimitRecord, error) {
	var limits []domain.LimitRecord
	err := DB.Where("entity_id = ?", entityID).
		Order("id").
		Find(&limits).Error
	if err != nil {
		return nil, err
	}
	return limits, nil
}

func GetCategoryLimits(entityID, categoryID string) ([]domain.LimitRecord, error) {
	var limits []domain.LimitRecord
	err := DB.Where("entity_id = ? AND (category_id = ? OR category_id IS NULL)", entityID, categoryID).
		Order("id").
		Find(&limits).Error
	if err != nil {
		return nil, err
	}
	return limits, nil
}

// UpsertLimits replaces limit records keyed by id, refreshing every range
// set column and the cached in-repo interval.
func UpsertLimits(limits []domain.LimitRecord) error {
	if len(limits) == 0 {
		return nil
	}
	return DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"profile_name", "category_id", "limit_active_session", "intervals_in_repo",
			"intervals_quality", "intervals_paused_search", "intervals_toxic",
			"intervals_other", "total_paused",
		}),
	}).Create(&limits).Error
}

func DeleteLimit(id string) error {
	return DB.Delete(&domain.LimitRecord{}, "id = ?", id).Error
}
