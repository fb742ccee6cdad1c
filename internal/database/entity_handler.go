package database

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inboxradar/internal/domain"
)

var ErrEntityNotFound = errors.New("entity not found")

// GetEntities loads every entity with its categories, profiles and plans
// preloaded, ordered by id for stable dashboards.
func GetEntities() ([]domain.Entity, error) {
	var entities []domain.Entity
	err := DB.
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("parent_categories.id") }).
		Preload("Categories.Profiles", func(db *gorm.DB) *gorm.DB { return db.Order("session_profiles.id") }).
		Preload("Categories.Plan").
		Preload("Categories.Plan.Drops", func(db *gorm.DB) *gorm.DB { return db.Order("drops.position") }).
		Order("id").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return entities, nil
}

func GetEntity(id string) (*domain.Entity, error) {
	var entity domain.Entity
	err := DB.
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("parent_categories.id") }).
		Preload("Categories.Profiles", func(db *gorm.DB) *gorm.DB { return db.Order("session_profiles.id") }).
		Preload("Categories.Plan").
		Preload("Categories.Plan.Drops", func(db *gorm.DB) *gorm.DB { return db.Order("drops.position") }).
		Preload("Limits").
		First(&entity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEntityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func CreateEntity(entity *domain.Entity) error {
	return DB.Create(entity).Error
}

// UpdateEntity saves the mutable fields of an entity. The id never changes;
// sessions reference it by name.
func UpdateEntity(entity *domain.Entity) error {
	result := DB.Model(&domain.Entity{}).
		Where("id = ?", entity.ID).
		Select("name", "status", "contact_person", "email", "notes", "bot_token", "bot_chat_id").
		Updates(entity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntityNotFound
	}
	return nil
}

func DeleteEntity(id string) error {
	result := DB.Delete(&domain.Entity{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntityNotFound
	}
	return nil
}

func GetCategory(categoryID string) (*domain.ParentCategory, error) {
	var category domain.ParentCategory
	err := DB.
		Preload("Profiles", func(db *gorm.DB) *gorm.DB { return db.Order("session_profiles.id") }).
		Preload("Plan").
		Preload("Plan.Drops", func(db *gorm.DB) *gorm.DB { return db.Order("drops.position") }).
		First(&category, "id = ?", categoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gorm.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// UpsertProfiles replaces the session profiles of a category in one pass.
func UpsertProfiles(profiles []domain.SessionProfile) error {
	if len(profiles) == 0 {
		return nil
	}
	return DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"profile_name", "type", "main_ip", "is_mirror", "mirror_number",
			"session", "success_count", "error_count",
		}),
	}).Create(&profiles).Error
}

// GetEntityRefs gives the compact id/name list the aggregation pass uses to
// resolve display names.
func GetEntityRefs() ([]struct{ ID, Name string }, error) {
	var refs []struct{ ID, Name string }
	err := DB.Model(&domain.Entity{}).
		Select("id", "name").
		Order("id").
		Scan(&refs).Error
	if err != nil {
		return nil, err
	}
	return refs, nil
}
