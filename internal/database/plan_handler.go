package database

import (
	"errors"

	"gorm.io/gorm"

	"inboxradar/internal/domain"
)

var ErrPlanNotFound = errors.New("plan not found")

func GetPlan(categoryID string) (*domain.PlanConfig, error) {
	var plan domain.PlanConfig
	err := DB.
		Preload("Drops", func(db *gorm.DB) *gorm.DB { return db.Order("drops.position") }).
		First(&plan, "category_id = ?", categoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// SavePlan writes a plan and its drops atomically. Existing drops are
// replaced wholesale; positions are renumbered to match the incoming order.
func SavePlan(plan *domain.PlanConfig) error {
	for i := range plan.Drops {
		plan.Drops[i].Position = i
	}

	return DB.Transaction(func(tx *gorm.DB) error {
		var existing domain.PlanConfig
		err := tx.First(&existing, "category_id = ?", plan.CategoryID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(plan).Error
		case err != nil:
			return err
		}

		plan.ID = existing.ID
		if err := tx.Where("plan_config_id = ?", existing.ID).Delete(&domain.Drop{}).Error; err != nil {
			return err
		}
		for i := range plan.Drops {
			plan.Drops[i].ID = 0
			plan.Drops[i].PlanConfigID = existing.ID
		}

		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(plan).Error
	})
}

// UpdatePlanStatus flips the plan between active and stopped.
func UpdatePlanStatus(categoryID, status string) error {
	result := DB.Model(&domain.PlanConfig{}).
		Where("category_id = ?", categoryID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}
