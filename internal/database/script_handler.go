package database

import (
	"errors"

	"gorm.io/gorm"

	"inboxradar/internal/domain"
)

var ErrScriptNotFound = errors.New("script not found")

func GetScripts() ([]domain.Script, error) {
	var scripts []domain.Script
	err := DB.
		Preload("Scenarios", func(db *gorm.DB) *gorm.DB { return db.Order("scenarios.id") }).
		Order("name").
		Find(&scripts).Error
	if err != nil {
		return nil, err
	}
	return scripts, nil
}

func CreateScript(script *domain.Script) error {
	return DB.Create(script).Error
}

func UpdateScript(script *domain.Script) error {
	result := DB.Model(&domain.Script{}).
		Where("id = ?", script.ID).
		Select("name", "description").
		Updates(script)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrScriptNotFound
	}
	return nil
}

func DeleteScript(id string) error {
	result := DB.Delete(&domain.Script{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrScriptNotFound
	}
	return nil
}

func CreateScenario(scenario *domain.Scenario) error {
	return DB.Create(scenario).Error
}

func DeleteScenario(id string) error {
	result := DB.Delete(&domain.Scenario{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrScriptNotFound
	}
	return nil
}
