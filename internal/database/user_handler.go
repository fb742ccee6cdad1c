package database

import (
	"errors"

	"inboxradar/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")

func GetUserFromId(id uint) domain.User {
	var user domain.User
	DB.Where("id = ?", id).First(&user)
	return user
}

func ChangePassword(userID uint, password string) error {
	err := DB.Model(&domain.User{}).Where("ID = ?", userID).Update("password", password).Error
	return err
}

func GetPendingUsers() ([]domain.User, error) {
	var users []domain.User
	err := DB.
		Select("id", "email", "role", "created_at").
		Where("is_approved = ?", false).
		Order("created_at").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func ApproveUser(userID uint) error {
	result := DB.Model(&domain.User{}).Where("id = ?", userID).Update("is_approved", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
