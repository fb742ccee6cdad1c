package domain

import "time"

type Script struct {
	ID          string `gorm:"primaryKey;size:64"`
	Name        string `gorm:"not null;uniqueIndex;size:255"`
	Description string `gorm:"type:text;default:''"`

	Scenarios []Scenario `gorm:"foreignKey:ScriptID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type Scenario struct {
	ID          string `gorm:"primaryKey;size:64"`
	ScriptID    string `gorm:"not null;size:64;index"`
	Name        string `gorm:"not null;size:255"`
	Description string `gorm:"type:text;default:''"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
