package domain

import "time"

// HistoryEntry is the audit trail written whenever an admin-facing record
// changes. The API only ever reads these; nothing in the service consumes
// them beyond listing.
type HistoryEntry struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	EntityID   string `gorm:"size:64;index"`
	EntityType string `gorm:"not null;size:32;index"` // entity, plan, limit, script, scenario
	CategoryID string `gorm:"size:64;default:''"`

	Username     string `gorm:"not null;size:255"`
	ChangeType   string `gorm:"not null;size:16;check:change_type IN ('create', 'update', 'delete')"`
	FieldChanged string `gorm:"size:128;default:''"`
	OldValue     string `gorm:"type:text;default:''"`
	NewValue     string `gorm:"type:text;default:''"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}
