package domain

import (
	"strings"
	"time"
)

// Entity is one client account running the reporting pipelines. IDs are the
// natural slugs used across feeds and session names (e.g. "ent_cmh1").
type Entity struct {
	ID            string `gorm:"primaryKey;size:64"`
	Name          string `gorm:"not null;size:255"`
	Status        string `gorm:"not null;default:'active';check:status IN ('active', 'inactive')"`
	ContactPerson string `gorm:"size:255;default:''"`
	Email         string `gorm:"size:255;default:''"`
	Notes         string `gorm:"type:text;default:''"`

	// Telegram relay for report delivery, optional.
	BotToken  string `gorm:"size:128;default:''" json:"-"`
	BotChatID string `gorm:"size:64;default:''"`

	Categories []ParentCategory `gorm:"constraint:OnDelete:CASCADE"`
	Limits     []LimitRecord    `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// DisplayName prefers the stored name and falls back to the upper-cased
// slug remainder for entities only known by id.
func (e *Entity) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	if strings.HasPrefix(e.ID, "ent_") {
		return strings.ToUpper(strings.TrimPrefix(e.ID, "ent_"))
	}
	return e.ID
}

// ParentCategory groups the session profiles of one reporting flavor of an
// entity (e.g. "IP 1 REPORTING", "Offer Warmup REPORTING").
type ParentCategory struct {
	ID       string `gorm:"primaryKey;size:64"`
	EntityID string `gorm:"not null;size:64;index"`
	Name     string `gorm:"not null;size:255"`

	Profiles []SessionProfile `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	Plan     *PlanConfig      `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

// IsOffer reports whether the category participates in request-mode drop
// labeling. The name match is deliberately loose.
func (c *ParentCategory) IsOffer() bool {
	return strings.Contains(strings.ToLower(c.Name), "offer")
}

// SessionProfile is one mailbox session inside a category. Mirrors shadow a
// principal profile and are excluded from all consumption math.
type SessionProfile struct {
	ID          string `gorm:"primaryKey;size:64"`
	CategoryID  string `gorm:"not null;size:64;index"`
	ProfileName string `gorm:"not null;size:255;index"`
	Type        string `gorm:"not null;default:'other';check:type IN ('ip1', 'offer', 'other')"`

	MainIP       string `gorm:"size:45;default:''"`
	IsMirror     bool   `gorm:"not null;default:false"`
	MirrorNumber *int

	SessionCount int `gorm:"not null;default:0"`
	SuccessCount int `gorm:"not null;default:0"`
	ErrorCount   int `gorm:"not null;default:0"`
}
