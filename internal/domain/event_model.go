package domain

import (
	"gorm.io/gorm"

	"inboxradar/internal/support"
)

// ActionRecord is one classified mailbox action reported by a session.
// Timestamps are normalized on write; Date and Hour are derived columns so
// the feed queries stay on indexes instead of string prefix scans.
type ActionRecord struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	Category string `gorm:"not null;size:8;index;check:category IN ('spam', 'inbox')"`

	Session string `gorm:"not null;size:128;index"`
	Profile string `gorm:"not null;size:128"`

	ActionType    string `gorm:"size:64;default:''"`
	ArchiveAction string `gorm:"size:64;default:''"`
	Count         int    `gorm:"not null;default:1"`

	Timestamp string `gorm:"not null;size:16"`
	Date      string `gorm:"not null;size:10;index:idx_action_slot"`
	Hour      string `gorm:"not null;size:2;index:idx_action_slot"`
}

func (a *ActionRecord) BeforeCreate(_ *gorm.DB) error {
	a.normalize()
	return nil
}

func (a *ActionRecord) normalize() {
	a.Timestamp = support.NormalizeTimestamp(a.Timestamp)
	a.Date = support.TimestampDate(a.Timestamp)
	a.Hour = support.TimestampHour(a.Timestamp)
	if a.Count <= 0 {
		a.Count = 1
	}
}

// DomainRecord is one sender/domain observation from a spam or inbox
// message. IP is filled opportunistically by the DNS enrichment pass and
// stays "" until then.
type DomainRecord struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	Category string `gorm:"not null;size:8;index;check:category IN ('spam', 'inbox')"`

	Session string `gorm:"not null;size:128;index"`
	Profile string `gorm:"not null;size:128"`
	Sender  string `gorm:"not null;size:255;index"`
	Domain  string `gorm:"not null;size:255;index"`
	IP      string `gorm:"size:45;default:''"`
	Count   int    `gorm:"not null;default:1"`

	Timestamp string `gorm:"not null;size:16"`
	Date      string `gorm:"not null;size:10;index:idx_domain_slot"`
	Hour      string `gorm:"not null;size:2;index:idx_domain_slot"`
}

func (d *DomainRecord) BeforeCreate(_ *gorm.DB) error {
	d.Timestamp = support.NormalizeTimestamp(d.Timestamp)
	d.Date = support.TimestampDate(d.Timestamp)
	d.Hour = support.TimestampHour(d.Timestamp)
	if d.Count <= 0 {
		d.Count = 1
	}
	return nil
}

// InboxRelationship is a pre-aggregated from-name/domain pair coming from
// the inbox side of the pipelines. Unlike spam relationships it carries no
// IP and is consumed as-is.
type InboxRelationship struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	Session  string `gorm:"not null;size:128;index"`
	FromName string `gorm:"not null;size:255"`
	Domain   string `gorm:"not null;size:255"`
	Count    int    `gorm:"not null;default:1"`

	Timestamp string `gorm:"not null;size:16"`
	Date      string `gorm:"not null;size:10;index:idx_rel_slot"`
	Hour      string `gorm:"not null;size:2;index:idx_rel_slot"`
}

func (r *InboxRelationship) BeforeCreate(_ *gorm.DB) error {
	r.Timestamp = support.NormalizeTimestamp(r.Timestamp)
	r.Date = support.TimestampDate(r.Timestamp)
	r.Hour = support.TimestampHour(r.Timestamp)
	if r.Count <= 0 {
		r.Count = 1
	}
	return nil
}
