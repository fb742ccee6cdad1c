package domain

import (
	"inboxradar/internal/interval"
)

// LimitRecord holds the range-set strings describing which seed intervals
// of a session profile are usable. CategoryID nil means the record applies
// to every category of the profile.
type LimitRecord struct {
	ID          string  `gorm:"primaryKey;size:64"`
	EntityID    string  `gorm:"not null;size:64;index:idx_limit_lookup"`
	ProfileName string  `gorm:"not null;size:255;index:idx_limit_lookup"`
	CategoryID  *string `gorm:"size:64;index"`

	// Range-set strings ("5-10,15" / "NO"). LimitActiveSession is the total
	// universe, the four Intervals* fields are exclusion reasons, and
	// IntervalsInRepo caches the complement of their union.
	LimitActiveSession    string `gorm:"size:512;default:''"`
	IntervalsInRepo       string `gorm:"size:512;default:''"`
	IntervalsQuality      string `gorm:"size:512;default:''"`
	IntervalsPausedSearch string `gorm:"size:512;default:''"`
	IntervalsToxic        string `gorm:"size:512;default:''"`
	IntervalsOther        string `gorm:"size:512;default:''"`

	TotalPaused int `gorm:"not null;default:0"`
}

// EffectiveInRepo returns the cached in-repo range set, computing the
// complement on the fly when the cache is empty.
func (l *LimitRecord) EffectiveInRepo() string {
	if l.IntervalsInRepo != "" {
		return l.IntervalsInRepo
	}
	return interval.Complement(l.LimitActiveSession, []string{
		l.IntervalsQuality,
		l.IntervalsPausedSearch,
		l.IntervalsToxic,
		l.IntervalsOther,
	})
}
