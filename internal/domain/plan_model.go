package domain

// PlanConfig is the drop schedule of one category. Drops are kept ordered
// by Position; resizing pads with zero-value drops or truncates from the
// end, independent of how many sessions the category has.
type PlanConfig struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	CategoryID string `gorm:"not null;size:64;uniqueIndex"`

	StartTime string `gorm:"size:5;default:'09:00'"` // HH:MM, drop i runs at start + i hours
	Status    string `gorm:"not null;default:'active';check:status IN ('active', 'stopped')"`
	Mode      string `gorm:"not null;default:'auto';check:mode IN ('auto', 'request')"`

	ScriptName string `gorm:"size:255;default:''"`
	Scenario   string `gorm:"size:255;default:''"`

	Drops []Drop `gorm:"foreignKey:PlanConfigID;constraint:OnDelete:CASCADE"`
}

// TotalPerDay sums the seeds assigned across all drops.
func (p *PlanConfig) TotalPerDay() int {
	total := 0
	for _, d := range p.Drops {
		total += d.Value
	}
	return total
}

// Resize pads the drop list with zero-value drops or truncates it from the
// end so that it holds exactly n drops. Negative n is ignored.
func (p *PlanConfig) Resize(n int) {
	if n < 0 {
		return
	}
	for len(p.Drops) < n {
		p.Drops = append(p.Drops, Drop{PlanConfigID: p.ID, Position: len(p.Drops)})
	}
	if len(p.Drops) > n {
		p.Drops = p.Drops[:n]
	}
}

// Drop is one scheduled delivery slot holding a seed count.
type Drop struct {
	ID           uint `gorm:"primaryKey;autoIncrement"`
	PlanConfigID uint `gorm:"not null;index"`
	Position     int  `gorm:"not null"`
	Value        int  `gorm:"not null;default:0"`
}
