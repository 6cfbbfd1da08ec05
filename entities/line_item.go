package entities

import (
	"encoding/json"
)

type LineItem struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	InspectionID uint    `gorm:"index;not null" json:"inspection_id"`
	ItemType     string  `gorm:"size:50" json:"item_type"`
	Description  string  `gorm:"size:500" json:"description"`
	Severity     string  `gorm:"size:20" json:"severity"` // "good", "warning", "critical"
	Status       string  `gorm:"size:20" json:"status"`   // "passed", "attention", "failed"
	Cost         float64 `gorm:"type:numeric(10,2);default:0" json:"cost"`
	Photos       string  `gorm:"type:jsonb;default:'[]'" json:"photos"` // JSON array of stored object keys
	Notes        string  `gorm:"type:text" json:"notes,omitempty"`

	Inspection *Inspection `gorm:"foreignKey:InspectionID" json:"-"`
	Timestamp
}

// PhotoList decodes the Photos column. An empty or missing column
// decodes to an empty slice, never nil error noise for callers.
func (l *LineItem) PhotoList() []string {
	if l.Photos == "" {
		return []string{}
	}
	var photos []string
	if err := json.Unmarshal([]byte(l.Photos), &photos); err != nil {
		return []string{}
	}
	return photos
}
