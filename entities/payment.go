package entities

type Payment struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	InspectionID uint    `gorm:"index;not null" json:"inspection_id"`
	OrderID      string  `gorm:"size:64;uniqueIndex" json:"order_id"`
	Amount       float64 `gorm:"type:numeric(10,2)" json:"amount"`
	Status       string  `gorm:"size:20;default:pending" json:"status"` // "pending", "settled", "failed", "expired"
	SnapToken    string  `gorm:"size:255" json:"snap_token,omitempty"`
	RedirectURL  string  `gorm:"size:255" json:"redirect_url,omitempty"`

	Inspection *Inspection `gorm:"foreignKey:InspectionID" json:"-"`
	Timestamp
}
