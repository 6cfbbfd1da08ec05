package entities

import (
	"time"
)

type Inspection struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	VehicleVIN     string    `gorm:"size:17;index" json:"vehicle_vin"`
	CustomerID     uint      `json:"customer_id"`
	MechanicID     *uint     `gorm:"index" json:"mechanic_id,omitempty"`
	InspectionDate time.Time `gorm:"index" json:"inspection_date"`
	Status         string    `gorm:"size:20;default:pending" json:"status"` // "pending", "in-progress", "completed"
	TotalAmount    float64   `gorm:"type:numeric(10,2);default:0" json:"total_amount"`
	Notes          string    `gorm:"type:text" json:"notes,omitempty"`

	Mechanic  *Mechanic   `gorm:"foreignKey:MechanicID" json:"mechanic,omitempty"`
	LineItems []*LineItem `gorm:"foreignKey:InspectionID;constraint:OnDelete:CASCADE" json:"line_items,omitempty"`
	Timestamp
}
