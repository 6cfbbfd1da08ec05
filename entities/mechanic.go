package entities

type Mechanic struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string `gorm:"size:100" json:"name"`
	Email          string `gorm:"size:100;uniqueIndex" json:"email"`
	PasswordHash   string `gorm:"size:255" json:"-"`
	Phone          string `gorm:"size:20" json:"phone,omitempty"`
	Certifications string `gorm:"type:text" json:"certifications,omitempty"`
	Role           string `gorm:"size:20;default:mechanic" json:"role"` // "mechanic", "admin", "supervisor"
	Active         bool   `gorm:"default:true" json:"active"`

	Inspections []*Inspection `gorm:"foreignKey:MechanicID" json:"-"`
	Timestamp
}
