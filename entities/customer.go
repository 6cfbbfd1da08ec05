package entities

// Customer and Vehicle are declared for future expansion; no mutation
// path populates them yet.

type Customer struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"size:100" json:"name"`
	Email   string `gorm:"size:100" json:"email"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address,omitempty"`

	Vehicles []*Vehicle `gorm:"foreignKey:CustomerID" json:"-"`
	Timestamp
}

type Vehicle struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	VIN        string `gorm:"size:17;uniqueIndex" json:"vin"`
	Make       string `gorm:"size:50" json:"make"`
	Model      string `gorm:"size:50" json:"model"`
	Year       int    `json:"year"`
	Color      string `gorm:"size:30" json:"color,omitempty"`
	Mileage    int    `json:"mileage,omitempty"`
	CustomerID uint   `gorm:"index" json:"customer_id"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"-"`
	Timestamp
}
