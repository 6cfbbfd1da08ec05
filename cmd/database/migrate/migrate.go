package migration

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/kayleschmoyer/DVIC/entities"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.Mechanic{}); err != nil {
		log.Fatalf("Error migrating mechanic database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Customer{}); err != nil {
		log.Fatalf("Error migrating customer database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Vehicle{}); err != nil {
		log.Fatalf("Error migrating vehicle database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Inspection{}); err != nil {
		log.Fatalf("Error migrating inspection database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.LineItem{}); err != nil {
		log.Fatalf("Error migrating line item database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Payment{}); err != nil {
		log.Fatalf("Error migrating payment database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
