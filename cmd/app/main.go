package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2/log"

	"github.com/kayleschmoyer/DVIC/cmd/config"
	migration "github.com/kayleschmoyer/DVIC/cmd/database/migrate"
	"github.com/kayleschmoyer/DVIC/internal/utils"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed connecting to database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed migrating database: %v", err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed building application: %v", err)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorf("shutdown error: %v", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	port := utils.GetConfig("APP_PORT")
	if port == "" {
		port = "8080"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
