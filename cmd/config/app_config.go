package config

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"github.com/kayleschmoyer/DVIC/internal/api/handlers"
	"github.com/kayleschmoyer/DVIC/internal/api/routes"
	"github.com/kayleschmoyer/DVIC/internal/middleware"
	"github.com/kayleschmoyer/DVIC/internal/utils"
	"github.com/kayleschmoyer/DVIC/internal/utils/mailing"
	"github.com/kayleschmoyer/DVIC/internal/utils/storage"
	"github.com/kayleschmoyer/DVIC/internal/ws"
	"github.com/kayleschmoyer/DVIC/pkg/inspection"
	"github.com/kayleschmoyer/DVIC/pkg/jwt"
	"github.com/kayleschmoyer/DVIC/pkg/mechanic"
	"github.com/kayleschmoyer/DVIC/pkg/payment"
	"github.com/kayleschmoyer/DVIC/pkg/upload"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         15 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	hub := ws.NewHub()
	go hub.Run()
	app.Hooks().OnShutdown(func() error {
		hub.Stop()
		return nil
	})

	var mailer inspection.Mailer
	if m := mailing.NewMailer(); m != nil {
		mailer = m
	}

	// Repository
	inspectionRepository := inspection.NewInspectionRepository(db)
	mechanicRepository := mechanic.NewMechanicRepository(db)
	paymentRepository := payment.NewPaymentRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	inspectionService := inspection.NewInspectionService(inspectionRepository, hub, mailer)
	mechanicService := mechanic.NewMechanicService(mechanicRepository, jwtService)
	uploadService := upload.NewUploadService(s3)
	paymentService := payment.NewPaymentService(paymentRepository, inspectionRepository)

	// Handler
	inspectionHandler := handlers.NewInspectionHandler(inspectionService, uploadService, validator)
	mechanicHandler := handlers.NewMechanicHandler(mechanicService, validator)
	uploadHandler := handlers.NewUploadHandler(uploadService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, validator)

	// routes
	routesConfig := routes.Config{
		App:               app,
		InspectionHandler: inspectionHandler,
		MechanicHandler:   mechanicHandler,
		UploadHandler:     uploadHandler,
		PaymentHandler:    paymentHandler,
		Middleware:        middlewares,
		JWTService:        jwtService,
		Hub:               hub,
	}
	routesConfig.Setup()
	return app, nil
}
