package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/kayleschmoyer/DVIC/internal/api/handlers"
	"github.com/kayleschmoyer/DVIC/internal/middleware"
	"github.com/kayleschmoyer/DVIC/internal/ws"
	"github.com/kayleschmoyer/DVIC/pkg/jwt"
)

type Config struct {
	App               *fiber.App
	InspectionHandler handlers.InspectionHandler
	MechanicHandler   handlers.MechanicHandler
	UploadHandler     handlers.UploadHandler
	PaymentHandler    handlers.PaymentHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
	Hub               *ws.Hub
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Auth()
	c.Inspections()
	c.Mechanics()
	c.Uploads()
	c.GuestRoute()
	c.Realtime()
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/auth")
	{
		auth.Post("/register", c.MechanicHandler.Register)
		auth.Post("/login", c.MechanicHandler.Login)
		auth.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.MechanicHandler.Me)
	}
}

func (c *Config) Inspections() {
	inspections := c.App.Group("/api/inspections", c.Middleware.AuthMiddleware(c.JWTService))

	// static path before the :id wildcard
	inspections.Get("/stats/overview", c.InspectionHandler.GetStats)

	inspections.Post("", c.InspectionHandler.CreateInspection)
	inspections.Get("", c.InspectionHandler.GetInspections)
	inspections.Get("/:id", c.InspectionHandler.GetInspectionDetail)
	inspections.Put("/:id", c.InspectionHandler.UpdateInspection)
	inspections.Post("/:id/complete", c.InspectionHandler.CompleteInspection)
	inspections.Get("/:id/report", c.InspectionHandler.GetReport)
	inspections.Post("/:id/pay", c.PaymentHandler.CreateEstimatePayment)
	inspections.Get("/:id/payments", c.PaymentHandler.GetInspectionPayments)

	inspections.Post("/:id/items", c.InspectionHandler.AddLineItem)
	inspections.Put("/:id/items/:itemId", c.InspectionHandler.UpdateLineItem)
	inspections.Delete("/:id/items/:itemId", c.InspectionHandler.DeleteLineItem)
	inspections.Post("/:id/items/:itemId/photo", c.InspectionHandler.AttachLineItemPhoto)
}

func (c *Config) Mechanics() {
	mechanics := c.App.Group("/api/mechanics", c.Middleware.AuthMiddleware(c.JWTService))
	{
		mechanics.Get("", c.MechanicHandler.GetMechanics)
		mechanics.Get("/:id", c.MechanicHandler.GetMechanicByID)
		mechanics.Put("/:id", c.MechanicHandler.UpdateMechanic)
		mechanics.Get("/:id/stats", c.MechanicHandler.GetMechanicStats)
	}
}

func (c *Config) Uploads() {
	uploads := c.App.Group("/api/upload", c.Middleware.AuthMiddleware(c.JWTService))
	{
		uploads.Post("/image", c.UploadHandler.UploadImage)
		// object keys contain a folder segment, so the delete path is greedy
		uploads.Delete("/+", c.UploadHandler.DeleteImage)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Post("/webhook/midtrans", c.PaymentHandler.MidtransWebhookHandler)
}

func (c *Config) Realtime() {
	c.App.Use("/ws", func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	c.App.Get("/ws", websocket.New(c.Hub.ServeClient))
}
