package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/kayleschmoyer/DVIC/domain"
	"github.com/kayleschmoyer/DVIC/internal/api/presenters"
	"github.com/kayleschmoyer/DVIC/pkg/payment"
)

type (
	PaymentHandler interface {
		CreateEstimatePayment(c *fiber.Ctx) error
		GetInspectionPayments(c *fiber.Ctx) error
		MidtransWebhookHandler(c *fiber.Ctx) error
	}

	paymentHandler struct {
		paymentService payment.PaymentService
		validator      *validator.Validate
	}
)

func NewPaymentHandler(paymentService payment.PaymentService, validator *validator.Validate) PaymentHandler {
	return &paymentHandler{
		paymentService: paymentService,
		validator:      validator,
	}
}

func (h *paymentHandler) CreateEstimatePayment(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreatePayment, err)
	}

	res, err := h.paymentService.CreateEstimatePayment(c.Context(), id)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedCreatePayment, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreatePayment)
}

func (h *paymentHandler) GetInspectionPayments(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetPayments, err)
	}

	res, err := h.paymentService.GetInspectionPayments(c.Context(), id)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedGetPayments, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetPayments)
}

func (h *paymentHandler) MidtransWebhookHandler(c *fiber.Ctx) error {
	req := new(domain.MidtransNotificationRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedNotification, err)
	}

	if err := h.paymentService.HandleNotification(c.Context(), *req); err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedNotification, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessNotification)
}
