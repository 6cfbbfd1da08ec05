package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/kayleschmoyer/DVIC/domain"
	"github.com/kayleschmoyer/DVIC/internal/api/presenters"
	"github.com/kayleschmoyer/DVIC/pkg/mechanic"
)

type (
	MechanicHandler interface {
		Register(c *fiber.Ctx) error
		Login(c *fiber.Ctx) error
		Me(c *fiber.Ctx) error
		GetMechanics(c *fiber.Ctx) error
		GetMechanicByID(c *fiber.Ctx) error
		UpdateMechanic(c *fiber.Ctx) error
		GetMechanicStats(c *fiber.Ctx) error
	}

	mechanicHandler struct {
		mechanicService mechanic.MechanicService
		validator       *validator.Validate
	}
)

func NewMechanicHandler(mechanicService mechanic.MechanicService, validator *validator.Validate) MechanicHandler {
	return &mechanicHandler{
		mechanicService: mechanicService,
		validator:       validator,
	}
}

func (h *mechanicHandler) Register(c *fiber.Ctx) error {
	req := new(domain.RegisterRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRegister, err)
	}

	res, err := h.mechanicService.Register(c.Context(), *req)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, domain.ErrEmailAlreadyRegistered) {
			status = fiber.StatusConflict
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedRegister, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessRegister)
}

func (h *mechanicHandler) Login(c *fiber.Ctx) error {
	req := new(domain.LoginRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedLogin, err)
	}

	res, err := h.mechanicService.Login(c.Context(), *req)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidCredentials) {
			status = fiber.StatusUnauthorized
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedLogin, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLogin)
}

func (h *mechanicHandler) Me(c *fiber.Ctx) error {
	mechanicID := c.Locals("mechanic_id").(uint)

	res, err := h.mechanicService.Me(c.Context(), mechanicID)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedMe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessMe)
}

func (h *mechanicHandler) GetMechanics(c *fiber.Ctx) error {
	res, err := h.mechanicService.GetMechanics(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedGetMechanics, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMechanics)
}

func (h *mechanicHandler) GetMechanicByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetMechanic, err)
	}

	res, err := h.mechanicService.GetMechanicByID(c.Context(), id)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedGetMechanic, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMechanic)
}

func (h *mechanicHandler) UpdateMechanic(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateMechanic, err)
	}

	req := new(domain.UpdateMechanicRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateMechanic, err)
	}

	if err := h.mechanicService.UpdateMechanic(c.Context(), id, *req); err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedUpdateMechanic, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateMechanic)
}

func (h *mechanicHandler) GetMechanicStats(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedMechanicStats, err)
	}

	res, err := h.mechanicService.GetMechanicStats(c.Context(), id)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedMechanicStats, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessMechanicStats)
}
