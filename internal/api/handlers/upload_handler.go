package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kayleschmoyer/DVIC/domain"
	"github.com/kayleschmoyer/DVIC/internal/api/presenters"
	"github.com/kayleschmoyer/DVIC/pkg/upload"
)

type (
	UploadHandler interface {
		UploadImage(c *fiber.Ctx) error
		DeleteImage(c *fiber.Ctx) error
	}

	uploadHandler struct {
		uploadService upload.UploadService
	}
)

func NewUploadHandler(uploadService upload.UploadService) UploadHandler {
	return &uploadHandler{uploadService: uploadService}
}

func (h *uploadHandler) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, domain.ErrNoImageProvided)
	}

	res, err := h.uploadService.StoreImage(c.Context(), file)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedUploadImage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessUploadImage)
}

func (h *uploadHandler) DeleteImage(c *fiber.Ctx) error {
	fileName := c.Params("+")
	if fileName == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteImage, domain.ErrNoImageProvided)
	}

	if err := h.uploadService.DeleteImage(c.Context(), fileName); err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedDeleteImage, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteImage)
}
