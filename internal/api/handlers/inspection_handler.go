package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/kayleschmoyer/DVIC/domain"
	"github.com/kayleschmoyer/DVIC/internal/api/presenters"
	"github.com/kayleschmoyer/DVIC/pkg/inspection"
	"github.com/kayleschmoyer/DVIC/pkg/upload"
)

type (
	InspectionHandler interface {
		CreateInspection(c *fiber.Ctx) error
		GetInspections(c *fiber.Ctx) error
		GetInspectionDetail(c *fiber.Ctx) error
		UpdateInspection(c *fiber.Ctx) error
		CompleteInspection(c *fiber.Ctx) error
		AddLineItem(c *fiber.Ctx) error
		UpdateLineItem(c *fiber.Ctx) error
		DeleteLineItem(c *fiber.Ctx) error
		AttachLineItemPhoto(c *fiber.Ctx) error
		GetStats(c *fiber.Ctx) error
		GetReport(c *fiber.Ctx) error
	}

	inspectionHandler struct {
		inspectionService inspection.InspectionService
		uploadService     upload.UploadService
		validator         *validator.Validate
	}
)

func NewInspectionHandler(
	inspectionService inspection.InspectionService,
	uploadService upload.UploadService,
	validator *validator.Validate,
) InspectionHandler {
	return &inspectionHandler{
		inspectionService: inspectionService,
		uploadService:     uploadService,
		validator:         validator,
	}
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInspectionNotFound),
		errors.Is(err, domain.ErrLineItemNotFound),
		errors.Is(err, domain.ErrMechanicNotFound),
		errors.Is(err, domain.ErrPaymentNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidVIN),
		errors.Is(err, domain.ErrInvalidCustomerID),
		errors.Is(err, domain.ErrInvalidInspectionID),
		errors.Is(err, domain.ErrNoFieldsToUpdate),
		errors.Is(err, domain.ErrNoImageProvided),
		errors.Is(err, domain.ErrInvalidImageFormat),
		errors.Is(err, domain.ErrInspectionNotCompleted),
		errors.Is(err, domain.ErrNothingToPay):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || raw == 0 {
		return 0, domain.ErrInvalidInspectionID
	}
	return uint(raw), nil
}

func (h *inspectionHandler) CreateInspection(c *fiber.Ctx) error {
	mechanicID := c.Locals("mechanic_id").(uint)
	req := new(domain.CreateInspectionRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateInspection, err)
	}

	res, err := h.inspectionService.CreateInspection(c.Context(), *req, mechanicID)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedCreateInspection, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateInspection)
}

func (h *inspectionHandler) GetInspections(c *fiber.Ctx) error {
	filter := domain.InspectionFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	if raw := c.Query("mechanic_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetInspections, err)
		}
		mechanicID := uint(id)
		filter.MechanicID = &mechanicID
	}

	if raw := c.Query("start_date"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetInspections, err)
		}
		filter.StartDate = &start
	}

	if raw := c.Query("end_date"); raw != "" {
		end, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetInspections, err)
		}
		filter.EndDate = &end
	}

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	filter.Page = page
	filter.Limit = limit

	items, count, err := h.inspectionService.GetInspections(c.Context(), filter)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedGetInspections, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"inspections": items,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetInspections)
}

func (h *inspectionHandler) GetInspectionDetail(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetInspection, err)
	}

	res, err := h.inspectionService.GetInspectionDetail(c.Context(), id)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedGetInspection, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetInspection)
}

func (h *inspectionHandler) UpdateInspection(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateInspection, err)
	}

	req := new(domain.UpdateInspectionRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateInspection, err)
	}

	if err := h.inspectionService.UpdateInspection(c.Context(), id, *req); err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedUpdateInspection, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateInspection)
}

func (h *inspectionHandler) CompleteInspection(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCompleteInspection, err)
	}

	res, err := h.inspectionService.CompleteInspection(c.Context(), id)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedCompleteInspection, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessCompleteInspection)
}

func (h *inspectionHandler) AddLineItem(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddLineItem, err)
	}

	req := new(domain.CreateLineItemRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddLineItem, err)
	}

	lineItemID, err := h.inspectionService.AddLineItem(c.Context(), id, *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedAddLineItem, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"line_item_id": lineItemID,
	}, fiber.StatusCreated, domain.MessageSuccessAddLineItem)
}

func (h *inspectionHandler) UpdateLineItem(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateLineItem, err)
	}
	lineItemID, err := parseIDParam(c, "itemId")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateLineItem, err)
	}

	req := new(domain.UpdateLineItemRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateLineItem, err)
	}

	if err := h.inspectionService.UpdateLineItem(c.Context(), id, lineItemID, *req); err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedUpdateLineItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateLineItem)
}

func (h *inspectionHandler) DeleteLineItem(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteLineItem, err)
	}
	lineItemID, err := parseIDParam(c, "itemId")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteLineItem, err)
	}

	if err := h.inspectionService.DeleteLineItem(c.Context(), id, lineItemID); err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedDeleteLineItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteLineItem)
}

// AttachLineItemPhoto stores the image first, then appends its URL to
// the line item. A row that vanished between the two steps leaves an
// orphan object in the bucket, never a broken reference in the row.
func (h *inspectionHandler) AttachLineItemPhoto(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAttachPhoto, err)
	}
	lineItemID, err := parseIDParam(c, "itemId")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAttachPhoto, err)
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAttachPhoto, domain.ErrNoImageProvided)
	}

	stored, err := h.uploadService.StoreImage(c.Context(), file)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedAttachPhoto, err)
	}

	if err := h.inspectionService.AddPhotoToLineItem(c.Context(), id, lineItemID, stored.URL); err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedAttachPhoto, err)
	}

	return presenters.SuccessResponse(c, stored, fiber.StatusCreated, domain.MessageSuccessAttachPhoto)
}

func (h *inspectionHandler) GetStats(c *fiber.Ctx) error {
	var mechanicID *uint
	if raw := c.Query("mechanic_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetStats, err)
		}
		parsed := uint(id)
		mechanicID = &parsed
	}

	res, err := h.inspectionService.GetStats(c.Context(), mechanicID)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedGetStats, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetStats)
}

func (h *inspectionHandler) GetReport(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetReport, err)
	}

	res, err := h.inspectionService.BuildReport(c.Context(), id)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedGetReport, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetReport)
}
