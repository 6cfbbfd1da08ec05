package inspection

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/kayleschmoyer/DVIC/domain"
	"github.com/kayleschmoyer/DVIC/entities"
	"gorm.io/gorm"
)

// Events published over the real-time channel. Created/completed events
// are broadcast globally; everything else targets the inspection's room.
const (
	EventInspectionCreated   = "inspection-created"
	EventInspectionUpdated   = "inspection-updated"
	EventInspectionCompleted = "inspection-completed"
	EventLineItemAdded       = "lineitem-added"
	EventLineItemUpdated     = "lineitem-updated"
	EventLineItemDeleted     = "lineitem-deleted"
)

type (
	// Notifier delivers state-change events to live subscribers.
	// Delivery is fire-and-forget: a mutation is successful once
	// persisted, whether or not anyone receives the event.
	Notifier interface {
		BroadcastGlobal(event string, data interface{})
		BroadcastRoom(inspectionID uint, event string, data interface{})
	}

	// Mailer sends the completion summary. A nil Mailer disables email.
	Mailer interface {
		SendMail(toEmail string, subject string, body string) error
	}

	InspectionService interface {
		CreateInspection(ctx context.Context, req domain.CreateInspectionRequest, mechanicID uint) (domain.CreateInspectionResponse, error)
		GetInspections(ctx context.Context, filter domain.InspectionFilter) ([]domain.InspectionResponse, int64, error)
		GetInspectionDetail(ctx context.Context, id uint) (domain.InspectionDetailResponse, error)
		UpdateInspection(ctx context.Context, id uint, req domain.UpdateInspectionRequest) error
		CompleteInspection(ctx context.Context, id uint) (domain.CompleteInspectionResponse, error)

		AddLineItem(ctx context.Context, inspectionID uint, req domain.CreateLineItemRequest) (uint, error)
		UpdateLineItem(ctx context.Context, inspectionID uint, lineItemID uint, req domain.UpdateLineItemRequest) error
		DeleteLineItem(ctx context.Context, inspectionID uint, lineItemID uint) error
		AddPhotoToLineItem(ctx context.Context, inspectionID uint, lineItemID uint, fileName string) error

		GetStats(ctx context.Context, mechanicID *uint) (domain.InspectionStatsResponse, error)
		BuildReport(ctx context.Context, id uint) (domain.InspectionReportResponse, error)
	}

	inspectionService struct {
		inspectionRepository InspectionRepository
		notifier             Notifier
		mailer               Mailer
	}
)

var vinPattern = regexp.MustCompile(`^[0-9A-Za-z]{17}$`)

func NewInspectionService(inspectionRepository InspectionRepository, notifier Notifier, mailer Mailer) InspectionService {
	return &inspectionService{
		inspectionRepository: inspectionRepository,
		notifier:             notifier,
		mailer:               mailer,
	}
}

func (s *inspectionService) CreateInspection(ctx context.Context, req domain.CreateInspectionRequest, mechanicID uint) (domain.CreateInspectionResponse, error) {
	if !vinPattern.MatchString(req.VehicleVIN) {
		return domain.CreateInspectionResponse{}, domain.ErrInvalidVIN
	}
	if req.CustomerID == 0 {
		return domain.CreateInspectionResponse{}, domain.ErrInvalidCustomerID
	}

	assignedMechanic := req.MechanicID
	if assignedMechanic == nil && mechanicID != 0 {
		assignedMechanic = &mechanicID
	}

	inspection := &entities.Inspection{
		VehicleVIN:     req.VehicleVIN,
		CustomerID:     req.CustomerID,
		MechanicID:     assignedMechanic,
		InspectionDate: time.Now(),
		Status:         "pending",
		TotalAmount:    0,
		Notes:          req.Notes,
	}

	if err := s.inspectionRepository.CreateInspection(ctx, inspection); err != nil {
		return domain.CreateInspectionResponse{}, err
	}

	s.notifier.BroadcastGlobal(EventInspectionCreated, map[string]interface{}{
		"inspection_id": inspection.ID,
		"mechanic_id":   inspection.MechanicID,
		"vehicle_vin":   inspection.VehicleVIN,
	})

	return domain.CreateInspectionResponse{
		InspectionID: inspection.ID,
		Status:       inspection.Status,
	}, nil
}

func (s *inspectionService) GetInspections(ctx context.Context, filter domain.InspectionFilter) ([]domain.InspectionResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	inspections, count, err := s.inspectionRepository.GetInspections(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.InspectionResponse, 0, len(inspections))
	for _, inspection := range inspections {
		response = append(response, toInspectionResponse(inspection))
	}
	return response, count, nil
}

func (s *inspectionService) GetInspectionDetail(ctx context.Context, id uint) (domain.InspectionDetailResponse, error) {
	inspection, err := s.inspectionRepository.GetInspectionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.InspectionDetailResponse{}, domain.ErrInspectionNotFound
		}
		return domain.InspectionDetailResponse{}, err
	}

	lineItems, err := s.inspectionRepository.GetLineItems(ctx, id)
	if err != nil {
		return domain.InspectionDetailResponse{}, err
	}

	return domain.InspectionDetailResponse{
		InspectionResponse: toInspectionResponse(inspection),
		LineItems:          toLineItemResponses(lineItems),
	}, nil
}

// UpdateInspection applies a sparse patch. UpdatedAt is refreshed even
// when no other field changes. TotalAmount set here survives only until
// the next line-item mutation re-derives it.
func (s *inspectionService) UpdateInspection(ctx context.Context, id uint, req domain.UpdateInspectionRequest) error {
	fields := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.TotalAmount != nil {
		fields["total_amount"] = *req.TotalAmount
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	if err := s.inspectionRepository.UpdateInspection(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrInspectionNotFound
		}
		return err
	}

	s.notifier.BroadcastRoom(id, EventInspectionUpdated, map[string]interface{}{
		"inspection_id": id,
		"updates":       req,
	})
	return nil
}

func (s *inspectionService) CompleteInspection(ctx context.Context, id uint) (domain.CompleteInspectionResponse, error) {
	completed := "completed"
	if err := s.UpdateInspection(ctx, id, domain.UpdateInspectionRequest{Status: &completed}); err != nil {
		return domain.CompleteInspectionResponse{}, err
	}

	inspection, err := s.inspectionRepository.GetInspectionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CompleteInspectionResponse{}, domain.ErrInspectionNotFound
		}
		return domain.CompleteInspectionResponse{}, err
	}
	lineItems, err := s.inspectionRepository.GetLineItems(ctx, id)
	if err != nil {
		return domain.CompleteInspectionResponse{}, err
	}
	detail := domain.InspectionDetailResponse{
		InspectionResponse: toInspectionResponse(inspection),
		LineItems:          toLineItemResponses(lineItems),
	}

	s.notifier.BroadcastGlobal(EventInspectionCompleted, map[string]interface{}{
		"inspection_id": id,
		"inspection":    detail,
	})

	if s.mailer != nil && inspection.Mechanic != nil && inspection.Mechanic.Email != "" {
		go s.sendCompletionMail(inspection.Mechanic.Email, detail)
	}

	return domain.CompleteInspectionResponse{
		InspectionID: id,
		CompletedAt:  time.Now(),
	}, nil
}

func (s *inspectionService) sendCompletionMail(toEmail string, detail domain.InspectionDetailResponse) {
	subject := fmt.Sprintf("Inspection #%d completed", detail.ID)
	body := fmt.Sprintf(
		"<p>Inspection for VIN <b>%s</b> is complete.</p><p>Items: %d, total: %.2f</p>",
		detail.VehicleVIN, len(detail.LineItems), detail.TotalAmount,
	)
	if err := s.mailer.SendMail(toEmail, subject, body); err != nil {
		log.Warnf("completion mail for inspection %d not sent: %v", detail.ID, err)
	}
}

// AddLineItem inserts a line item and synchronously re-derives the
// parent's total. Recompute runs as its own statement after the insert;
// a crash between the two leaves the total stale until the next
// line-item mutation.
func (s *inspectionService) AddLineItem(ctx context.Context, inspectionID uint, req domain.CreateLineItemRequest) (uint, error) {
	if _, err := s.inspectionRepository.GetInspectionByID(ctx, inspectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrInspectionNotFound
		}
		return 0, err
	}

	cost := 0.0
	if req.Cost != nil {
		cost = *req.Cost
	}

	lineItem := &entities.LineItem{
		InspectionID: inspectionID,
		ItemType:     req.ItemType,
		Description:  req.Description,
		Severity:     req.Severity,
		Status:       req.Status,
		Cost:         cost,
		Photos:       "[]",
		Notes:        req.Notes,
	}

	if err := s.inspectionRepository.AddLineItem(ctx, lineItem); err != nil {
		return 0, err
	}

	if err := s.inspectionRepository.RecalculateTotal(ctx, inspectionID); err != nil {
		return 0, err
	}

	s.notifier.BroadcastRoom(inspectionID, EventLineItemAdded, map[string]interface{}{
		"inspection_id": inspectionID,
		"line_item_id":  lineItem.ID,
		"line_item":     req,
	})
	return lineItem.ID, nil
}

func (s *inspectionService) UpdateLineItem(ctx context.Context, inspectionID uint, lineItemID uint, req domain.UpdateLineItemRequest) error {
	fields := map[string]interface{}{}
	if req.ItemType != nil {
		fields["item_type"] = *req.ItemType
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Severity != nil {
		fields["severity"] = *req.Severity
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Cost != nil {
		fields["cost"] = *req.Cost
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.inspectionRepository.UpdateLineItem(ctx, lineItemID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrLineItemNotFound
		}
		return err
	}

	// Resolve the owner from the row itself; the URL id is advisory.
	lineItem, err := s.inspectionRepository.GetLineItemByID(ctx, lineItemID)
	if err == nil {
		inspectionID = lineItem.InspectionID
	}
	if err := s.inspectionRepository.RecalculateTotal(ctx, inspectionID); err != nil {
		return err
	}

	s.notifier.BroadcastRoom(inspectionID, EventLineItemUpdated, map[string]interface{}{
		"inspection_id": inspectionID,
		"line_item_id":  lineItemID,
		"updates":       req,
	})
	return nil
}

// DeleteLineItem resolves the owning inspection before the delete, since
// the row is gone afterwards. When the lookup fails the delete is a
// no-op for cost accounting: no recompute, no error.
func (s *inspectionService) DeleteLineItem(ctx context.Context, inspectionID uint, lineItemID uint) error {
	lineItem, err := s.inspectionRepository.GetLineItemByID(ctx, lineItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	ownerID := lineItem.InspectionID

	if err := s.inspectionRepository.DeleteLineItem(ctx, lineItemID); err != nil {
		return err
	}

	if err := s.inspectionRepository.RecalculateTotal(ctx, ownerID); err != nil {
		return err
	}

	s.notifier.BroadcastRoom(ownerID, EventLineItemDeleted, map[string]interface{}{
		"inspection_id": ownerID,
		"line_item_id":  lineItemID,
	})
	return nil
}

func (s *inspectionService) AddPhotoToLineItem(ctx context.Context, inspectionID uint, lineItemID uint, fileName string) error {
	if err := s.inspectionRepository.AppendPhoto(ctx, lineItemID, fileName); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrLineItemNotFound
		}
		return err
	}

	s.notifier.BroadcastRoom(inspectionID, EventLineItemUpdated, map[string]interface{}{
		"inspection_id": inspectionID,
		"line_item_id":  lineItemID,
		"updates":       map[string]interface{}{"photo_added": fileName},
	})
	return nil
}

func (s *inspectionService) GetStats(ctx context.Context, mechanicID *uint) (domain.InspectionStatsResponse, error) {
	row, err := s.inspectionRepository.GetStats(ctx, mechanicID)
	if err != nil {
		return domain.InspectionStatsResponse{}, err
	}

	distribution, err := s.inspectionRepository.GetSeverityDistribution(ctx, mechanicID)
	if err != nil {
		return domain.InspectionStatsResponse{}, err
	}

	return domain.InspectionStatsResponse{
		TotalInspections:      row.TotalInspections,
		CompletedInspections:  row.CompletedInspections,
		InProgressInspections: row.InProgressInspections,
		PendingInspections:    row.PendingInspections,
		AvgCompletionTime:     row.AvgCompletionTime,
		DailyInspections:      row.DailyInspections,
		WeeklyInspections:     row.WeeklyInspections,
		MonthlyInspections:    row.MonthlyInspections,
		TotalRevenue:          row.TotalRevenue,
		AvgInspectionValue:    row.AvgInspectionValue,
		SeverityDistribution:  distribution,
	}, nil
}

func (s *inspectionService) BuildReport(ctx context.Context, id uint) (domain.InspectionReportResponse, error) {
	detail, err := s.GetInspectionDetail(ctx, id)
	if err != nil {
		return domain.InspectionReportResponse{}, err
	}

	summary := domain.ReportSummary{TotalItems: len(detail.LineItems)}
	for _, item := range detail.LineItems {
		switch item.Status {
		case "passed":
			summary.PassedItems++
		case "attention":
			summary.AttentionItems++
		case "failed":
			summary.FailedItems++
		}
		summary.TotalCost += item.Cost
	}

	return domain.InspectionReportResponse{
		Inspection:  detail.InspectionResponse,
		LineItems:   detail.LineItems,
		Summary:     summary,
		GeneratedAt: time.Now(),
	}, nil
}

func toInspectionResponse(inspection *entities.Inspection) domain.InspectionResponse {
	response := domain.InspectionResponse{
		ID:             inspection.ID,
		VehicleVIN:     inspection.VehicleVIN,
		CustomerID:     inspection.CustomerID,
		MechanicID:     inspection.MechanicID,
		InspectionDate: inspection.InspectionDate,
		Status:         inspection.Status,
		TotalAmount:    inspection.TotalAmount,
		Notes:          inspection.Notes,
		CreatedAt:      inspection.CreatedAt,
		UpdatedAt:      inspection.UpdatedAt,
	}
	if inspection.Mechanic != nil {
		response.MechanicName = inspection.Mechanic.Name
	}
	return response
}

func toLineItemResponses(lineItems []*entities.LineItem) []domain.LineItemResponse {
	response := make([]domain.LineItemResponse, 0, len(lineItems))
	for _, item := range lineItems {
		response = append(response, domain.LineItemResponse{
			ID:           item.ID,
			InspectionID: item.InspectionID,
			ItemType:     item.ItemType,
			Description:  item.Description,
			Severity:     item.Severity,
			Status:       item.Status,
			Cost:         item.Cost,
			Photos:       item.PhotoList(),
			Notes:        item.Notes,
			CreatedAt:    item.CreatedAt,
		})
	}
	return response
}
