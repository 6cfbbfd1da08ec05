package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessCreateInspection   = "inspection created successfully"
	MessageSuccessGetInspections     = "inspections retrieved successfully"
	MessageSuccessGetInspection      = "inspection retrieved successfully"
	MessageSuccessUpdateInspection   = "inspection updated successfully"
	MessageSuccessCompleteInspection = "inspection completed successfully"
	MessageSuccessAddLineItem        = "line item added successfully"
	MessageSuccessUpdateLineItem     = "line item updated successfully"
	MessageSuccessDeleteLineItem     = "line item deleted successfully"
	MessageSuccessAttachPhoto        = "photo attached successfully"
	MessageSuccessGetStats           = "inspection statistics retrieved successfully"
	MessageSuccessGetReport          = "inspection report generated successfully"

	MessageFailedCreateInspection   = "failed to create inspection"
	MessageFailedGetInspections     = "failed to retrieve inspections"
	MessageFailedGetInspection      = "failed to retrieve inspection"
	MessageFailedUpdateInspection   = "failed to update inspection"
	MessageFailedCompleteInspection = "failed to complete inspection"
	MessageFailedAddLineItem        = "failed to add line item"
	MessageFailedUpdateLineItem     = "failed to update line item"
	MessageFailedDeleteLineItem     = "failed to delete line item"
	MessageFailedAttachPhoto        = "failed to attach photo"
	MessageFailedGetStats           = "failed to retrieve inspection statistics"
	MessageFailedGetReport          = "failed to generate inspection report"

	ErrInspectionNotFound  = errors.New("inspection not found")
	ErrLineItemNotFound    = errors.New("line item not found")
	ErrInvalidVIN          = errors.New("vehicle VIN must be exactly 17 alphanumeric characters")
	ErrInvalidCustomerID   = errors.New("customer id must be a positive integer")
	ErrInvalidInspectionID = errors.New("invalid inspection id")
)

type (
	CreateInspectionRequest struct {
		VehicleVIN string `json:"vehicle_vin" validate:"required,len=17,alphanum"`
		CustomerID uint   `json:"customer_id" validate:"required,min=1"`
		MechanicID *uint  `json:"mechanic_id" validate:"omitempty,min=1"`
		Notes      string `json:"notes" validate:"omitempty,max=1000"`
	}

	CreateInspectionResponse struct {
		InspectionID uint   `json:"inspection_id"`
		Status       string `json:"status"`
	}

	// UpdateInspectionRequest is a sparse patch: nil fields are left
	// untouched. TotalAmount is directly patchable, but the next
	// line-item mutation re-derives it from the line-item sum.
	UpdateInspectionRequest struct {
		Status      *string  `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
		TotalAmount *float64 `json:"total_amount" validate:"omitempty,min=0"`
		Notes       *string  `json:"notes" validate:"omitempty,max=1000"`
	}

	CreateLineItemRequest struct {
		ItemType    string   `json:"item_type" validate:"required,max=50"`
		Description string   `json:"description" validate:"required,max=500"`
		Severity    string   `json:"severity" validate:"required,oneof=good warning critical"`
		Status      string   `json:"status" validate:"required,oneof=passed attention failed"`
		Cost        *float64 `json:"cost" validate:"omitempty,min=0"`
		Notes       string   `json:"notes" validate:"omitempty,max=1000"`
	}

	UpdateLineItemRequest struct {
		ItemType    *string  `json:"item_type" validate:"omitempty,max=50"`
		Description *string  `json:"description" validate:"omitempty,max=500"`
		Severity    *string  `json:"severity" validate:"omitempty,oneof=good warning critical"`
		Status      *string  `json:"status" validate:"omitempty,oneof=passed attention failed"`
		Cost        *float64 `json:"cost" validate:"omitempty,min=0"`
		Notes       *string  `json:"notes" validate:"omitempty,max=1000"`
	}

	InspectionFilter struct {
		Status     string
		MechanicID *uint
		Search     string
		StartDate  *time.Time
		EndDate    *time.Time
		Page       int
		Limit      int
	}

	InspectionResponse struct {
		ID             uint      `json:"id"`
		VehicleVIN     string    `json:"vehicle_vin"`
		CustomerID     uint      `json:"customer_id"`
		MechanicID     *uint     `json:"mechanic_id,omitempty"`
		MechanicName   string    `json:"mechanic_name,omitempty"`
		InspectionDate time.Time `json:"inspection_date"`
		Status         string    `json:"status"`
		TotalAmount    float64   `json:"total_amount"`
		Notes          string    `json:"notes,omitempty"`
		CreatedAt      time.Time `json:"created_at"`
		UpdatedAt      time.Time `json:"updated_at"`
	}

	LineItemResponse struct {
		ID           uint      `json:"id"`
		InspectionID uint      `json:"inspection_id"`
		ItemType     string    `json:"item_type"`
		Description  string    `json:"description"`
		Severity     string    `json:"severity"`
		Status       string    `json:"status"`
		Cost         float64   `json:"cost"`
		Photos       []string  `json:"photos"`
		Notes        string    `json:"notes,omitempty"`
		CreatedAt    time.Time `json:"created_at"`
	}

	InspectionDetailResponse struct {
		InspectionResponse
		LineItems []LineItemResponse `json:"line_items"`
	}

	SeverityCount struct {
		Severity string `json:"severity"`
		Count    int64  `json:"count"`
	}

	InspectionStatsResponse struct {
		TotalInspections      int64           `json:"total_inspections"`
		CompletedInspections  int64           `json:"completed_inspections"`
		InProgressInspections int64           `json:"in_progress_inspections"`
		PendingInspections    int64           `json:"pending_inspections"`
		AvgCompletionTime     float64         `json:"avg_completion_time"` // minutes
		DailyInspections      int64           `json:"daily_inspections"`
		WeeklyInspections     int64           `json:"weekly_inspections"`
		MonthlyInspections    int64           `json:"monthly_inspections"`
		TotalRevenue          float64         `json:"total_revenue"`
		AvgInspectionValue    float64         `json:"avg_inspection_value"`
		SeverityDistribution  []SeverityCount `json:"severity_distribution"`
	}

	ReportSummary struct {
		TotalItems     int     `json:"total_items"`
		PassedItems    int     `json:"passed_items"`
		AttentionItems int     `json:"attention_items"`
		FailedItems    int     `json:"failed_items"`
		TotalCost      float64 `json:"total_cost"`
	}

	InspectionReportResponse struct {
		Inspection  InspectionResponse `json:"inspection"`
		LineItems   []LineItemResponse `json:"line_items"`
		Summary     ReportSummary      `json:"summary"`
		GeneratedAt time.Time          `json:"generated_at"`
	}

	CompleteInspectionResponse struct {
		InspectionID uint      `json:"inspection_id"`
		CompletedAt  time.Time `json:"completed_at"`
	}
)
