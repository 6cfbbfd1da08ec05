package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessRegister       = "mechanic registered successfully"
	MessageSuccessLogin          = "login successful"
	MessageSuccessMe             = "profile retrieved successfully"
	MessageSuccessGetMechanics   = "mechanics retrieved successfully"
	MessageSuccessGetMechanic    = "mechanic retrieved successfully"
	MessageSuccessUpdateMechanic = "mechanic updated successfully"
	MessageSuccessMechanicStats  = "mechanic statistics retrieved successfully"

	MessageFailedRegister       = "failed to register mechanic"
	MessageFailedLogin          = "failed to login"
	MessageFailedMe             = "failed to retrieve profile"
	MessageFailedGetMechanics   = "failed to retrieve mechanics"
	MessageFailedGetMechanic    = "failed to retrieve mechanic"
	MessageFailedUpdateMechanic = "failed to update mechanic"
	MessageFailedMechanicStats  = "failed to retrieve mechanic statistics"

	ErrMechanicNotFound       = errors.New("mechanic not found")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrNoFieldsToUpdate       = errors.New("no fields to update")
)

type (
	RegisterRequest struct {
		Name     string `json:"name" validate:"required,min=2,max=100"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
		Phone    string `json:"phone" validate:"omitempty,max=20"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	AuthUser struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}

	AuthResponse struct {
		Token string   `json:"token"`
		User  AuthUser `json:"user"`
	}

	MechanicResponse struct {
		ID             uint      `json:"id"`
		Name           string    `json:"name"`
		Email          string    `json:"email"`
		Phone          string    `json:"phone,omitempty"`
		Certifications string    `json:"certifications,omitempty"`
		Role           string    `json:"role"`
		Active         bool      `json:"active"`
		CreatedAt      time.Time `json:"created_at"`
	}

	MechanicDetailResponse struct {
		MechanicResponse
		TotalInspections     int64 `json:"total_inspections"`
		CompletedInspections int64 `json:"completed_inspections"`
	}

	UpdateMechanicRequest struct {
		Name           *string `json:"name" validate:"omitempty,min=2,max=100"`
		Phone          *string `json:"phone" validate:"omitempty,max=20"`
		Certifications *string `json:"certifications" validate:"omitempty,max=2000"`
	}

	MechanicStatsResponse struct {
		TotalInspections      int64   `json:"total_inspections"`
		CompletedInspections  int64   `json:"completed_inspections"`
		InProgressInspections int64   `json:"in_progress_inspections"`
		AvgInspectionTime     float64 `json:"avg_inspection_time"` // minutes
		WeeklyInspections     int64   `json:"weekly_inspections"`
		MonthlyInspections    int64   `json:"monthly_inspections"`
	}
)
