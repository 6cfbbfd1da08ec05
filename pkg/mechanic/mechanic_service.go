package mechanic

import (
	"context"
	"errors"
	"time"

	"github.com/kayleschmoyer/DVIC/domain"
	"github.com/kayleschmoyer/DVIC/entities"
	"github.com/kayleschmoyer/DVIC/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	MechanicService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error)
		Me(ctx context.Context, mechanicID uint) (domain.MechanicResponse, error)
		GetMechanics(ctx context.Context) ([]domain.MechanicResponse, error)
		GetMechanicByID(ctx context.Context, id uint) (domain.MechanicDetailResponse, error)
		UpdateMechanic(ctx context.Context, id uint, req domain.UpdateMechanicRequest) error
		GetMechanicStats(ctx context.Context, id uint) (domain.MechanicStatsResponse, error)
	}

	mechanicService struct {
		mechanicRepository MechanicRepository
		jwtService         jwt.JWTService
	}
)

func NewMechanicService(mechanicRepository MechanicRepository, jwtService jwt.JWTService) MechanicService {
	return &mechanicService{
		mechanicRepository: mechanicRepository,
		jwtService:         jwtService,
	}
}

func (s *mechanicService) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error) {
	if _, err := s.mechanicRepository.GetMechanicByEmail(ctx, req.Email); err == nil {
		return domain.AuthResponse{}, domain.ErrEmailAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.AuthResponse{}, err
	}

	mechanic := &entities.Mechanic{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Role:         domain.RoleMechanic,
		Active:       true,
	}
	if err := s.mechanicRepository.CreateMechanic(ctx, mechanic); err != nil {
		return domain.AuthResponse{}, err
	}

	token := s.jwtService.GenerateTokenMechanic(mechanic.ID, mechanic.Email, mechanic.Role)
	return domain.AuthResponse{
		Token: token,
		User: domain.AuthUser{
			ID:    mechanic.ID,
			Name:  mechanic.Name,
			Email: mechanic.Email,
			Role:  mechanic.Role,
		},
	}, nil
}

func (s *mechanicService) Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error) {
	mechanic, err := s.mechanicRepository.GetMechanicByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AuthResponse{}, domain.ErrInvalidCredentials
		}
		return domain.AuthResponse{}, err
	}
	if !mechanic.Active {
		return domain.AuthResponse{}, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(mechanic.PasswordHash), []byte(req.Password)) != nil {
		return domain.AuthResponse{}, domain.ErrInvalidCredentials
	}

	token := s.jwtService.GenerateTokenMechanic(mechanic.ID, mechanic.Email, mechanic.Role)
	return domain.AuthResponse{
		Token: token,
		User: domain.AuthUser{
			ID:    mechanic.ID,
			Name:  mechanic.Name,
			Email: mechanic.Email,
			Role:  mechanic.Role,
		},
	}, nil
}

func (s *mechanicService) Me(ctx context.Context, mechanicID uint) (domain.MechanicResponse, error) {
	mechanic, err := s.mechanicRepository.GetMechanicByID(ctx, mechanicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.MechanicResponse{}, domain.ErrMechanicNotFound
		}
		return domain.MechanicResponse{}, err
	}
	return toMechanicResponse(mechanic), nil
}

func (s *mechanicService) GetMechanics(ctx context.Context) ([]domain.MechanicResponse, error) {
	mechanics, err := s.mechanicRepository.GetActiveMechanics(ctx)
	if err != nil {
		return nil, err
	}

	response := make([]domain.MechanicResponse, 0, len(mechanics))
	for _, mechanic := range mechanics {
		response = append(response, toMechanicResponse(mechanic))
	}
	return response, nil
}

func (s *mechanicService) GetMechanicByID(ctx context.Context, id uint) (domain.MechanicDetailResponse, error) {
	mechanic, err := s.mechanicRepository.GetMechanicByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.MechanicDetailResponse{}, domain.ErrMechanicNotFound
		}
		return domain.MechanicDetailResponse{}, err
	}

	total, completed, err := s.mechanicRepository.CountInspections(ctx, id)
	if err != nil {
		return domain.MechanicDetailResponse{}, err
	}

	return domain.MechanicDetailResponse{
		MechanicResponse:     toMechanicResponse(mechanic),
		TotalInspections:     total,
		CompletedInspections: completed,
	}, nil
}

func (s *mechanicService) UpdateMechanic(ctx context.Context, id uint, req domain.UpdateMechanicRequest) error {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Certifications != nil {
		fields["certifications"] = *req.Certifications
	}
	if len(fields) == 0 {
		return domain.ErrNoFieldsToUpdate
	}
	fields["updated_at"] = time.Now()

	if err := s.mechanicRepository.UpdateMechanic(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrMechanicNotFound
		}
		return err
	}
	return nil
}

func (s *mechanicService) GetMechanicStats(ctx context.Context, id uint) (domain.MechanicStatsResponse, error) {
	if _, err := s.mechanicRepository.GetMechanicByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.MechanicStatsResponse{}, domain.ErrMechanicNotFound
		}
		return domain.MechanicStatsResponse{}, err
	}

	row, err := s.mechanicRepository.GetMechanicStats(ctx, id)
	if err != nil {
		return domain.MechanicStatsResponse{}, err
	}
	return domain.MechanicStatsResponse{
		TotalInspections:      row.TotalInspections,
		CompletedInspections:  row.CompletedInspections,
		InProgressInspections: row.InProgressInspections,
		AvgInspectionTime:     row.AvgInspectionTime,
		WeeklyInspections:     row.WeeklyInspections,
		MonthlyInspections:    row.MonthlyInspections,
	}, nil
}

func toMechanicResponse(mechanic *entities.Mechanic) domain.MechanicResponse {
	return domain.MechanicResponse{
		ID:             mechanic.ID,
		Name:           mechanic.Name,
		Email:          mechanic.Email,
		Phone:          mechanic.Phone,
		Certifications: mechanic.Certifications,
		Role:           mechanic.Role,
		Active:         mechanic.Active,
		CreatedAt:      mechanic.CreatedAt,
	}
}
