package mechanic

import (
	"context"

	"github.com/kayleschmoyer/DVIC/entities"
	"gorm.io/gorm"
)

type (
	MechanicRepository interface {
		CreateMechanic(ctx context.Context, mechanic *entities.Mechanic) error
		GetMechanicByID(ctx context.Context, id uint) (*entities.Mechanic, error)
		GetMechanicByEmail(ctx context.Context, email string) (*entities.Mechanic, error)
		GetActiveMechanics(ctx context.Context) ([]*entities.Mechanic, error)
		UpdateMechanic(ctx context.Context, id uint, fields map[string]interface{}) error
		CountInspections(ctx context.Context, mechanicID uint) (total int64, completed int64, err error)
		GetMechanicStats(ctx context.Context, mechanicID uint) (*MechanicStatsRow, error)
	}

	mechanicRepository struct {
		db *gorm.DB
	}

	MechanicStatsRow struct {
		TotalInspections      int64
		CompletedInspections  int64
		InProgressInspections int64
		AvgInspectionTime     float64
		WeeklyInspections     int64
		MonthlyInspections    int64
	}
)

func NewMechanicRepository(db *gorm.DB) MechanicRepository {
	return &mechanicRepository{db: db}
}

func (r *mechanicRepository) CreateMechanic(ctx context.Context, mechanic *entities.Mechanic) error {
	return r.db.WithContext(ctx).Create(mechanic).Error
}

func (r *mechanicRepository) GetMechanicByID(ctx context.Context, id uint) (*entities.Mechanic, error) {
	var mechanic entities.Mechanic
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&mechanic).Error; err != nil {
		return nil, err
	}
	return &mechanic, nil
}

func (r *mechanicRepository) GetMechanicByEmail(ctx context.Context, email string) (*entities.Mechanic, error) {
	var mechanic entities.Mechanic
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&mechanic).Error; err != nil {
		return nil, err
	}
	return &mechanic, nil
}

func (r *mechanicRepository) GetActiveMechanics(ctx context.Context) ([]*entities.Mechanic, error) {
	var mechanics []*entities.Mechanic
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name asc").
		Find(&mechanics).Error; err != nil {
		return nil, err
	}
	return mechanics, nil
}

func (r *mechanicRepository) UpdateMechanic(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&entities.Mechanic{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *mechanicRepository) CountInspections(ctx context.Context, mechanicID uint) (int64, int64, error) {
	var total, completed int64

	if err := r.db.WithContext(ctx).Model(&entities.Inspection{}).
		Where("mechanic_id = ?", mechanicID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&entities.Inspection{}).
		Where("mechanic_id = ? AND status = ?", mechanicID, "completed").
		Count(&completed).Error; err != nil {
		return 0, 0, err
	}
	return total, completed, nil
}

func (r *mechanicRepository) GetMechanicStats(ctx context.Context, mechanicID uint) (*MechanicStatsRow, error) {
	var row MechanicStatsRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total_inspections,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed_inspections,
			COUNT(*) FILTER (WHERE status = 'in-progress') AS in_progress_inspections,
			COALESCE(AVG(EXTRACT(EPOCH FROM (updated_at - created_at)) / 60), 0) AS avg_inspection_time,
			COUNT(*) FILTER (WHERE inspection_date >= NOW() - INTERVAL '7 days') AS weekly_inspections,
			COUNT(*) FILTER (WHERE inspection_date >= NOW() - INTERVAL '30 days') AS monthly_inspections
		FROM inspections
		WHERE mechanic_id = ?`, mechanicID).Scan(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
