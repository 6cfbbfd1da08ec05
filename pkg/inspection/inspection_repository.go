package inspection

import (
	"context"

	"github.com/kayleschmoyer/DVIC/domain"
	"github.com/kayleschmoyer/DVIC/entities"
	"gorm.io/gorm"
)

type (
	InspectionRepository interface {
		CreateInspection(ctx context.Context, inspection *entities.Inspection) error
		GetInspections(ctx context.Context, filter domain.InspectionFilter) ([]*entities.Inspection, int64, error)
		GetInspectionByID(ctx context.Context, id uint) (*entities.Inspection, error)
		UpdateInspection(ctx context.Context, id uint, fields map[string]interface{}) error

		AddLineItem(ctx context.Context, lineItem *entities.LineItem) error
		GetLineItemByID(ctx context.Context, id uint) (*entities.LineItem, error)
		GetLineItems(ctx context.Context, inspectionID uint) ([]*entities.LineItem, error)
		UpdateLineItem(ctx context.Context, id uint, fields map[string]interface{}) error
		DeleteLineItem(ctx context.Context, id uint) error
		AppendPhoto(ctx context.Context, lineItemID uint, fileName string) error

		RecalculateTotal(ctx context.Context, inspectionID uint) error

		GetStats(ctx context.Context, mechanicID *uint) (*StatsRow, error)
		GetSeverityDistribution(ctx context.Context, mechanicID *uint) ([]domain.SeverityCount, error)
	}

	inspectionRepository struct {
		db *gorm.DB
	}

	// StatsRow is the scan target for the aggregate statistics query.
	StatsRow struct {
		TotalInspections      int64
		CompletedInspections  int64
		InProgressInspections int64
		PendingInspections    int64
		AvgCompletionTime     float64
		DailyInspections      int64
		WeeklyInspections     int64
		MonthlyInspections    int64
		TotalRevenue          float64
		AvgInspectionValue    float64
	}
)

func NewInspectionRepository(db *gorm.DB) InspectionRepository {
	return &inspectionRepository{db: db}
}

func (r *inspectionRepository) CreateInspection(ctx context.Context, inspection *entities.Inspection) error {
	return r.db.WithContext(ctx).Create(inspection).Error
}

func (r *inspectionRepository) GetInspections(ctx context.Context, filter domain.InspectionFilter) ([]*entities.Inspection, int64, error) {
	var inspections []*entities.Inspection
	var count int64

	query := r.db.WithContext(ctx).Model(&entities.Inspection{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.MechanicID != nil {
		query = query.Where("mechanic_id = ?", *filter.MechanicID)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("vehicle_vin ILIKE ? OR notes ILIKE ?", search, search)
	}
	if filter.StartDate != nil {
		query = query.Where("inspection_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("inspection_date <= ?", *filter.EndDate)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.
		Preload("Mechanic").
		Order("inspection_date DESC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&inspections).Error; err != nil {
		return nil, 0, err
	}

	return inspections, count, nil
}

func (r *inspectionRepository) GetInspectionByID(ctx context.Context, id uint) (*entities.Inspection, error) {
	var inspection entities.Inspection
	if err := r.db.WithContext(ctx).Preload("Mechanic").Where("id = ?", id).First(&inspection).Error; err != nil {
		return nil, err
	}
	return &inspection, nil
}

func (r *inspectionRepository) UpdateInspection(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&entities.Inspection{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *inspectionRepository) AddLineItem(ctx context.Context, lineItem *entities.LineItem) error {
	return r.db.WithContext(ctx).Create(lineItem).Error
}

func (r *inspectionRepository) GetLineItemByID(ctx context.Context, id uint) (*entities.LineItem, error) {
	var lineItem entities.LineItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&lineItem).Error; err != nil {
		return nil, err
	}
	return &lineItem, nil
}

func (r *inspectionRepository) GetLineItems(ctx context.Context, inspectionID uint) ([]*entities.LineItem, error) {
	var lineItems []*entities.LineItem
	if err := r.db.WithContext(ctx).
		Where("inspection_id = ?", inspectionID).
		Order("id asc").
		Find(&lineItems).Error; err != nil {
		return nil, err
	}
	return lineItems, nil
}

func (r *inspectionRepository) UpdateLineItem(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&entities.LineItem{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *inspectionRepository) DeleteLineItem(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.LineItem{}).Error
}

// AppendPhoto appends one object key to the photos array in a single
// statement, so two concurrent attaches can never lose each other's write.
func (r *inspectionRepository) AppendPhoto(ctx context.Context, lineItemID uint, fileName string) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE line_items
		SET photos = COALESCE(photos, '[]'::jsonb) || to_jsonb(?::text),
		    updated_at = NOW()
		WHERE id = ?`, fileName, lineItemID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RecalculateTotal re-derives the inspection total from the current
// line-item rows in one statement. It is a pure re-aggregation, so the
// last writer always leaves a total consistent with the rows that exist.
func (r *inspectionRepository) RecalculateTotal(ctx context.Context, inspectionID uint) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE inspections
		SET total_amount = (
			SELECT COALESCE(SUM(cost), 0)
			FROM line_items
			WHERE inspection_id = ?
		),
		updated_at = NOW()
		WHERE id = ?`, inspectionID, inspectionID).Error
}

func (r *inspectionRepository) GetStats(ctx context.Context, mechanicID *uint) (*StatsRow, error) {
	query := `
		SELECT
			COUNT(*) AS total_inspections,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed_inspections,
			COUNT(*) FILTER (WHERE status = 'in-progress') AS in_progress_inspections,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending_inspections,
			COALESCE(AVG(EXTRACT(EPOCH FROM (updated_at - created_at)) / 60)
				FILTER (WHERE status = 'completed'), 0) AS avg_completion_time,
			COUNT(*) FILTER (WHERE inspection_date >= NOW() - INTERVAL '1 day') AS daily_inspections,
			COUNT(*) FILTER (WHERE inspection_date >= NOW() - INTERVAL '7 days') AS weekly_inspections,
			COUNT(*) FILTER (WHERE inspection_date >= NOW() - INTERVAL '30 days') AS monthly_inspections,
			COALESCE(SUM(total_amount), 0) AS total_revenue,
			COALESCE(AVG(total_amount), 0) AS avg_inspection_value
		FROM inspections`

	var row StatsRow
	tx := r.db.WithContext(ctx)
	if mechanicID != nil {
		tx = tx.Raw(query+" WHERE mechanic_id = ?", *mechanicID)
	} else {
		tx = tx.Raw(query)
	}
	if err := tx.Scan(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *inspectionRepository) GetSeverityDistribution(ctx context.Context, mechanicID *uint) ([]domain.SeverityCount, error) {
	query := `
		SELECT l.severity, COUNT(*) AS count
		FROM line_items l
		INNER JOIN inspections e ON l.inspection_id = e.id`

	var distribution []domain.SeverityCount
	tx := r.db.WithContext(ctx)
	if mechanicID != nil {
		tx = tx.Raw(query+" WHERE e.mechanic_id = ? GROUP BY l.severity", *mechanicID)
	} else {
		tx = tx.Raw(query + " GROUP BY l.severity")
	}
	if err := tx.Scan(&distribution).Error; err != nil {
		return nil, err
	}
	if distribution == nil {
		distribution = []domain.SeverityCount{}
	}
	return distribution, nil
}
