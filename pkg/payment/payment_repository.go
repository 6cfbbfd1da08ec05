package payment

import (
	"context"
	"time"

	"github.com/kayleschmoyer/DVIC/entities"
	"gorm.io/gorm"
)

type (
	PaymentRepository interface {
		CreatePayment(ctx context.Context, payment *entities.Payment) error
		GetPaymentByOrderID(ctx context.Context, orderID string) (*entities.Payment, error)
		GetPaymentsByInspection(ctx context.Context, inspectionID uint) ([]*entities.Payment, error)
		UpdateStatusByOrderID(ctx context.Context, orderID string, status string) error
	}

	paymentRepository struct {
		db *gorm.DB
	}
)

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) CreatePayment(ctx context.Context, payment *entities.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) GetPaymentByOrderID(ctx context.Context, orderID string) (*entities.Payment, error) {
	var payment entities.Payment
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) GetPaymentsByInspection(ctx context.Context, inspectionID uint) ([]*entities.Payment, error) {
	var payments []*entities.Payment
	if err := r.db.WithContext(ctx).
		Where("inspection_id = ?", inspectionID).
		Order("id asc").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) UpdateStatusByOrderID(ctx context.Context, orderID string, status string) error {
	res := r.db.WithContext(ctx).Model(&entities.Payment{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
