package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/kayleschmoyer/DVIC/domain"
	"github.com/kayleschmoyer/DVIC/entities"
	"github.com/kayleschmoyer/DVIC/internal/utils"
	"github.com/kayleschmoyer/DVIC/pkg/inspection"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"
)

type (
	// PaymentService turns a completed inspection's total into a
	// Midtrans Snap transaction and keeps the payment row in sync with
	// gateway notifications.
	PaymentService interface {
		CreateEstimatePayment(ctx context.Context, inspectionID uint) (domain.CreatePaymentResponse, error)
		GetInspectionPayments(ctx context.Context, inspectionID uint) ([]domain.PaymentResponse, error)
		HandleNotification(ctx context.Context, req domain.MidtransNotificationRequest) error
	}

	paymentService struct {
		paymentRepository    PaymentRepository
		inspectionRepository inspection.InspectionRepository
		snapClient           snap.Client
	}
)

func NewPaymentService(paymentRepository PaymentRepository, inspectionRepository inspection.InspectionRepository) PaymentService {
	env := midtrans.Sandbox
	if utils.GetConfig("IsProd") == "true" {
		env = midtrans.Production
	}

	var snapClient snap.Client
	snapClient.New(utils.GetConfig("SERVER_KEY"), env)

	return &paymentService{
		paymentRepository:    paymentRepository,
		inspectionRepository: inspectionRepository,
		snapClient:           snapClient,
	}
}

func (s *paymentService) CreateEstimatePayment(ctx context.Context, inspectionID uint) (domain.CreatePaymentResponse, error) {
	insp, err := s.inspectionRepository.GetInspectionByID(ctx, inspectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CreatePaymentResponse{}, domain.ErrInspectionNotFound
		}
		return domain.CreatePaymentResponse{}, err
	}
	if insp.Status != "completed" {
		return domain.CreatePaymentResponse{}, domain.ErrInspectionNotCompleted
	}
	if insp.TotalAmount <= 0 {
		return domain.CreatePaymentResponse{}, domain.ErrNothingToPay
	}

	orderID := fmt.Sprintf("DVIC-%d-%s", inspectionID, strings.Split(uuid.New().String(), "-")[0])
	gross := grossAmount(insp.TotalAmount)
	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: gross,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    fmt.Sprintf("inspection-%d", inspectionID),
				Name:  fmt.Sprintf("Vehicle inspection %s", insp.VehicleVIN),
				Price: gross,
				Qty:   1,
			},
		},
	}

	snapResp, snapErr := s.snapClient.CreateTransaction(snapReq)
	if snapErr != nil {
		return domain.CreatePaymentResponse{}, domain.ErrPaymentGateway
	}

	payment := &entities.Payment{
		InspectionID: inspectionID,
		OrderID:      orderID,
		Amount:       insp.TotalAmount,
		Status:       "pending",
		SnapToken:    snapResp.Token,
		RedirectURL:  snapResp.RedirectURL,
	}
	if err := s.paymentRepository.CreatePayment(ctx, payment); err != nil {
		return domain.CreatePaymentResponse{}, err
	}

	return domain.CreatePaymentResponse{
		PaymentID:   payment.ID,
		OrderID:     orderID,
		Amount:      payment.Amount,
		SnapToken:   payment.SnapToken,
		RedirectURL: payment.RedirectURL,
	}, nil
}

func (s *paymentService) GetInspectionPayments(ctx context.Context, inspectionID uint) ([]domain.PaymentResponse, error) {
	if _, err := s.inspectionRepository.GetInspectionByID(ctx, inspectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInspectionNotFound
		}
		return nil, err
	}

	payments, err := s.paymentRepository.GetPaymentsByInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}

	response := make([]domain.PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		response = append(response, domain.PaymentResponse{
			ID:        payment.ID,
			OrderID:   payment.OrderID,
			Amount:    payment.Amount,
			Status:    payment.Status,
			CreatedAt: payment.CreatedAt,
		})
	}
	return response, nil
}

// HandleNotification is idempotent: Midtrans retries notifications, and
// a repeat of an already-applied status is acknowledged without a write.
func (s *paymentService) HandleNotification(ctx context.Context, req domain.MidtransNotificationRequest) error {
	status := mapTransactionStatus(req.TransactionStatus, req.FraudStatus)
	if status == "" {
		return nil
	}

	payment, err := s.paymentRepository.GetPaymentByOrderID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrPaymentNotFound
		}
		return err
	}
	if payment.Status == status {
		return nil
	}

	if err := s.paymentRepository.UpdateStatusByOrderID(ctx, req.OrderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrPaymentNotFound
		}
		return err
	}
	return nil
}

// grossAmount converts a scale-2 total to the whole currency units the
// gateway expects, rounding rather than truncating the fraction.
func grossAmount(amount float64) int64 {
	return int64(math.Round(amount))
}

func mapTransactionStatus(transactionStatus, fraudStatus string) string {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "accept" {
			return "settled"
		}
		return "pending"
	case "settlement":
		return "settled"
	case "deny", "cancel":
		return "failed"
	case "expire":
		return "expired"
	case "pending":
		return "pending"
	default:
		return ""
	}
}
