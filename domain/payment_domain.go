package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessCreatePayment = "payment created successfully"
	MessageSuccessNotification  = "payment notification processed"
	MessageSuccessGetPayments   = "payments retrieved successfully"

	MessageFailedCreatePayment = "failed to create payment"
	MessageFailedNotification  = "failed to process payment notification"
	MessageFailedGetPayments   = "failed to retrieve payments"

	ErrPaymentNotFound        = errors.New("payment not found")
	ErrInspectionNotCompleted = errors.New("inspection must be completed before payment")
	ErrNothingToPay           = errors.New("inspection total amount is zero")
	ErrPaymentGateway         = errors.New("payment gateway rejected the transaction")
)

type (
	CreatePaymentResponse struct {
		PaymentID   uint    `json:"payment_id"`
		OrderID     string  `json:"order_id"`
		Amount      float64 `json:"amount"`
		SnapToken   string  `json:"snap_token"`
		RedirectURL string  `json:"redirect_url"`
	}

	PaymentResponse struct {
		ID        uint      `json:"id"`
		OrderID   string    `json:"order_id"`
		Amount    float64   `json:"amount"`
		Status    string    `json:"status"`
		CreatedAt time.Time `json:"created_at"`
	}

	// MidtransNotificationRequest carries the fields of a Midtrans HTTP
	// notification that drive the payment state transition.
	MidtransNotificationRequest struct {
		OrderID           string `json:"order_id" validate:"required"`
		TransactionStatus string `json:"transaction_status" validate:"required"`
		FraudStatus       string `json:"fraud_status"`
	}
)
