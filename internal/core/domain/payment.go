package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of an external payment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// Payment is a pending obligation supplied by the payment subsystem.
// The sum of a user's pending payments reduces their available credit.
type Payment struct {
	ID             uuid.UUID       `json:"id"`
	SenderID       uuid.UUID       `json:"sender_id"`
	CurrencyAmount decimal.Decimal `json:"currency_amount"`
	Status         PaymentStatus   `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

// IsPending reports whether the payment still counts against credit.
func (p *Payment) IsPending() bool {
	return p.Status == PaymentStatusPending
}
