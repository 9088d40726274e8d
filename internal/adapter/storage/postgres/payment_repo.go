package postgres

import (
	"context"
	"fmt"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRepo implements ports.PaymentRepository, the query contract
// the balance engine holds against the payment subsystem.
type PaymentRepo struct {
	pool Pool
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(pool Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// Create inserts a payment record.
func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (id, sender_id, currency_amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, p.ID, p.SenderID, p.CurrencyAmount, p.Status, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// SumPendingAmount returns the total currency amount of pending
// payments where the user is the payer, zero if none.
func (r *PaymentRepo) SumPendingAmount(ctx context.Context, senderID uuid.UUID) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(currency_amount), 0) FROM payments WHERE sender_id = $1 AND status = $2`

	var sum decimal.Decimal
	err := r.pool.QueryRow(ctx, query, senderID, domain.PaymentStatusPending).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum pending payments: %w", err)
	}
	return sum, nil
}
