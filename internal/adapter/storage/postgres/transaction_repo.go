package postgres

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository. The ledger is
// append-only: there are no update or delete operations.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const transactionColumns = `id, wallet_from, wallet_to, amount, is_bonification, is_euro_purchase, made_by_admin, concept, created_at`

// Create inserts a new transaction within a database transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, wallet_from, wallet_to, amount, is_bonification, is_euro_purchase, made_by_admin, concept, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.WalletFrom, t.WalletTo, t.Amount,
		t.IsBonification, t.IsEuroPurchase, t.MadeByAdmin,
		t.Concept, t.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a transaction by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	return r.scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// ListByWallet fetches all transactions touching a wallet, oldest first.
func (r *TransactionRepo) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE wallet_from = $1 OR wallet_to = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(
			&t.ID, &t.WalletFrom, &t.WalletTo, &t.Amount,
			&t.IsBonification, &t.IsEuroPurchase, &t.MadeByAdmin,
			&t.Concept, &t.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}

// scanTransaction is a helper to scan a single row into a Transaction.
func (r *TransactionRepo) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(
		&t.ID, &t.WalletFrom, &t.WalletTo, &t.Amount,
		&t.IsBonification, &t.IsEuroPurchase, &t.MadeByAdmin,
		&t.Concept, &t.Timestamp,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}
