package postgres

import (
	"context"
	"fmt"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionLogRepo implements ports.TransactionLogRepository.
// Entries are created exclusively as a side effect of balance updates
// and never mutated.
type TransactionLogRepo struct {
	pool Pool
}

// NewTransactionLogRepo creates a new TransactionLogRepo.
func NewTransactionLogRepo(pool Pool) *TransactionLogRepo {
	return &TransactionLogRepo{pool: pool}
}

// Create appends an audit entry within a database transaction.
func (r *TransactionLogRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.TransactionLog) error {
	query := `INSERT INTO transaction_log (id, wallet_id, transaction_id, resulting_balance, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := tx.Exec(ctx, query, e.ID, e.WalletID, e.TransactionID, e.ResultingBalance, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction log: %w", err)
	}
	return nil
}

// ListByWallet fetches a wallet's audit trail in timestamp order.
func (r *TransactionLogRepo) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.TransactionLog, error) {
	query := `SELECT id, wallet_id, transaction_id, resulting_balance, created_at
		FROM transaction_log WHERE wallet_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("list transaction log: %w", err)
	}
	defer rows.Close()

	var entries []domain.TransactionLog
	for rows.Next() {
		e := domain.TransactionLog{}
		if err := rows.Scan(&e.ID, &e.WalletID, &e.TransactionID, &e.ResultingBalance, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction log row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction log rows: %w", err)
	}
	return entries, nil
}
