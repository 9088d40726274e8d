package postgres

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// WalletTypeRepo implements ports.WalletTypeRepository.
type WalletTypeRepo struct {
	pool Pool
}

// NewWalletTypeRepo creates a new WalletTypeRepo.
func NewWalletTypeRepo(pool Pool) *WalletTypeRepo {
	return &WalletTypeRepo{pool: pool}
}

// Upsert inserts or updates a wallet type. Reference data is seeded at
// bootstrap and never touched by end-user actions.
func (r *WalletTypeRepo) Upsert(ctx context.Context, wt *domain.WalletType) error {
	query := `INSERT INTO wallet_types (id, credit_limit, unlimited)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET credit_limit = EXCLUDED.credit_limit, unlimited = EXCLUDED.unlimited`

	_, err := r.pool.Exec(ctx, query, wt.ID, wt.CreditLimit, wt.Unlimited)
	if err != nil {
		return fmt.Errorf("upsert wallet type: %w", err)
	}
	return nil
}

// Get fetches a wallet type by key. Returns nil, nil on miss.
func (r *WalletTypeRepo) Get(ctx context.Context, id string) (*domain.WalletType, error) {
	query := `SELECT id, credit_limit, unlimited FROM wallet_types WHERE id = $1`

	wt := &domain.WalletType{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&wt.ID, &wt.CreditLimit, &wt.Unlimited)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet type: %w", err)
	}
	return wt, nil
}
