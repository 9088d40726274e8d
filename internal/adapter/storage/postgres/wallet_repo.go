package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

const walletColumns = `id, user_id, type_id, balance, last_transaction, pin_hash, created_at, updated_at`

// Create inserts a new wallet into the database. wallets.user_id is
// UNIQUE, so concurrent provisioning for the same user fails here
// instead of creating a second wallet.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	query := `INSERT INTO wallets (id, user_id, type_id, balance, last_transaction, pin_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		w.ID, w.UserID, w.TypeID, w.Balance,
		w.LastTransaction, w.PinHash, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByID fetches a wallet by its UUID (without locking).
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	return r.scanWallet(r.pool.QueryRow(ctx, query, id))
}

// GetByUserID fetches the wallet owned by a user. One wallet per user.
func (r *WalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1`

	return r.scanWallet(r.pool.QueryRow(ctx, query, userID))
}

// GetByTypeID fetches the first wallet of a given type. Used to locate
// distinguished system wallets such as the debit wallet.
func (r *WalletRepo) GetByTypeID(ctx context.Context, typeID string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE type_id = $1 ORDER BY created_at LIMIT 1`

	return r.scanWallet(r.pool.QueryRow(ctx, query, typeID))
}

// GetByIDForUpdate fetches a wallet by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 FOR UPDATE`

	return r.scanWallet(tx.QueryRow(ctx, query, id))
}

// UpdateBalance updates a wallet's balance and last transaction time
// within a transaction.
func (r *WalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal, lastTransaction time.Time) error {
	query := `UPDATE wallets SET balance = $1, last_transaction = $2, updated_at = NOW() WHERE id = $3`

	tag, err := tx.Exec(ctx, query, balance, lastTransaction, walletID)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	return nil
}

// UpdateType assigns a wallet type.
func (r *WalletRepo) UpdateType(ctx context.Context, walletID uuid.UUID, typeID string) error {
	query := `UPDATE wallets SET type_id = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, typeID, walletID)
	if err != nil {
		return fmt.Errorf("update wallet type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	return nil
}

// UpdatePinHash stores a new PIN hash. The raw PIN never reaches this layer.
func (r *WalletRepo) UpdatePinHash(ctx context.Context, walletID uuid.UUID, pinHash string) error {
	query := `UPDATE wallets SET pin_hash = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, pinHash, walletID)
	if err != nil {
		return fmt.Errorf("update wallet pin hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	return nil
}

// scanWallet is a helper to scan a single row into a Wallet.
func (r *WalletRepo) scanWallet(row pgx.Row) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	err := row.Scan(
		&w.ID, &w.UserID, &w.TypeID, &w.Balance,
		&w.LastTransaction, &w.PinHash, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan wallet: %w", err)
	}
	return w, nil
}
