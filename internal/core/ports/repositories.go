package ports

import (
	"context"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx are used inside transaction blocks for
// pessimistic locking.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	GetByTypeID(ctx context.Context, typeID string) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal, lastTransaction time.Time) error
	UpdateType(ctx context.Context, walletID uuid.UUID, typeID string) error
	UpdatePinHash(ctx context.Context, walletID uuid.UUID, pinHash string) error
}

// WalletTypeRepository defines persistence for wallet type reference data.
type WalletTypeRepository interface {
	Upsert(ctx context.Context, walletType *domain.WalletType) error
	// Get returns nil, nil when no type with the given key exists.
	Get(ctx context.Context, id string) (*domain.WalletType, error)
}

// TransactionRepository defines persistence for the append-only
// transaction ledger. Rows are never updated or deleted.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error)
}

// TransactionLogRepository defines persistence for the audit trail.
type TransactionLogRepository interface {
	Create(ctx context.Context, tx pgx.Tx, entry *domain.TransactionLog) error
	// ListByWallet returns the wallet's audit entries in timestamp order.
	ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.TransactionLog, error)
}

// PaymentRepository is the query contract against the payment subsystem.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	// SumPendingAmount returns the total currency amount of pending
	// payments where the given user is the payer, zero if none.
	SumPendingAmount(ctx context.Context, senderID uuid.UUID) (decimal.Decimal, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
