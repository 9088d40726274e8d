package ports

import (
	"context"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Role identifies which side of a transaction a balance update applies to.
type Role string

const (
	RoleSender   Role = "sender"
	RoleReceiver Role = "receiver"
)

// BalanceEngine computes credit and applies transaction effects to
// wallet balances.
type BalanceEngine interface {
	// AvailableCredit is balance + credit limit - pending payments.
	AvailableCredit(ctx context.Context, wallet *domain.Wallet) (decimal.Decimal, error)
	// CanAfford reports whether the wallet covers amount. A pending
	// inFlight payment is added back so it does not count against itself.
	CanAfford(ctx context.Context, wallet *domain.Wallet, amount decimal.Decimal, inFlight *domain.Payment) (bool, error)
	// Apply unconditionally applies the transaction effect for the given
	// role inside tx and appends one audit log entry. Validation must
	// already have happened.
	Apply(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet, transaction *domain.Transaction, role Role) error
}

// ExecuteRequest holds validated input for transaction processing.
type ExecuteRequest struct {
	InitiatorID     uuid.UUID
	Amount          decimal.Decimal
	CounterpartyID  *uuid.UUID // nil = inbound funding of the initiator
	Concept         string
	Bonus           bool
	IsEuroPurchase  bool
	InFlightPayment *domain.Payment
	MadeByAdmin     bool
}

// LedgerService orchestrates atomic transaction creation and the
// two-sided balance update.
type LedgerService interface {
	Execute(ctx context.Context, req ExecuteRequest) (*domain.Transaction, error)
	DebitPurchase(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal, concept string) (*domain.Transaction, error)
}

// TypeRegistry resolves and assigns wallet types.
type TypeRegistry interface {
	// Resolve returns nil, nil when the key does not exist.
	Resolve(ctx context.Context, key string) (*domain.WalletType, error)
	// AssignType resolves key (empty key means default) and assigns it to
	// the wallet. An unresolved key leaves the wallet unchanged.
	AssignType(ctx context.Context, wallet *domain.Wallet, key string) error
}

// PinService manages wallet PIN codes. Raw PINs are never persisted.
type PinService interface {
	SetPin(ctx context.Context, walletID uuid.UUID, rawPin string) error
	SetUserPin(ctx context.Context, userID uuid.UUID, rawPin string) error
	VerifyPin(ctx context.Context, walletID uuid.UUID, rawPin string) error
}

// PinHasher handles PIN hashing (Argon2id).
type PinHasher interface {
	Hash(rawPin string) (string, error)
	Verify(rawPin string, hash string) (bool, error)
}

// Provisioner is the wallet provisioning boundary invoked by the
// user-management layer on lifecycle events.
type Provisioner interface {
	UserCreated(ctx context.Context, userID uuid.UUID, role string) error
	EntityProfileCreated(ctx context.Context, userID uuid.UUID) error
	PersonProfileCreated(ctx context.Context, userID uuid.UUID) error
}

// Notifier dispatches push notifications. Delivery is best-effort; no
// return value is relied upon and failures are swallowed by adapters.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message string, data map[string]string, silent bool)
}

// DeviceStore resolves a user's push device token.
type DeviceStore interface {
	// GetToken returns "" when the user has no registered device.
	GetToken(ctx context.Context, userID uuid.UUID) (string, error)
	SetToken(ctx context.Context, userID uuid.UUID, token string) error
}
