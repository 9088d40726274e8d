package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet is a balance-holding account. A wallet may belong to no user
// (e.g. the system debit wallet) and may be untyped until provisioning
// resolves its type. Balance is the durable ledger truth; it is only
// ever mutated through a transaction-driven balance update.
type Wallet struct {
	ID              uuid.UUID       `json:"id"`
	UserID          *uuid.UUID      `json:"user_id,omitempty"`
	TypeID          *string         `json:"type_id,omitempty"`
	Balance         decimal.Decimal `json:"balance"`
	LastTransaction *time.Time      `json:"last_transaction,omitempty"`
	PinHash         *string         `json:"-"` // Argon2id, never plaintext
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// HasPin reports whether a PIN has been set on the wallet.
func (w *Wallet) HasPin() bool {
	return w.PinHash != nil && *w.PinHash != ""
}

// IsTyped reports whether the wallet's type has been resolved.
func (w *Wallet) IsTyped() bool {
	return w.TypeID != nil && *w.TypeID != ""
}
