package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Default concepts, derived when the caller supplies none.
const (
	ConceptBonification  = "Bonificación en boniatos por compra"
	ConceptTransfer      = "Transferencia"
	ConceptDebitPurchase = "Compra de boniatos"
)

// Transaction is an immutable record of value movement between at most
// two wallets. A nil WalletFrom means external/inbound funding (top-up,
// bonus); corrections are new offsetting transactions, never edits.
type Transaction struct {
	ID             uuid.UUID       `json:"id"`
	WalletFrom     *uuid.UUID      `json:"wallet_from,omitempty"`
	WalletTo       uuid.UUID       `json:"wallet_to"`
	Amount         decimal.Decimal `json:"amount"`
	IsBonification bool            `json:"is_bonification"`
	IsEuroPurchase bool            `json:"is_euro_purchase"`
	MadeByAdmin    bool            `json:"made_by_admin"`
	Concept        string          `json:"concept,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

// IsInbound reports whether the transaction has no sending wallet.
func (t *Transaction) IsInbound() bool {
	return t.WalletFrom == nil
}
