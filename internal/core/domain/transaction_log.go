package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionLog is an append-only per-wallet audit entry snapshotting
// the wallet balance right after a transaction side-effect. A transfer
// touches two wallets and therefore produces two entries; balance
// history is reconstructable from them in timestamp order.
type TransactionLog struct {
	ID               uuid.UUID       `json:"id"`
	WalletID         uuid.UUID       `json:"wallet_id"`
	TransactionID    uuid.UUID       `json:"transaction_id"`
	ResultingBalance decimal.Decimal `json:"resulting_balance"`
	CreatedAt        time.Time       `json:"created_at"`
}
