package domain

import "github.com/shopspring/decimal"

// Well-known wallet type keys. Reference data is seeded at bootstrap;
// these constants name the types the ledger itself reasons about.
const (
	WalletTypeDefault = "default"
	WalletTypeEntity  = "entity"
	WalletTypeDebit   = "debit"
)

// WalletType is immutable reference data describing how far a wallet of
// this type may go into negative balance.
type WalletType struct {
	ID          string          `json:"id"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Unlimited   bool            `json:"unlimited"`
}
