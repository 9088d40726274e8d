package service

import (
	"context"
	"fmt"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// BalanceServiceImpl implements ports.BalanceEngine.
type BalanceServiceImpl struct {
	walletRepo  ports.WalletRepository
	typeRepo    ports.WalletTypeRepository
	paymentRepo ports.PaymentRepository
	logRepo     ports.TransactionLogRepository
	log         zerolog.Logger
}

// NewBalanceService creates a new BalanceServiceImpl.
func NewBalanceService(
	walletRepo ports.WalletRepository,
	typeRepo ports.WalletTypeRepository,
	paymentRepo ports.PaymentRepository,
	logRepo ports.TransactionLogRepository,
	log zerolog.Logger,
) *BalanceServiceImpl {
	return &BalanceServiceImpl{
		walletRepo:  walletRepo,
		typeRepo:    typeRepo,
		paymentRepo: paymentRepo,
		logRepo:     logRepo,
		log:         log,
	}
}

// AvailableCredit computes balance + credit limit - pending payments.
// An untyped wallet has a credit limit of zero; a wallet without an
// owner has no pending payments.
func (s *BalanceServiceImpl) AvailableCredit(ctx context.Context, wallet *domain.Wallet) (decimal.Decimal, error) {
	pending := decimal.Zero
	if wallet.UserID != nil {
		sum, err := s.paymentRepo.SumPendingAmount(ctx, *wallet.UserID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("sum pending payments: %w", err)
		}
		pending = sum
	}

	creditLimit := decimal.Zero
	if wallet.IsTyped() {
		wt, err := s.typeRepo.Get(ctx, *wallet.TypeID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("get wallet type: %w", err)
		}
		if wt != nil {
			creditLimit = wt.CreditLimit
		}
	}

	return wallet.Balance.Add(creditLimit).Sub(pending), nil
}

// CanAfford reports whether the wallet can cover amount. The boundary
// is inclusive: an exact match is affordable.
func (s *BalanceServiceImpl) CanAfford(ctx context.Context, wallet *domain.Wallet, amount decimal.Decimal, inFlight *domain.Payment) (bool, error) {
	if wallet.IsTyped() {
		wt, err := s.typeRepo.Get(ctx, *wallet.TypeID)
		if err != nil {
			return false, fmt.Errorf("get wallet type: %w", err)
		}
		if wt != nil && wt.Unlimited {
			return true, nil
		}
	}

	available, err := s.AvailableCredit(ctx, wallet)
	if err != nil {
		return false, err
	}

	// A pending in-flight payment was already subtracted with the rest
	// of the pending sum; add it back so it does not count against itself.
	if inFlight != nil && inFlight.IsPending() {
		available = available.Add(inFlight.CurrencyAmount)
	}

	return amount.LessThanOrEqual(available), nil
}

// Apply unconditionally applies the transaction effect to the wallet for
// the given role, persists the new balance inside tx and appends one
// audit log entry. Affordability must have been validated beforehand.
func (s *BalanceServiceImpl) Apply(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet, txn *domain.Transaction, role ports.Role) error {
	wallet.LastTransaction = &txn.Timestamp

	switch role {
	case ports.RoleSender:
		wallet.Balance = wallet.Balance.Sub(txn.Amount)
	case ports.RoleReceiver:
		wallet.Balance = wallet.Balance.Add(txn.Amount)
	default:
		return fmt.Errorf("unknown balance update role: %s", role)
	}

	if err := s.walletRepo.UpdateBalance(ctx, tx, wallet.ID, wallet.Balance, txn.Timestamp); err != nil {
		return fmt.Errorf("persist balance: %w", err)
	}

	entry := &domain.TransactionLog{
		ID:               uuid.New(),
		WalletID:         wallet.ID,
		TransactionID:    txn.ID,
		ResultingBalance: wallet.Balance,
		CreatedAt:        txn.Timestamp,
	}
	if err := s.logRepo.Create(ctx, tx, entry); err != nil {
		return fmt.Errorf("append transaction log: %w", err)
	}

	s.log.Debug().
		Str("wallet_id", wallet.ID.String()).
		Str("tx_id", txn.ID.String()).
		Str("role", string(role)).
		Str("resulting_balance", wallet.Balance.String()).
		Msg("balance updated")

	return nil
}
