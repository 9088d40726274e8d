package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Notification titles sent on transaction completion.
const (
	titleBonification = "Ya tienes tu bonificación!"
	titleTransfer     = "Has recibido una transferencia"
)

// LedgerServiceImpl implements ports.LedgerService. Every Execute runs
// as one all-or-nothing database transaction with pessimistic row locks
// on the touched wallets.
type LedgerServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	balance    ports.BalanceEngine
	transactor ports.DBTransactor
	notifier   ports.Notifier
	log        zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	balance ports.BalanceEngine,
	transactor ports.DBTransactor,
	notifier ports.Notifier,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		balance:    balance,
		transactor: transactor,
		notifier:   notifier,
		log:        log,
	}
}

// Execute creates a transaction and applies the two-sided balance
// update atomically. With a counterparty, funds move from the initiator
// to the counterparty; without one the transaction is inbound-only and
// no affordability check applies.
func (s *LedgerServiceImpl) Execute(ctx context.Context, req ports.ExecuteRequest) (*domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	var fromID *uuid.UUID
	toID := req.InitiatorID
	if req.CounterpartyID != nil {
		fromID = &req.InitiatorID
		toID = *req.CounterpartyID
	}
	if fromID != nil && *fromID == toID {
		return nil, apperror.ErrSameWallet()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock wallet rows in deterministic ID order so concurrent
	// transfers between the same pair cannot deadlock.
	var sender, receiver *domain.Wallet
	if fromID != nil {
		first, second := *fromID, toID
		if strings.Compare(first.String(), second.String()) > 0 {
			first, second = second, first
		}
		for _, id := range []uuid.UUID{first, second} {
			w, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, id)
			if err != nil {
				return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
			}
			if w == nil {
				return nil, apperror.ErrNotFound("wallet")
			}
			if w.ID == *fromID {
				sender = w
			} else {
				receiver = w
			}
		}
	} else {
		receiver, err = s.walletRepo.GetByIDForUpdate(ctx, dbTx, toID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
		}
		if receiver == nil {
			return nil, apperror.ErrNotFound("wallet")
		}
	}

	concept := req.Concept
	if concept == "" {
		if req.Bonus {
			concept = domain.ConceptBonification
		} else if sender != nil {
			concept = domain.ConceptTransfer
		}
	}

	if sender != nil {
		affordable, err := s.balance.CanAfford(ctx, sender, req.Amount, req.InFlightPayment)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("check balance: %w", err))
		}
		if !affordable {
			return nil, apperror.ErrInsufficientBalance()
		}
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:             uuid.New(),
		WalletFrom:     fromID,
		WalletTo:       toID,
		Amount:         req.Amount,
		IsBonification: req.Bonus,
		IsEuroPurchase: req.IsEuroPurchase,
		MadeByAdmin:    req.MadeByAdmin,
		Concept:        concept,
		Timestamp:      now,
	}

	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}

	if sender != nil {
		if err := s.balance.Apply(ctx, dbTx, sender, txn, ports.RoleSender); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("apply sender update: %w", err))
		}
	}
	if err := s.balance.Apply(ctx, dbTx, receiver, txn, ports.RoleReceiver); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("apply receiver update: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	// Post-commit: fire-and-forget push to the receiver's owner. A
	// delivery failure never affects the committed transaction.
	if receiver.UserID != nil {
		s.notifyTransaction(*receiver.UserID, txn, !txn.IsEuroPurchase)
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("wallet_to", toID.String()).
		Str("amount", req.Amount.String()).
		Bool("bonification", req.Bonus).
		Msg("transaction executed")

	return txn, nil
}

// DebitPurchase transfers from the distinguished debit wallet to the
// purchasing wallet, marking the transaction as a euro purchase.
func (s *LedgerServiceImpl) DebitPurchase(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal, concept string) (*domain.Transaction, error) {
	if concept == "" {
		concept = domain.ConceptDebitPurchase
	}

	debitWallet, err := s.walletRepo.GetByTypeID(ctx, domain.WalletTypeDebit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find debit wallet: %w", err))
	}
	if debitWallet == nil {
		return nil, apperror.ErrConfiguration("debit wallet")
	}

	return s.Execute(ctx, ports.ExecuteRequest{
		InitiatorID:    debitWallet.ID,
		Amount:         amount,
		CounterpartyID: &walletID,
		Concept:        concept,
		IsEuroPurchase: true,
	})
}

// notifyTransaction dispatches the "transaction completed" event to the
// receiving wallet's owner in the background.
func (s *LedgerServiceImpl) notifyTransaction(userID uuid.UUID, txn *domain.Transaction, silent bool) {
	data := map[string]string{
		"type":             "transaction",
		"amount":           txn.Amount.String(),
		"is_bonification":  strconv.FormatBool(txn.IsBonification),
		"is_euro_purchase": strconv.FormatBool(txn.IsEuroPurchase),
		"concept":          txn.Concept,
	}

	title := titleTransfer
	if txn.IsBonification {
		title = titleBonification
	}

	// The request context may be gone by the time the push goes out.
	go s.notifier.Notify(context.Background(), userID, title, txn.Concept, data, silent)
}
