package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]*domain.Wallet
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{wallets: make(map[uuid.UUID]*domain.Wallet)}
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w.UserID != nil {
		for _, existing := range r.wallets {
			if existing.UserID != nil && *existing.UserID == *w.UserID {
				return fmt.Errorf("user already has a wallet")
			}
		}
	}
	r.wallets[w.ID] = w
	return nil
}

func (r *inMemoryWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[id]
	if !ok {
		return nil, nil
	}
	return w, nil
}

func (r *inMemoryWalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.UserID != nil && *w.UserID == userID {
			return w, nil
		}
	}
	return nil, nil
}

func (r *inMemoryWalletRepo) GetByTypeID(ctx context.Context, typeID string) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.TypeID != nil && *w.TypeID == typeID {
			return w, nil
		}
	}
	return nil, nil
}

func (r *inMemoryWalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryWalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal, lastTransaction time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet not found")
	}
	w.Balance = balance
	w.LastTransaction = &lastTransaction
	return nil
}

func (r *inMemoryWalletRepo) UpdateType(ctx context.Context, walletID uuid.UUID, typeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet not found")
	}
	w.TypeID = &typeID
	return nil
}

func (r *inMemoryWalletRepo) UpdatePinHash(ctx context.Context, walletID uuid.UUID, pinHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet not found")
	}
	w.PinHash = &pinHash
	return nil
}

// --- In-Memory Wallet Type Repo ---

type inMemoryWalletTypeRepo struct {
	mu    sync.RWMutex
	types map[string]*domain.WalletType
}

func newInMemoryWalletTypeRepo() *inMemoryWalletTypeRepo {
	return &inMemoryWalletTypeRepo{types: make(map[string]*domain.WalletType)}
}

func (r *inMemoryWalletTypeRepo) Upsert(ctx context.Context, wt *domain.WalletType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[wt.ID] = wt
	return nil
}

func (r *inMemoryWalletTypeRepo) Get(ctx context.Context, id string) (*domain.WalletType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wt, ok := r.types[id]
	if !ok {
		return nil, nil
	}
	return wt, nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]*domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{transactions: make(map[uuid.UUID]*domain.Transaction)}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions[t.ID] = t
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.transactions[id]
	if !ok {
		return nil, nil
	}
	return t, nil
}

func (r *inMemoryTransactionRepo) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Transaction
	for _, t := range r.transactions {
		if (t.WalletFrom != nil && *t.WalletFrom == walletID) || t.WalletTo == walletID {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result, nil
}

// --- In-Memory Transaction Log Repo ---

type inMemoryTransactionLogRepo struct {
	mu      sync.RWMutex
	entries []domain.TransactionLog
}

func newInMemoryTransactionLogRepo() *inMemoryTransactionLogRepo {
	return &inMemoryTransactionLogRepo{}
}

func (r *inMemoryTransactionLogRepo) Create(ctx context.Context, tx pgx.Tx, entry *domain.TransactionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *inMemoryTransactionLogRepo) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.TransactionLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.TransactionLog
	for _, e := range r.entries {
		if e.WalletID == walletID {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// --- In-Memory Payment Repo ---

type inMemoryPaymentRepo struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]*domain.Payment
}

func newInMemoryPaymentRepo() *inMemoryPaymentRepo {
	return &inMemoryPaymentRepo{payments: make(map[uuid.UUID]*domain.Payment)}
}

func (r *inMemoryPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[p.ID] = p
	return nil
}

func (r *inMemoryPaymentRepo) SumPendingAmount(ctx context.Context, senderID uuid.UUID) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sum := decimal.Zero
	for _, p := range r.payments {
		if p.SenderID == senderID && p.Status == domain.PaymentStatusPending {
			sum = sum.Add(p.CurrencyAmount)
		}
	}
	return sum, nil
}

// --- In-Memory Transactor (serialized tx) ---

type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

// Begin blocks until any in-flight transaction commits or rolls back.
// This stands in for the serialization the postgres transactor gets
// from SELECT ... FOR UPDATE row locks.
func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &serialTx{release: &t.mu}, nil
}

// serialTx holds the transactor lock until Commit or Rollback, whichever
// comes first.
type serialTx struct {
	noopTx
	release *sync.Mutex
	done    sync.Once
}

func (t *serialTx) Commit(ctx context.Context) error {
	t.done.Do(t.release.Unlock)
	return nil
}

func (t *serialTx) Rollback(ctx context.Context) error {
	t.done.Do(t.release.Unlock)
	return nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
