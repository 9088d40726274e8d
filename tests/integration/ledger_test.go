package integration

import (
	"context"
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/service"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noopNotifier swallows notifications during integration tests.
type noopNotifier struct{}

func (n *noopNotifier) Notify(_ context.Context, _ uuid.UUID, _, _ string, _ map[string]string, _ bool) {
}

// testEnv wires the full service stack over in-memory repositories.
type testEnv struct {
	walletRepo  *inMemoryWalletRepo
	typeRepo    *inMemoryWalletTypeRepo
	txRepo      *inMemoryTransactionRepo
	logRepo     *inMemoryTransactionLogRepo
	paymentRepo *inMemoryPaymentRepo

	registry ports.TypeRegistry
	balance  ports.BalanceEngine
	ledger   ports.LedgerService
	pins     ports.PinService
	prov     ports.Provisioner
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		walletRepo:  newInMemoryWalletRepo(),
		typeRepo:    newInMemoryWalletTypeRepo(),
		txRepo:      newInMemoryTransactionRepo(),
		logRepo:     newInMemoryTransactionLogRepo(),
		paymentRepo: newInMemoryPaymentRepo(),
	}

	ctx := context.Background()
	seeds := []*domain.WalletType{
		{ID: domain.WalletTypeDefault, CreditLimit: decimal.Zero},
		{ID: domain.WalletTypeEntity, CreditLimit: decimal.NewFromInt(50)},
		{ID: domain.WalletTypeDebit, Unlimited: true},
	}
	for _, wt := range seeds {
		require.NoError(t, env.typeRepo.Upsert(ctx, wt))
	}

	log := zerolog.Nop()
	env.registry = service.NewRegistryService(env.typeRepo, env.walletRepo, log)
	env.balance = service.NewBalanceService(env.walletRepo, env.typeRepo, env.paymentRepo, env.logRepo, log)
	env.ledger = service.NewLedgerService(env.walletRepo, env.txRepo, env.balance, newInMemoryTransactor(), &noopNotifier{}, log)
	env.pins = service.NewPinService(env.walletRepo, service.NewArgon2PinHasher(), log)
	env.prov = service.NewProvisioningService(env.walletRepo, env.registry, log)

	return env
}

// newWallet creates a typed wallet with the given balance directly in
// the repo.
func (env *testEnv) newWallet(t *testing.T, typeID string, balance decimal.Decimal) *domain.Wallet {
	t.Helper()
	userID := uuid.New()
	now := time.Now().UTC()
	w := &domain.Wallet{
		ID:        uuid.New(),
		UserID:    &userID,
		TypeID:    &typeID,
		Balance:   balance,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, env.walletRepo.Create(context.Background(), w))
	return w
}

func requireAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, expectedCode, appErr.Code)
}

func TestTransfer_MovesFullAmountOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.newWallet(t, domain.WalletTypeDefault, decimal.NewFromInt(10))
	bob := env.newWallet(t, domain.WalletTypeDefault, decimal.Zero)

	txn, err := env.ledger.Execute(ctx, ports.ExecuteRequest{
		InitiatorID:    alice.ID,
		Amount:         decimal.NewFromInt(10),
		CounterpartyID: &bob.ID,
	})
	require.NoError(t, err)

	assert.True(t, alice.Balance.IsZero(), "sender balance: %s", alice.Balance)
	assert.True(t, bob.Balance.Equal(decimal.NewFromInt(10)), "receiver balance: %s", bob.Balance)
	assert.Equal(t, domain.ConceptTransfer, txn.Concept)

	// Exactly one ledger row and one audit entry per side.
	sent, err := env.txRepo.ListByWallet(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, txn.ID, sent[0].ID)

	aliceLog, err := env.logRepo.ListByWallet(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceLog, 1)
	assert.True(t, aliceLog[0].ResultingBalance.IsZero())

	bobLog, err := env.logRepo.ListByWallet(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobLog, 1)
	assert.True(t, bobLog[0].ResultingBalance.Equal(decimal.NewFromInt(10)))
}

func TestTransfer_InsufficientBalanceLeavesLedgerUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.newWallet(t, domain.WalletTypeDefault, decimal.NewFromInt(10))
	bob := env.newWallet(t, domain.WalletTypeDefault, decimal.Zero)

	_, err := env.ledger.Execute(ctx, ports.ExecuteRequest{
		InitiatorID:    alice.ID,
		Amount:         decimal.RequireFromString("10.01"),
		CounterpartyID: &bob.ID,
	})
	requireAppError(t, err, "LED_001")

	assert.True(t, alice.Balance.Equal(decimal.NewFromInt(10)))
	assert.True(t, bob.Balance.IsZero())

	txns, err := env.txRepo.ListByWallet(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, txns)

	entries, err := env.logRepo.ListByWallet(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTransfer_EntityCreditLimitBoundary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Entity wallet at -20 with a 50 limit can spend exactly 30 more.
	shop := env.newWallet(t, domain.WalletTypeEntity, decimal.NewFromInt(-20))
	customer := env.newWallet(t, domain.WalletTypeDefault, decimal.Zero)

	available, err := env.balance.AvailableCredit(ctx, shop)
	require.NoError(t, err)
	assert.True(t, available.Equal(decimal.NewFromInt(30)), "available: %s", available)

	_, err = env.ledger.Execute(ctx, ports.ExecuteRequest{
		InitiatorID:    shop.ID,
		Amount:         decimal.RequireFromString("30.01"),
		CounterpartyID: &customer.ID,
	})
	requireAppError(t, err, "LED_001")

	_, err = env.ledger.Execute(ctx, ports.ExecuteRequest{
		InitiatorID:    shop.ID,
		Amount:         decimal.NewFromInt(30),
		CounterpartyID: &customer.ID,
	})
	require.NoError(t, err)
	assert.True(t, shop.Balance.Equal(decimal.NewFromInt(-50)))
}

func TestBonification_InboundWithoutSender(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	player := env.newWallet(t, domain.WalletTypeDefault, decimal.Zero)

	txn, err := env.ledger.Execute(ctx, ports.ExecuteRequest{
		InitiatorID: player.ID,
		Amount:      decimal.NewFromInt(100),
		Bonus:       true,
	})
	require.NoError(t, err)
	assert.Nil(t, txn.WalletFrom)
	assert.Equal(t, domain.ConceptBonification, txn.Concept)
	assert.True(t, player.Balance.Equal(decimal.NewFromInt(100)))
}

func TestDebitPurchase_FundedByTheDebitWallet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	typeID := domain.WalletTypeDebit
	debit := &domain.Wallet{ID: uuid.New(), TypeID: &typeID, Balance: decimal.Zero}
	require.NoError(t, env.walletRepo.Create(ctx, debit))

	buyer := env.newWallet(t, domain.WalletTypeDefault, decimal.Zero)

	txn, err := env.ledger.DebitPurchase(ctx, buyer.ID, decimal.NewFromInt(25), "")
	require.NoError(t, err)
	require.NotNil(t, txn.WalletFrom)
	assert.Equal(t, debit.ID, *txn.WalletFrom)
	assert.True(t, txn.IsEuroPurchase)

	// The debit wallet goes negative; its unlimited type allows it.
	assert.True(t, debit.Balance.Equal(decimal.NewFromInt(-25)))
	assert.True(t, buyer.Balance.Equal(decimal.NewFromInt(25)))

	// A second purchase still succeeds at any depth.
	_, err = env.ledger.DebitPurchase(ctx, buyer.ID, decimal.NewFromInt(1000), "Compra grande")
	require.NoError(t, err)
}

func TestDebitPurchase_MissingDebitWallet(t *testing.T) {
	env := newTestEnv(t)

	buyer := env.newWallet(t, domain.WalletTypeDefault, decimal.Zero)

	_, err := env.ledger.DebitPurchase(context.Background(), buyer.ID, decimal.NewFromInt(5), "")
	requireAppError(t, err, "CFG_001")
}

func TestAuditTrail_ReconstructsBalanceHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wallet := env.newWallet(t, domain.WalletTypeDefault, decimal.Zero)

	for _, amount := range []int64{100, 40, 15} {
		_, err := env.ledger.Execute(ctx, ports.ExecuteRequest{
			InitiatorID: wallet.ID,
			Amount:      decimal.NewFromInt(amount),
			Bonus:       true,
		})
		require.NoError(t, err)
	}

	entries, err := env.logRepo.ListByWallet(ctx, wallet.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	want := []int64{100, 140, 155}
	for i, entry := range entries {
		assert.True(t, entry.ResultingBalance.Equal(decimal.NewFromInt(want[i])),
			"entry %d: got %s want %d", i, entry.ResultingBalance, want[i])
	}
	assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(155)))
}

func TestPendingPayments_ReduceAvailableCredit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wallet := env.newWallet(t, domain.WalletTypeDefault, decimal.NewFromInt(100))

	payment := &domain.Payment{
		ID:             uuid.New(),
		SenderID:       *wallet.UserID,
		CurrencyAmount: decimal.NewFromInt(60),
		Status:         domain.PaymentStatusPending,
	}
	require.NoError(t, env.paymentRepo.Create(ctx, payment))

	available, err := env.balance.AvailableCredit(ctx, wallet)
	require.NoError(t, err)
	assert.True(t, available.Equal(decimal.NewFromInt(40)))

	// Paying the pending payment itself is still allowed at full amount.
	ok, err := env.balance.CanAfford(ctx, wallet, decimal.NewFromInt(60), payment)
	require.NoError(t, err)
	assert.True(t, ok)

	// An unrelated spend of the same size is not.
	ok, err = env.balance.CanAfford(ctx, wallet, decimal.NewFromInt(60), nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProvisioning_IdempotentWalletCreation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := uuid.New()

	require.NoError(t, env.prov.UserCreated(ctx, userID, "person"))
	first, err := env.walletRepo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, first)
	require.NotNil(t, first.TypeID)
	assert.Equal(t, domain.WalletTypeDefault, *first.TypeID)

	// Replaying the event must not create a second wallet.
	require.NoError(t, env.prov.UserCreated(ctx, userID, "person"))
	second, err := env.walletRepo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// An entity profile later retypes the same wallet.
	require.NoError(t, env.prov.EntityProfileCreated(ctx, userID))
	retyped, err := env.walletRepo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.WalletTypeEntity, *retyped.TypeID)
}

func TestPinLifecycle_SetAndVerify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wallet := env.newWallet(t, domain.WalletTypeDefault, decimal.Zero)

	// No PIN yet: verification fails.
	requireAppError(t, env.pins.VerifyPin(ctx, wallet.ID, "1234"), "LED_002")

	require.NoError(t, env.pins.SetUserPin(ctx, *wallet.UserID, "1234"))
	require.NoError(t, env.pins.VerifyPin(ctx, wallet.ID, "1234"))
	requireAppError(t, env.pins.VerifyPin(ctx, wallet.ID, "4321"), "LED_002")

	// The stored value is a hash, never the raw PIN.
	stored, err := env.walletRepo.GetByID(ctx, wallet.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PinHash)
	assert.NotEqual(t, "1234", *stored.PinHash)
}
