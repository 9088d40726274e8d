package service

import (
	"context"
	"testing"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type provisioningTestDeps struct {
	svc        *ProvisioningServiceImpl
	walletRepo *mocks.MockWalletRepository
	registry   *mocks.MockTypeRegistry
	ctrl       *gomock.Controller
}

func setupProvisioningService(t *testing.T) *provisioningTestDeps {
	ctrl := gomock.NewController(t)
	d := &provisioningTestDeps{
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		registry:   mocks.NewMockTypeRegistry(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewProvisioningService(d.walletRepo, d.registry, zerolog.Nop())
	return d
}

func TestProvisioningService_UserCreated_NewWallet(t *testing.T) {
	d := setupProvisioningService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()

	d.walletRepo.EXPECT().GetByUserID(ctx, userID).Return(nil, nil)
	d.walletRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, w *domain.Wallet) error {
			require.NotNil(t, w.UserID)
			assert.Equal(t, userID, *w.UserID)
			assert.True(t, w.Balance.IsZero())
			return nil
		})
	d.registry.EXPECT().AssignType(ctx, gomock.Any(), domain.WalletTypeDefault).Return(nil)

	require.NoError(t, d.svc.UserCreated(ctx, userID, "person"))
}

func TestProvisioningService_UserCreated_EntityRole(t *testing.T) {
	d := setupProvisioningService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()

	d.walletRepo.EXPECT().GetByUserID(ctx, userID).Return(nil, nil)
	d.walletRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	d.registry.EXPECT().AssignType(ctx, gomock.Any(), domain.WalletTypeEntity).Return(nil)

	require.NoError(t, d.svc.UserCreated(ctx, userID, RoleEntity))
}

func TestProvisioningService_UserCreated_Idempotent(t *testing.T) {
	d := setupProvisioningService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	existing := &domain.Wallet{ID: uuid.New(), UserID: &userID, Balance: decimal.NewFromInt(42)}

	d.walletRepo.EXPECT().GetByUserID(ctx, userID).Return(existing, nil)
	// No Create call: the wallet already exists.
	d.registry.EXPECT().AssignType(ctx, existing, domain.WalletTypeDefault).Return(nil)

	require.NoError(t, d.svc.UserCreated(ctx, userID, "person"))
	assert.True(t, existing.Balance.Equal(decimal.NewFromInt(42)))
}

func TestProvisioningService_EntityProfileCreated_ForcesEntityType(t *testing.T) {
	d := setupProvisioningService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	existingType := domain.WalletTypeDefault
	existing := &domain.Wallet{ID: uuid.New(), UserID: &userID, TypeID: &existingType, Balance: decimal.Zero}

	d.walletRepo.EXPECT().GetByUserID(ctx, userID).Return(existing, nil)
	d.registry.EXPECT().AssignType(ctx, existing, domain.WalletTypeEntity).Return(nil)

	require.NoError(t, d.svc.EntityProfileCreated(ctx, userID))
}

func TestProvisioningService_PersonProfileCreated_CreatesWhenMissing(t *testing.T) {
	d := setupProvisioningService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()

	d.walletRepo.EXPECT().GetByUserID(ctx, userID).Return(nil, nil)
	d.walletRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	d.registry.EXPECT().AssignType(ctx, gomock.Any(), domain.WalletTypeDefault).Return(nil)

	require.NoError(t, d.svc.PersonProfileCreated(ctx, userID))
}
