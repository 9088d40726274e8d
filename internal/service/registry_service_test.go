package service

import (
	"context"
	"errors"
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

type registryTestDeps struct {
	svc        *RegistryServiceImpl
	typeRepo   *mocks.MockWalletTypeRepository
	walletRepo *mocks.MockWalletRepository
	ctrl       *gomock.Controller
}

func setupRegistryService(t *testing.T) *registryTestDeps {
	ctrl := gomock.NewController(t)
	d := &registryTestDeps{
		typeRepo:   mocks.NewMockWalletTypeRepository(ctrl),
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewRegistryService(d.typeRepo, d.walletRepo, zerolog.Nop())
	return d
}

func TestRegistryService_Resolve_Hit(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	want := &domain.WalletType{ID: domain.WalletTypeEntity, CreditLimit: decimal.NewFromInt(50)}
	d.typeRepo.EXPECT().Get(ctx, domain.WalletTypeEntity).Return(want, nil)

	got, err := d.svc.Resolve(ctx, domain.WalletTypeEntity)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRegistryService_Resolve_Miss(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.typeRepo.EXPECT().Get(ctx, "vip").Return(nil, nil)

	got, err := d.svc.Resolve(ctx, "vip")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRegistryService_AssignType_Success(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	wallet := &domain.Wallet{ID: uuid.New(), Balance: decimal.Zero}

	d.typeRepo.EXPECT().Get(ctx, domain.WalletTypeEntity).Return(&domain.WalletType{ID: domain.WalletTypeEntity}, nil)
	d.walletRepo.EXPECT().UpdateType(ctx, wallet.ID, domain.WalletTypeEntity).Return(nil)

	require.NoError(t, d.svc.AssignType(ctx, wallet, domain.WalletTypeEntity))
	require.NotNil(t, wallet.TypeID)
	assert.Equal(t, domain.WalletTypeEntity, *wallet.TypeID)
}

func TestRegistryService_AssignType_EmptyKeyMeansDefault(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	wallet := &domain.Wallet{ID: uuid.New(), Balance: decimal.Zero}

	d.typeRepo.EXPECT().Get(ctx, domain.WalletTypeDefault).Return(&domain.WalletType{ID: domain.WalletTypeDefault}, nil)
	d.walletRepo.EXPECT().UpdateType(ctx, wallet.ID, domain.WalletTypeDefault).Return(nil)

	require.NoError(t, d.svc.AssignType(ctx, wallet, ""))
	require.NotNil(t, wallet.TypeID)
	assert.Equal(t, domain.WalletTypeDefault, *wallet.TypeID)
}

func TestRegistryService_AssignType_UnknownKeyLeavesWalletUnchanged(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	existing := domain.WalletTypeDefault
	wallet := &domain.Wallet{ID: uuid.New(), TypeID: &existing, Balance: decimal.Zero}

	d.typeRepo.EXPECT().Get(ctx, "vip").Return(nil, nil)
	// No UpdateType call expected.

	require.NoError(t, d.svc.AssignType(ctx, wallet, "vip"))
	assert.Equal(t, domain.WalletTypeDefault, *wallet.TypeID)
}

func TestRegistryService_AssignType_RepoError(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	wallet := &domain.Wallet{ID: uuid.New(), Balance: decimal.Zero}

	d.typeRepo.EXPECT().Get(ctx, domain.WalletTypeDefault).Return(nil, errors.New("db down"))

	err := d.svc.AssignType(ctx, wallet, "")
	require.Error(t, err)
	assert.Nil(t, wallet.TypeID)
}
