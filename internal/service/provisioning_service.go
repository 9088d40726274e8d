package service

import (
	"context"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RoleEntity is the user role that maps to the entity wallet type.
const RoleEntity = "entity"

// ProvisioningServiceImpl implements ports.Provisioner. It is the
// boundary the user-management layer calls on lifecycle events.
type ProvisioningServiceImpl struct {
	walletRepo ports.WalletRepository
	registry   ports.TypeRegistry
	log        zerolog.Logger
}

// NewProvisioningService creates a new ProvisioningServiceImpl.
func NewProvisioningService(walletRepo ports.WalletRepository, registry ports.TypeRegistry, log zerolog.Logger) *ProvisioningServiceImpl {
	return &ProvisioningServiceImpl{
		walletRepo: walletRepo,
		registry:   registry,
		log:        log,
	}
}

// UserCreated ensures a wallet exists for the new user and resolves its
// type from the user's role. Calling it twice for the same user never
// creates a second wallet.
func (s *ProvisioningServiceImpl) UserCreated(ctx context.Context, userID uuid.UUID, role string) error {
	wallet, created, err := s.ensureWallet(ctx, userID)
	if err != nil {
		return err
	}
	if !created {
		s.log.Info().Str("user_id", userID.String()).Msg("wallet for user already existed")
	}

	typeKey := domain.WalletTypeDefault
	if role == RoleEntity {
		typeKey = domain.WalletTypeEntity
	}
	return s.registry.AssignType(ctx, wallet, typeKey)
}

// EntityProfileCreated ensures the user's wallet exists and forces its
// type to entity. This may retroactively change a previously set type.
func (s *ProvisioningServiceImpl) EntityProfileCreated(ctx context.Context, userID uuid.UUID) error {
	wallet, _, err := s.ensureWallet(ctx, userID)
	if err != nil {
		return err
	}
	return s.registry.AssignType(ctx, wallet, domain.WalletTypeEntity)
}

// PersonProfileCreated ensures the user's wallet exists and forces its
// type to default.
func (s *ProvisioningServiceImpl) PersonProfileCreated(ctx context.Context, userID uuid.UUID) error {
	wallet, _, err := s.ensureWallet(ctx, userID)
	if err != nil {
		return err
	}
	return s.registry.AssignType(ctx, wallet, domain.WalletTypeDefault)
}

// ensureWallet returns the user's wallet, creating it with a zero
// balance when absent.
func (s *ProvisioningServiceImpl) ensureWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, bool, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("get wallet: %w", err)
	}
	if wallet != nil {
		return wallet, false, nil
	}

	now := time.Now().UTC()
	wallet = &domain.Wallet{
		ID:        uuid.New(),
		UserID:    &userID,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, false, fmt.Errorf("create wallet: %w", err)
	}

	s.log.Info().
		Str("user_id", userID.String()).
		Str("wallet_id", wallet.ID.String()).
		Msg("wallet created for user")

	return wallet, true, nil
}
