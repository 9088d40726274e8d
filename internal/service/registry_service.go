package service

import (
	"context"
	"fmt"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// RegistryServiceImpl implements ports.TypeRegistry over the wallet
// type reference data.
type RegistryServiceImpl struct {
	typeRepo   ports.WalletTypeRepository
	walletRepo ports.WalletRepository
	log        zerolog.Logger
}

// NewRegistryService creates a new RegistryServiceImpl.
func NewRegistryService(typeRepo ports.WalletTypeRepository, walletRepo ports.WalletRepository, log zerolog.Logger) *RegistryServiceImpl {
	return &RegistryServiceImpl{
		typeRepo:   typeRepo,
		walletRepo: walletRepo,
		log:        log,
	}
}

// Resolve looks up a wallet type by key. A miss is not an error: it
// returns nil, nil and callers decide how to fall back.
func (s *RegistryServiceImpl) Resolve(ctx context.Context, key string) (*domain.WalletType, error) {
	wt, err := s.typeRepo.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("resolve wallet type: %w", err)
	}
	return wt, nil
}

// AssignType resolves key and assigns it to the wallet. An empty key
// falls back to the default type; an unresolved key leaves the wallet's
// type unchanged.
func (s *RegistryServiceImpl) AssignType(ctx context.Context, wallet *domain.Wallet, key string) error {
	if key == "" {
		key = domain.WalletTypeDefault
	}

	wt, err := s.Resolve(ctx, key)
	if err != nil {
		return err
	}
	if wt == nil {
		s.log.Warn().
			Str("wallet_id", wallet.ID.String()).
			Str("type", key).
			Msg("unknown wallet type, leaving wallet unchanged")
		return nil
	}

	if err := s.walletRepo.UpdateType(ctx, wallet.ID, wt.ID); err != nil {
		return fmt.Errorf("assign wallet type: %w", err)
	}
	wallet.TypeID = &wt.ID
	return nil
}
