package service

import (
	"context"
	"fmt"

	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PinServiceImpl implements ports.PinService. Only the Argon2id hash of
// a PIN is ever persisted or logged.
type PinServiceImpl struct {
	walletRepo ports.WalletRepository
	hasher     ports.PinHasher
	log        zerolog.Logger
}

// NewPinService creates a new PinServiceImpl.
func NewPinService(walletRepo ports.WalletRepository, hasher ports.PinHasher, log zerolog.Logger) *PinServiceImpl {
	return &PinServiceImpl{
		walletRepo: walletRepo,
		hasher:     hasher,
		log:        log,
	}
}

// SetPin hashes rawPin and stores the hash on the wallet.
func (s *PinServiceImpl) SetPin(ctx context.Context, walletID uuid.UUID, rawPin string) error {
	hash, err := s.hasher.Hash(rawPin)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("hash pin: %w", err))
	}
	if err := s.walletRepo.UpdatePinHash(ctx, walletID, hash); err != nil {
		return apperror.InternalError(fmt.Errorf("store pin hash: %w", err))
	}

	s.log.Info().Str("wallet_id", walletID.String()).Msg("wallet pin updated")
	return nil
}

// SetUserPin sets the PIN on the user's wallet. A user without a wallet
// is silently ignored.
func (s *PinServiceImpl) SetUserPin(ctx context.Context, userID uuid.UUID, rawPin string) error {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		s.log.Debug().Str("user_id", userID.String()).Msg("no wallet for user, pin not set")
		return nil
	}
	return s.SetPin(ctx, wallet.ID, rawPin)
}

// VerifyPin compares rawPin against the wallet's stored hash.
func (s *PinServiceImpl) VerifyPin(ctx context.Context, walletID uuid.UUID, rawPin string) error {
	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return apperror.ErrNotFound("wallet")
	}
	if !wallet.HasPin() {
		return apperror.ErrWrongPinCode()
	}

	ok, err := s.hasher.Verify(rawPin, *wallet.PinHash)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("verify pin: %w", err))
	}
	if !ok {
		return apperror.ErrWrongPinCode()
	}
	return nil
}
