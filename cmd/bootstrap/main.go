// Command bootstrap prepares a wallet ledger deployment: it seeds the
// wallet type reference data from configuration, ensures the system
// debit wallet exists and verifies connectivity to every dependency.
// It is meant to run once per deploy, before the consuming services.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"wallet-ledger/config"
	pgStorage "wallet-ledger/internal/adapter/storage/postgres"
	redisStorage "wallet-ledger/internal/adapter/storage/redis"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().Msg("Bootstrapping wallet ledger")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Initialize repositories
	typeRepo := pgStorage.NewWalletTypeRepo(pool)
	walletRepo := pgStorage.NewWalletRepo(pool)

	if err := seedWalletTypes(ctx, typeRepo, cfg.WalletTypes, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed wallet types")
	}

	if err := ensureDebitWallet(ctx, walletRepo, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure debit wallet")
	}

	// Verify dependency health before declaring the deploy ready
	checkers := []ports.HealthChecker{
		pgStorage.NewHealthCheck(pool),
		redisStorage.NewHealthCheck(rdb),
	}
	for _, hc := range checkers {
		if err := hc.Ping(ctx); err != nil {
			log.Fatal().Err(err).Str("dependency", hc.Name()).Msg("Dependency unhealthy")
		}
		log.Info().Str("dependency", hc.Name()).Msg("Dependency healthy")
	}

	log.Info().Msg("Bootstrap complete")
}

// seedWalletTypes upserts the configured wallet types. Existing rows are
// updated in place so limit changes take effect on redeploy.
func seedWalletTypes(ctx context.Context, repo ports.WalletTypeRepository, seeds []config.WalletTypeConfig, log zerolog.Logger) error {
	for _, seed := range seeds {
		limit, err := decimal.NewFromString(seed.CreditLimit)
		if err != nil {
			return fmt.Errorf("wallet type %q: parsing credit limit %q: %w", seed.ID, seed.CreditLimit, err)
		}

		wt := &domain.WalletType{
			ID:          seed.ID,
			CreditLimit: limit,
			Unlimited:   seed.Unlimited,
		}
		if err := repo.Upsert(ctx, wt); err != nil {
			return fmt.Errorf("upserting wallet type %q: %w", seed.ID, err)
		}

		log.Info().
			Str("type", wt.ID).
			Str("credit_limit", wt.CreditLimit.String()).
			Bool("unlimited", wt.Unlimited).
			Msg("wallet type seeded")
	}
	return nil
}

// ensureDebitWallet creates the ownerless system wallet that funds euro
// purchases, if it does not exist yet.
func ensureDebitWallet(ctx context.Context, repo ports.WalletRepository, log zerolog.Logger) error {
	existing, err := repo.GetByTypeID(ctx, domain.WalletTypeDebit)
	if err != nil {
		return fmt.Errorf("looking up debit wallet: %w", err)
	}
	if existing != nil {
		log.Info().Str("wallet_id", existing.ID.String()).Msg("debit wallet already exists")
		return nil
	}

	typeID := domain.WalletTypeDebit
	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:        uuid.New(),
		TypeID:    &typeID,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, wallet); err != nil {
		return fmt.Errorf("creating debit wallet: %w", err)
	}

	log.Info().Str("wallet_id", wallet.ID.String()).Msg("debit wallet created")
	return nil
}
