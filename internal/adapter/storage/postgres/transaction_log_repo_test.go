package postgres

import (
	"context"
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionLogRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionLogRepo(mock)
	entry := &domain.TransactionLog{
		ID:               uuid.New(),
		WalletID:         uuid.New(),
		TransactionID:    uuid.New(),
		ResultingBalance: decimal.NewFromInt(75),
		CreatedAt:        time.Now().UTC().Truncate(time.Microsecond),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transaction_log").
		WithArgs(entry.ID, entry.WalletID, entry.TransactionID, entry.ResultingBalance, entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, entry)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionLogRepo_ListByWallet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionLogRepo(mock)
	walletID := uuid.New()
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{"id", "wallet_id", "transaction_id", "resulting_balance", "created_at"}).
		AddRow(uuid.New(), walletID, uuid.New(), decimal.NewFromInt(10), now.Add(-time.Minute)).
		AddRow(uuid.New(), walletID, uuid.New(), decimal.NewFromInt(30), now)

	mock.ExpectQuery("SELECT .+ FROM transaction_log WHERE wallet_id").
		WithArgs(walletID).
		WillReturnRows(rows)

	entries, err := repo.ListByWallet(context.Background(), walletID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].ResultingBalance.Equal(decimal.NewFromInt(10)))
	assert.True(t, entries[1].ResultingBalance.Equal(decimal.NewFromInt(30)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
