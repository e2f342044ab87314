package repository

import (
	"context"
	"testing"

	"collector/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLoan(t *testing.T, testDB *testutil.TestDatabase) int64 {
	debtorID := testutil.InsertDebtor(t, testDB.DB, testutil.CreateTestDebtor("Test Debtor"))
	return testutil.InsertLoan(t, testDB.DB, testutil.CreateTestLoan(debtorID, 7))
}

func TestBalanceRepository_InsertAndGetActive(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()
	loanID := seedLoan(t, testDB)

	balance := testutil.CreateTestBalance(loanID, 1000, 200, 50)
	err := repo.Insert(ctx, balance)
	require.NoError(t, err)
	assert.NotZero(t, balance.ID)
	assert.False(t, balance.CreatedAt.IsZero())

	active, err := repo.GetActiveByLoanID(ctx, loanID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, balance.ID, active.ID)
	assert.True(t, active.Principal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, active.CurrentDebt.Equal(decimal.NewFromInt(1250)))
	assert.Nil(t, active.SupersededAt)
}

func TestBalanceRepository_GetActiveReturnsNilWhenAbsent(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	loanID := seedLoan(t, testDB)

	active, err := repo.GetActiveByLoanID(context.Background(), loanID)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestBalanceRepository_SupersedeAndReplace(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()
	loanID := seedLoan(t, testDB)

	first := testutil.CreateTestBalance(loanID, 1000, 200, 50)
	require.NoError(t, repo.Insert(ctx, first))

	require.NoError(t, repo.Supersede(ctx, first.ID))

	second := testutil.CreateTestBalance(loanID, 900, 150, 0)
	require.NoError(t, repo.Insert(ctx, second))

	active, err := repo.GetActiveByLoanID(ctx, loanID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)

	history, err := repo.GetHistoryByLoanID(ctx, loanID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// newest first
	assert.Equal(t, second.ID, history[0].ID)
	assert.NotNil(t, history[1].SupersededAt)
}

func TestBalanceRepository_SupersedeTwiceFails(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()
	loanID := seedLoan(t, testDB)

	balance := testutil.CreateTestBalance(loanID, 100, 0, 0)
	require.NoError(t, repo.Insert(ctx, balance))

	require.NoError(t, repo.Supersede(ctx, balance.ID))
	assert.Error(t, repo.Supersede(ctx, balance.ID))
}

func TestBalanceRepository_SecondActiveSnapshotRejected(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()
	loanID := seedLoan(t, testDB)

	first := testutil.CreateTestBalance(loanID, 100, 0, 0)
	require.NoError(t, repo.Insert(ctx, first))

	// unique partial index enforces one active snapshot per loan
	second := testutil.CreateTestBalance(loanID, 200, 0, 0)
	assert.Error(t, repo.Insert(ctx, second))
}

func TestBalanceRepository_BucketSumConstraint(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()
	loanID := seedLoan(t, testDB)

	balance := testutil.CreateTestBalance(loanID, 100, 0, 0)
	balance.CurrentDebt = decimal.NewFromInt(9999)

	// the database rejects snapshots whose debt differs from the bucket sum
	assert.Error(t, repo.Insert(ctx, balance))
}

func TestBalanceRepository_AgreementMinRoundTrips(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()
	loanID := seedLoan(t, testDB)

	balance := testutil.CreateTestBalance(loanID, 500, 0, 0)
	min := decimal.NewFromInt(350)
	balance.AgreementMin = &min
	require.NoError(t, repo.Insert(ctx, balance))

	active, err := repo.GetActiveByLoanID(ctx, loanID)
	require.NoError(t, err)
	require.NotNil(t, active.AgreementMin)
	assert.True(t, active.AgreementMin.Equal(min))
}
