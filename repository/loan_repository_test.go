package repository

import (
	"context"
	"testing"
	"time"

	"collector/models"
	"collector/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoanRepository_GetByID(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLoanRepository(testDB.DB)
	ctx := context.Background()
	loanID := seedLoan(t, testDB)

	loan, err := repo.GetByID(ctx, loanID)
	require.NoError(t, err)
	require.NotNil(t, loan)
	assert.Equal(t, loanID, loan.ID)
	assert.Equal(t, int64(7), loan.CollectorID)
	assert.Equal(t, models.LoanStatusNew, loan.StatusID)

	missing, err := repo.GetByID(ctx, 999999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLoanRepository_GetByIDSkipsSoftDeleted(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLoanRepository(testDB.DB)
	ctx := context.Background()

	debtorID := testutil.InsertDebtor(t, testDB.DB, testutil.CreateTestDebtor("Deleted Case"))
	deleted := time.Now().UTC()
	loan := testutil.CreateTestLoan(debtorID, 7)
	loan.DeletedAt = &deleted
	loanID := testutil.InsertLoan(t, testDB.DB, loan)

	got, err := repo.GetByID(ctx, loanID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLoanRepository_GetByIDs(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLoanRepository(testDB.DB)
	ctx := context.Background()

	id1 := seedLoan(t, testDB)
	id2 := seedLoan(t, testDB)

	loans, err := repo.GetByIDs(ctx, []int64{id1, id2, 999999})
	require.NoError(t, err)
	assert.Len(t, loans, 2)

	loans, err = repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, loans)
}

func TestLoanRepository_UpdateStatusAndHistory(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLoanRepository(testDB.DB)
	ctx := context.Background()
	loanID := seedLoan(t, testDB)

	closedAt := time.Now().UTC()
	err := repo.UpdateStatus(ctx, loanID, models.LoanStatusClosed, &closedAt)
	require.NoError(t, err)

	loan, err := repo.GetByID(ctx, loanID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusClosed, loan.StatusID)
	require.NotNil(t, loan.ClosedAt)

	history := &models.LoanStatusHistory{
		LoanID:      loanID,
		OldStatusID: models.LoanStatusNew,
		NewStatusID: models.LoanStatusClosed,
		Note:        "closed by manual payment",
	}
	require.NoError(t, repo.CreateStatusHistory(ctx, history))
	assert.NotZero(t, history.ID)

	assert.Error(t, repo.UpdateStatus(ctx, 999999, models.LoanStatusClosed, nil))
}

func TestDebtorRepository_GetByID(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDebtorRepository(testDB.DB)
	ctx := context.Background()

	debtorID := testutil.InsertDebtor(t, testDB.DB, testutil.CreateTestDebtor("Giorgi Maisuradze"))

	debtor, err := repo.GetByID(ctx, debtorID)
	require.NoError(t, err)
	require.NotNil(t, debtor)
	assert.Equal(t, "Giorgi Maisuradze", debtor.FullName)

	missing, err := repo.GetByID(ctx, 999999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
