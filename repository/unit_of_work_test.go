package repository

import (
	"context"
	"testing"
	"time"

	"collector/events"
	"collector/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitPersistsWrites(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	loanID := seedLoan(t, testDB)
	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	balance := testutil.CreateTestBalance(loanID, 500, 100, 0)
	require.NoError(t, uow.BalanceRepository().Insert(ctx, balance))

	txn := testutil.CreateTestTransaction(loanID, 7, 100, time.Now().UTC())
	require.NoError(t, uow.TransactionRepository().Create(ctx, txn))

	require.NoError(t, uow.Commit())

	// visible outside the transaction after commit
	outside := NewBalanceRepository(testDB.DB)
	active, err := outside.GetActiveByLoanID(ctx, loanID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, balance.ID, active.ID)
}

func TestUnitOfWork_RollbackDiscardsWrites(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	loanID := seedLoan(t, testDB)
	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	balance := testutil.CreateTestBalance(loanID, 500, 0, 0)
	require.NoError(t, uow.BalanceRepository().Insert(ctx, balance))

	require.NoError(t, uow.Rollback())

	outside := NewBalanceRepository(testDB.DB)
	active, err := outside.GetActiveByLoanID(ctx, loanID)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestUnitOfWork_EventsFlushOnlyOnCommit(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	bus := events.NewBus()
	received := make(chan events.Event, 2)
	bus.Subscribe(events.EventTypeLoanClosed, func(ctx context.Context, e events.Event) {
		received <- e
	})
	factory := NewUnitOfWorkFactory(testDB.DB, bus)

	// rolled back: the event never reaches the bus
	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	uow.EventBus().Publish(events.LoanClosedEvent{LoanID: 1})
	require.NoError(t, uow.Rollback())

	select {
	case <-received:
		t.Fatal("event from rolled-back unit of work was delivered")
	case <-time.After(50 * time.Millisecond):
	}

	// committed: the event is flushed
	uow = factory.Create()
	require.NoError(t, uow.Begin(ctx))
	uow.EventBus().Publish(events.LoanClosedEvent{LoanID: 2})
	require.NoError(t, uow.Commit())

	select {
	case e := <-received:
		assert.Equal(t, int64(2), e.(events.LoanClosedEvent).LoanID)
	case <-time.After(time.Second):
		t.Fatal("event from committed unit of work was not delivered")
	}
}

func TestUnitOfWork_GuardsLifecycle(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	uow := factory.Create()

	assert.Panics(t, func() { uow.LoanRepository() })
	assert.Error(t, uow.Commit())
	assert.NoError(t, uow.Rollback()) // no-op without a transaction

	ctx := context.Background()
	require.NoError(t, uow.Begin(ctx))
	assert.Error(t, uow.Begin(ctx))
	require.NoError(t, uow.Rollback())
}
