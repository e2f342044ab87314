package service

import (
	"context"
	"time"

	"collector/events"
	"collector/models"

	"github.com/stretchr/testify/mock"
)

// MockLoanRepository is a mock implementation of LoanRepository
type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) GetByID(ctx context.Context, loanID int64) (*models.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetByIDs(ctx context.Context, loanIDs []int64) ([]*models.Loan, error) {
	args := m.Called(ctx, loanIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Loan), args.Error(1)
}

func (m *MockLoanRepository) UpdateStatus(ctx context.Context, loanID int64, statusID models.LoanStatusID, closedAt *time.Time) error {
	args := m.Called(ctx, loanID, statusID, closedAt)
	return args.Error(0)
}

func (m *MockLoanRepository) CreateStatusHistory(ctx context.Context, history *models.LoanStatusHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

// MockDebtorRepository is a mock implementation of DebtorRepository
type MockDebtorRepository struct {
	mock.Mock
}

func (m *MockDebtorRepository) GetByID(ctx context.Context, debtorID int64) (*models.Debtor, error) {
	args := m.Called(ctx, debtorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Debtor), args.Error(1)
}

// MockBalanceRepository is a mock implementation of BalanceRepository
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) GetActiveByLoanID(ctx context.Context, loanID int64) (*models.LoanBalance, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoanBalance), args.Error(1)
}

func (m *MockBalanceRepository) Supersede(ctx context.Context, balanceID int64) error {
	args := m.Called(ctx, balanceID)
	return args.Error(0)
}

func (m *MockBalanceRepository) Insert(ctx context.Context, balance *models.LoanBalance) error {
	args := m.Called(ctx, balance)
	return args.Error(0)
}

func (m *MockBalanceRepository) GetHistoryByLoanID(ctx context.Context, loanID int64) ([]*models.LoanBalance, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LoanBalance), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) ExistsByExternalID(ctx context.Context, externalTxnID string) (bool, error) {
	args := m.Called(ctx, externalTxnID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) GetPaymentsByCollectors(ctx context.Context, collectorIDs []int64, from, to time.Time) ([]*models.Transaction, error) {
	args := m.Called(ctx, collectorIDs, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByLoan(ctx context.Context, loanID int64, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, loanID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

// MockChargeRepository is a mock implementation of ChargeRepository
type MockChargeRepository struct {
	mock.Mock
}

func (m *MockChargeRepository) Create(ctx context.Context, charge *models.Charge) error {
	args := m.Called(ctx, charge)
	return args.Error(0)
}

func (m *MockChargeRepository) GetByLoanIDs(ctx context.Context, loanIDs []int64, from, to time.Time) ([]*models.Charge, error) {
	args := m.Called(ctx, loanIDs, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Charge), args.Error(1)
}

// MockTargetRepository is a mock implementation of TargetRepository
type MockTargetRepository struct {
	mock.Mock
}

func (m *MockTargetRepository) Count(ctx context.Context, filters models.ReportFilters, years []int) (int, error) {
	args := m.Called(ctx, filters, years)
	return args.Int(0), args.Error(1)
}

func (m *MockTargetRepository) GetPage(ctx context.Context, filters models.ReportFilters, years []int, limit, offset int) ([]*models.CollectorTarget, error) {
	args := m.Called(ctx, filters, years, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CollectorTarget), args.Error(1)
}

// MockReportRepository is a mock implementation of ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) CountFrozen(ctx context.Context, filters models.ReportFilters, years []int) (int, error) {
	args := m.Called(ctx, filters, years)
	return args.Int(0), args.Error(1)
}

func (m *MockReportRepository) GetFrozenPage(ctx context.Context, filters models.ReportFilters, years []int, limit, offset int) ([]*models.ReportRow, error) {
	args := m.Called(ctx, filters, years, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ReportRow), args.Error(1)
}

// MockActivityRepository is a mock implementation of ActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) GetSMSByLoanIDs(ctx context.Context, loanIDs []int64, from, to time.Time) ([]*models.SMS, error) {
	args := m.Called(ctx, loanIDs, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SMS), args.Error(1)
}

func (m *MockActivityRepository) GetMarksByLoanIDs(ctx context.Context, loanIDs []int64, from, to time.Time) ([]*models.Mark, error) {
	args := m.Called(ctx, loanIDs, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Mark), args.Error(1)
}

func (m *MockActivityRepository) GetCommentsByLoanIDs(ctx context.Context, loanIDs []int64, from, to time.Time) ([]*models.Comment, error) {
	args := m.Called(ctx, loanIDs, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockActivityRepository) GetCommitteeRequestsByLoanIDs(ctx context.Context, loanIDs []int64, from, to time.Time) ([]*models.CommitteeRequest, error) {
	args := m.Called(ctx, loanIDs, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CommitteeRequest), args.Error(1)
}

func (m *MockActivityRepository) GetLegalStagesByLoanIDs(ctx context.Context, loanIDs []int64, from, to time.Time) ([]*models.LoanLegalStage, error) {
	args := m.Called(ctx, loanIDs, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LoanLegalStage), args.Error(1)
}

func (m *MockActivityRepository) GetDebtorStatusHistory(ctx context.Context, debtorIDs []int64, from, to time.Time) ([]*models.DebtorStatusHistory, error) {
	args := m.Called(ctx, debtorIDs, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DebtorStatusHistory), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are
// injected through SetRepositories so tests can wire their own mocks.
type MockUnitOfWork struct {
	mock.Mock
	loanRepo           LoanRepository
	debtorRepo         DebtorRepository
	balanceRepo        BalanceRepository
	transactionRepo    TransactionRepository
	balanceHistoryRepo BalanceHistoryRepository
	chargeRepo         ChargeRepository
	eventBus           EventPublisher
}

// SetRepositories wires mock repositories into the unit of work. Nil entries
// are allowed for repositories a test never touches.
func (m *MockUnitOfWork) SetRepositories(
	loanRepo LoanRepository,
	debtorRepo DebtorRepository,
	balanceRepo BalanceRepository,
	transactionRepo TransactionRepository,
	balanceHistoryRepo BalanceHistoryRepository,
	chargeRepo ChargeRepository,
	eventBus EventPublisher,
) {
	m.loanRepo = loanRepo
	m.debtorRepo = debtorRepo
	m.balanceRepo = balanceRepo
	m.transactionRepo = transactionRepo
	m.balanceHistoryRepo = balanceHistoryRepo
	m.chargeRepo = chargeRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) LoanRepository() LoanRepository {
	return m.loanRepo
}

func (m *MockUnitOfWork) DebtorRepository() DebtorRepository {
	return m.debtorRepo
}

func (m *MockUnitOfWork) BalanceRepository() BalanceRepository {
	return m.balanceRepo
}

func (m *MockUnitOfWork) TransactionRepository() TransactionRepository {
	return m.transactionRepo
}

func (m *MockUnitOfWork) BalanceHistoryRepository() BalanceHistoryRepository {
	return m.balanceHistoryRepo
}

func (m *MockUnitOfWork) ChargeRepository() ChargeRepository {
	return m.chargeRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventBus == nil {
		return &noopPublisher{}
	}
	return m.eventBus
}

type noopPublisher struct{}

func (p *noopPublisher) Publish(event events.Event) {}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// MockAllocationService is a mock implementation of AllocationService
type MockAllocationService struct {
	mock.Mock
}

func (m *MockAllocationService) RecordPayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaymentResult), args.Error(1)
}

func (m *MockAllocationService) ApplyCharge(ctx context.Context, req ChargeRequest) (*PaymentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaymentResult), args.Error(1)
}
