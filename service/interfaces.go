package service

import (
	"context"
	"time"

	"collector/events"
	"collector/models"

	"github.com/shopspring/decimal"
)

// LoanRepository defines the interface for loan data access
type LoanRepository interface {
	// GetByID retrieves a loan by its ID, nil when absent or soft-deleted
	GetByID(ctx context.Context, loanID int64) (*models.Loan, error)

	// GetByIDs bulk-fetches loans by id set, skipping soft-deleted rows
	GetByIDs(ctx context.Context, loanIDs []int64) ([]*models.Loan, error)

	// UpdateStatus transitions a loan's status, optionally stamping closure
	UpdateStatus(ctx context.Context, loanID int64, statusID models.LoanStatusID, closedAt *time.Time) error

	// CreateStatusHistory appends one status transition record
	CreateStatusHistory(ctx context.Context, history *models.LoanStatusHistory) error
}

// DebtorRepository defines the interface for debtor data access
type DebtorRepository interface {
	// GetByID retrieves a debtor by id, nil when absent
	GetByID(ctx context.Context, debtorID int64) (*models.Debtor, error)
}

// BalanceRepository defines the interface for balance snapshot access
type BalanceRepository interface {
	// GetActiveByLoanID returns the single non-superseded snapshot for a
	// loan, nil when none exists
	GetActiveByLoanID(ctx context.Context, loanID int64) (*models.LoanBalance, error)

	// Supersede soft-deletes a snapshot, marking it replaced
	Supersede(ctx context.Context, balanceID int64) error

	// Insert creates a new active snapshot
	Insert(ctx context.Context, balance *models.LoanBalance) error

	// GetHistoryByLoanID returns all snapshots for a loan, newest first
	GetHistoryByLoanID(ctx context.Context, loanID int64) ([]*models.LoanBalance, error)
}

// TransactionRepository defines the interface for transaction data access
type TransactionRepository interface {
	// Create inserts one immutable transaction row
	Create(ctx context.Context, txn *models.Transaction) error

	// ExistsByExternalID reports whether an external txn_id was already used
	ExistsByExternalID(ctx context.Context, externalTxnID string) (bool, error)

	// GetPaymentsByCollectors bulk-fetches PAYMENT transactions for a set of
	// collectors within a date range
	GetPaymentsByCollectors(ctx context.Context, collectorIDs []int64, from, to time.Time) ([]*models.Transaction, error)
}

// BalanceHistoryRepository defines the interface for the allocation audit trail
type BalanceHistoryRepository interface {
	// Record appends one balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByLoan returns balance history for a loan, newest first
	GetByLoan(ctx context.Context, loanID int64, limit int) ([]*models.BalanceHistory, error)
}

// ChargeRepository defines the interface for charge data access
type ChargeRepository interface {
	// Create inserts one charge row
	Create(ctx context.Context, charge *models.Charge) error

	// GetByLoanIDs bulk-fetches charges for a loan set within a date range
	GetByLoanIDs(ctx context.Context, loanIDs []int64, from, to time.Time) ([]*models.Charge, error)
}

// TargetRepository defines the interface for collector monthly plan rows
type TargetRepository interface {
	// Count returns the number of targets matching the filters
	Count(ctx context.Context, filters models.ReportFilters, years []int) (int, error)

	// GetPage returns one ordered page of targets matching the filters
	GetPage(ctx context.Context, filters models.ReportFilters, years []int, limit, offset int) ([]*models.CollectorTarget, error)
}

// ReportRepository defines the interface for precomputed legacy report rows
type ReportRepository interface {
	// CountFrozen returns the number of frozen rows matching the filters
	CountFrozen(ctx context.Context, filters models.ReportFilters, years []int) (int, error)

	// GetFrozenPage returns one ordered page of frozen report rows
	GetFrozenPage(ctx context.Context, filters models.ReportFilters, years []int, limit, offset int) ([]*models.ReportRow, error)
}

// ActivityRepository is the collection-data fetcher: bulk reads of every
// activity source a reporting period needs, always filtered by id set and
// date range
type ActivityRepository interface {
	GetSMSByLoanIDs(ctx context.Context, loanIDs []int64, from, to time.Time) ([]*models.SMS, error)
	GetMarksByLoanIDs(ctx context.Context, loanIDs []int64, from, to time.Time) ([]*models.Mark, error)
	GetCommentsByLoanIDs(ctx context.Context, loanIDs []int64, from, to time.Time) ([]*models.Comment, error)
	GetCommitteeRequestsByLoanIDs(ctx context.Context, loanIDs []int64, from, to time.Time) ([]*models.CommitteeRequest, error)
	GetLegalStagesByLoanIDs(ctx context.Context, loanIDs []int64, from, to time.Time) ([]*models.LoanLegalStage, error)
	GetDebtorStatusHistory(ctx context.Context, debtorIDs []int64, from, to time.Time) ([]*models.DebtorStatusHistory, error)
}

// PaymentRequest carries one incoming payment into the allocation engine
type PaymentRequest struct {
	LoanID           int64
	Amount           decimal.Decimal
	Currency         string
	ExchangeRate     decimal.Decimal
	PaymentDate      time.Time
	Channel          models.PaymentChannel
	ChannelAccountID int64
	ExternalTxnID    *string
	Comment          *string
	// Online marks payments arriving through the bill-payment adapter; the
	// closure status-history note records the triggering mechanism.
	Online bool
}

// ChargeRequest carries one charge into the allocation engine
type ChargeRequest struct {
	LoanID       int64
	UserID       int64
	ChargeTypeID models.ChargeTypeID
	Amount       decimal.Decimal
	Comment      *string
}

// PaymentResult is what the allocation service returns to payment callers
type PaymentResult struct {
	TransactionID int64
	Applied       models.BucketApplied
	NewDebt       decimal.Decimal
	LoanClosed    bool
}

// AllocationService defines the interface for payment and charge allocation
type AllocationService interface {
	// RecordPayment applies a payment against a loan's active balance
	// snapshot inside one atomic unit
	RecordPayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error)

	// ApplyCharge adds a charge to a loan's balance inside one atomic unit
	ApplyCharge(ctx context.Context, req ChargeRequest) (*PaymentResult, error)
}

// ReportService defines the interface for collector performance reporting
type ReportService interface {
	// GetPlanReport computes one page of collector-month KPI rows
	GetPlanReport(ctx context.Context, filters models.ReportFilters, page models.PageRequest) (*models.PageResult, error)
}

// BillPayCheck is the identity and due-amount answer for a bill-pay lookup
type BillPayCheck struct {
	LoanID     int64
	DebtorName string
	DueAmount  decimal.Decimal
}

// BillPayReceipt confirms one accepted bill-pay payment
type BillPayReceipt struct {
	TransactionID int64
	LoanID        int64
	Amount        decimal.Decimal
	NewDebt       decimal.Decimal
	LoanClosed    bool
}

// BillPayService defines the interface consumed by the online bill-payment
// adapters (the CHECK/PAY pair, minus the wire framing)
type BillPayService interface {
	// Check returns the debtor identity and due amount for a loan
	Check(ctx context.Context, loanID int64) (*BillPayCheck, error)

	// Pay validates and records an online payment; duplicate external
	// transaction ids are rejected before allocation runs
	Pay(ctx context.Context, loanID int64, amountStr string, externalTxnID string) (*BillPayReceipt, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	LoanRepository() LoanRepository
	DebtorRepository() DebtorRepository
	BalanceRepository() BalanceRepository
	TransactionRepository() TransactionRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	ChargeRepository() ChargeRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
