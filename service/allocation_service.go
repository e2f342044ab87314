package service

import (
	"context"
	"fmt"
	"time"

	"collector/events"
	"collector/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// allocationService implements the AllocationService interface
type allocationService struct {
	uowFactory      UnitOfWorkFactory
	defaultCurrency string
}

// NewAllocationService creates a new allocation service
func NewAllocationService(uowFactory UnitOfWorkFactory, defaultCurrency string) AllocationService {
	return &allocationService{
		uowFactory:      uowFactory,
		defaultCurrency: defaultCurrency,
	}
}

// RecordPayment applies a payment against a loan's active balance snapshot.
// Snapshot supersede+insert, transaction insert, history insert and the
// optional closure all commit in one atomic unit.
func (s *allocationService) RecordPayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: payment amount must be positive, got %s", ErrValidation, req.Amount)
	}
	if req.ExternalTxnID != nil && *req.ExternalTxnID == "" {
		return nil, fmt.Errorf("%w: external transaction id must not be empty", ErrValidation)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if req.ExternalTxnID != nil {
		exists, err := uow.TransactionRepository().ExistsByExternalID(ctx, *req.ExternalTxnID)
		if err != nil {
			return nil, fmt.Errorf("failed to check external transaction id: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: external transaction id %s already processed",
				ErrDuplicate, *req.ExternalTxnID)
		}
	}

	loan, err := uow.LoanRepository().GetByID(ctx, req.LoanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	if loan == nil {
		return nil, fmt.Errorf("%w: loan %d", ErrNotFound, req.LoanID)
	}

	result, txn, err := s.allocate(ctx, uow, req.LoanID, func(snap *models.LoanBalance) (*models.AllocationResult, error) {
		return AllocatePayment(req.Amount, snap)
	})
	if err != nil {
		return nil, err
	}

	txn.CollectorID = loan.CollectorID
	txn.Mode = models.AllocationModePayment
	txn.Amount = req.Amount
	txn.Currency = req.Currency
	txn.ExchangeRate = req.ExchangeRate
	txn.PaymentDate = req.PaymentDate
	txn.Channel = req.Channel
	txn.ChannelAccountID = req.ChannelAccountID
	txn.ExternalTxnID = req.ExternalTxnID
	txn.Comment = req.Comment

	if err := s.persistAllocation(ctx, uow, txn, result, models.AllocationModePayment); err != nil {
		return nil, err
	}

	closed := false
	if result.NewCurrentDebt.IsZero() {
		if err := s.closeLoan(ctx, uow, loan, txn.ID, req.Online); err != nil {
			return nil, err
		}
		closed = true
	}

	uow.EventBus().Publish(events.PaymentRecordedEvent{
		LoanID:        req.LoanID,
		TransactionID: txn.ID,
		Amount:        req.Amount,
		NewDebt:       result.NewCurrentDebt,
		Online:        req.Online,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &PaymentResult{
		TransactionID: txn.ID,
		Applied:       result.Applied,
		NewDebt:       result.NewCurrentDebt,
		LoanClosed:    closed,
	}, nil
}

// ApplyCharge adds a charge to a loan's balance. The charge row, snapshot
// replacement, transaction and history rows commit together.
func (s *allocationService) ApplyCharge(ctx context.Context, req ChargeRequest) (*PaymentResult, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: charge amount must be positive, got %s", ErrValidation, req.Amount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	result, txn, err := s.allocate(ctx, uow, req.LoanID, func(snap *models.LoanBalance) (*models.AllocationResult, error) {
		return AllocateCharge(req.Amount, req.ChargeTypeID, snap)
	})
	if err != nil {
		return nil, err
	}

	txn.CollectorID = req.UserID
	txn.Mode = models.AllocationModeCharge
	txn.Amount = req.Amount
	txn.Currency = s.defaultCurrency
	txn.ExchangeRate = decimal.NewFromInt(1)
	txn.PaymentDate = time.Now().UTC()
	txn.Channel = models.PaymentChannelManual
	txn.Comment = req.Comment

	if err := s.persistAllocation(ctx, uow, txn, result, models.AllocationModeCharge); err != nil {
		return nil, err
	}

	charge := &models.Charge{
		LoanID:       req.LoanID,
		UserID:       req.UserID,
		ChargeTypeID: req.ChargeTypeID,
		Amount:       req.Amount,
	}
	if err := uow.ChargeRepository().Create(ctx, charge); err != nil {
		return nil, fmt.Errorf("failed to create charge: %w", err)
	}

	uow.EventBus().Publish(events.ChargeAppliedEvent{
		LoanID:        req.LoanID,
		TransactionID: txn.ID,
		Amount:        req.Amount,
		NewDebt:       result.NewCurrentDebt,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &PaymentResult{
		TransactionID: txn.ID,
		Applied:       result.Applied,
		NewDebt:       result.NewCurrentDebt,
		LoanClosed:    false,
	}, nil
}

// allocate loads the active snapshot, runs the pure allocation and replaces
// the snapshot. The returned transaction carries the applied breakdown and a
// fresh reference; the caller fills in the rest before persisting.
func (s *allocationService) allocate(
	ctx context.Context,
	uow UnitOfWork,
	loanID int64,
	fn func(*models.LoanBalance) (*models.AllocationResult, error),
) (*models.AllocationResult, *models.Transaction, error) {
	snap, err := uow.BalanceRepository().GetActiveByLoanID(ctx, loanID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get active balance: %w", err)
	}
	if snap == nil {
		return nil, nil, fmt.Errorf("%w: no active balance snapshot for loan %d", ErrNotFound, loanID)
	}

	if !snap.CurrentDebt.Equal(snap.BucketTotal()) {
		log.WithFields(log.Fields{
			"loanID":      loanID,
			"snapshotID":  snap.ID,
			"currentDebt": snap.CurrentDebt.String(),
			"bucketTotal": snap.BucketTotal().String(),
		}).Error("Balance snapshot violates sum-of-buckets invariant")
		return nil, nil, fmt.Errorf("%w: loan %d snapshot %d", ErrConsistency, loanID, snap.ID)
	}

	result, err := fn(snap)
	if err != nil {
		return nil, nil, err
	}

	if err := uow.BalanceRepository().Supersede(ctx, snap.ID); err != nil {
		return nil, nil, fmt.Errorf("failed to supersede snapshot: %w", err)
	}
	if err := uow.BalanceRepository().Insert(ctx, result.NewBalance); err != nil {
		return nil, nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	txn := &models.Transaction{
		LoanID:              loanID,
		Reference:           uuid.New().String(),
		AppliedPrincipal:    result.Applied.Principal,
		AppliedInterest:     result.Applied.Interest,
		AppliedPenalty:      result.Applied.Penalty,
		AppliedOtherFee:     result.Applied.OtherFee,
		AppliedLegalCharges: result.Applied.LegalCharges,
	}

	return result, txn, nil
}

// persistAllocation writes the transaction row and its balance-history audit
// entry
func (s *allocationService) persistAllocation(
	ctx context.Context,
	uow UnitOfWork,
	txn *models.Transaction,
	result *models.AllocationResult,
	mode models.AllocationMode,
) error {
	if err := uow.TransactionRepository().Create(ctx, txn); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	history := &models.BalanceHistory{
		LoanID:        txn.LoanID,
		TransactionID: txn.ID,
		Principal:     result.NewBalance.Principal,
		Interest:      result.NewBalance.Interest,
		Penalty:       result.NewBalance.Penalty,
		OtherFee:      result.NewBalance.OtherFee,
		LegalCharges:  result.NewBalance.LegalCharges,
		CurrentDebt:   result.NewBalance.CurrentDebt,
		Mode:          mode,
	}
	if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	return nil
}

// closeLoan transitions a fully paid loan to closed, records the status
// history and publishes the closure event
func (s *allocationService) closeLoan(ctx context.Context, uow UnitOfWork, loan *models.Loan, transactionID int64, online bool) error {
	now := time.Now().UTC()
	if err := uow.LoanRepository().UpdateStatus(ctx, loan.ID, models.LoanStatusClosed, &now); err != nil {
		return fmt.Errorf("failed to close loan: %w", err)
	}

	note := "closed by manual payment"
	if online {
		note = "closed by online payment"
	}
	history := &models.LoanStatusHistory{
		LoanID:      loan.ID,
		OldStatusID: loan.StatusID,
		NewStatusID: models.LoanStatusClosed,
		Note:        note,
	}
	if err := uow.LoanRepository().CreateStatusHistory(ctx, history); err != nil {
		return fmt.Errorf("failed to record status history: %w", err)
	}

	uow.EventBus().Publish(events.LoanClosedEvent{
		LoanID:        loan.ID,
		TransactionID: transactionID,
		OldStatusID:   int(loan.StatusID),
		Online:        online,
	})

	return nil
}
