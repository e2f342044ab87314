package service

import (
	"context"
	"fmt"
	"time"

	"collector/models"

	"github.com/shopspring/decimal"
)

// billPayService implements the BillPayService interface. It is the internal
// half of the online bill-payment integration: the wire adapters parse the
// provider's CHECK/PAY frames and call in here.
type billPayService struct {
	uowFactory UnitOfWorkFactory
	allocation AllocationService
	currency   string
}

// NewBillPayService creates a new bill-pay service
func NewBillPayService(uowFactory UnitOfWorkFactory, allocation AllocationService, currency string) BillPayService {
	return &billPayService{
		uowFactory: uowFactory,
		allocation: allocation,
		currency:   currency,
	}
}

// Check returns the debtor identity and due amount for a loan. The
// negotiated minimum overrides the current debt when one exists.
func (s *billPayService) Check(ctx context.Context, loanID int64) (*BillPayCheck, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	loan, err := uow.LoanRepository().GetByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	if loan == nil {
		return nil, fmt.Errorf("%w: loan %d", ErrNotFound, loanID)
	}

	snap, err := uow.BalanceRepository().GetActiveByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active balance: %w", err)
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: no active balance snapshot for loan %d", ErrNotFound, loanID)
	}

	debtor, err := uow.DebtorRepository().GetByID(ctx, loan.DebtorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get debtor: %w", err)
	}
	if debtor == nil {
		return nil, fmt.Errorf("%w: debtor %d", ErrNotFound, loan.DebtorID)
	}

	return &BillPayCheck{
		LoanID:     loanID,
		DebtorName: debtor.FullName,
		DueAmount:  snap.DueAmount(),
	}, nil
}

// Pay validates and records an online payment. The amount arrives as a
// decimal string from the provider; duplicate external transaction ids are
// rejected before allocation runs.
func (s *billPayService) Pay(ctx context.Context, loanID int64, amountStr string, externalTxnID string) (*BillPayReceipt, error) {
	if externalTxnID == "" {
		return nil, fmt.Errorf("%w: external transaction id is required", ErrValidation)
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed amount %q", ErrValidation, amountStr)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", ErrValidation, amount)
	}

	result, err := s.allocation.RecordPayment(ctx, PaymentRequest{
		LoanID:        loanID,
		Amount:        amount,
		Currency:      s.currency,
		ExchangeRate:  decimal.NewFromInt(1),
		PaymentDate:   time.Now().UTC(),
		Channel:       models.PaymentChannelBillPay,
		ExternalTxnID: &externalTxnID,
		Online:        true,
	})
	if err != nil {
		return nil, err
	}

	return &BillPayReceipt{
		TransactionID: result.TransactionID,
		LoanID:        loanID,
		Amount:        amount,
		NewDebt:       result.NewDebt,
		LoanClosed:    result.LoanClosed,
	}, nil
}
