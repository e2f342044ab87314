package testutil

import (
	"time"

	"collector/models"

	"github.com/shopspring/decimal"
)

// CreateTestDebtor creates a test debtor with default values
func CreateTestDebtor(fullName string) *models.Debtor {
	return &models.Debtor{
		FullName:  fullName,
		StatusID:  1,
		CreatedAt: time.Now(),
	}
}

// CreateTestLoan creates a test loan with default values
func CreateTestLoan(debtorID, collectorID int64) *models.Loan {
	return &models.Loan{
		DebtorID:    debtorID,
		CollectorID: collectorID,
		StatusID:    models.LoanStatusNew,
		Principal:   decimal.NewFromInt(1000),
		ActDays:     0,
		CreatedAt:   time.Now(),
	}
}

// CreateTestBalance creates an active balance snapshot with the given bucket
// amounts, keeping CurrentDebt consistent with the bucket sum
func CreateTestBalance(loanID int64, principal, interest, penalty int64) *models.LoanBalance {
	balance := &models.LoanBalance{
		LoanID:       loanID,
		Principal:    decimal.NewFromInt(principal),
		Interest:     decimal.NewFromInt(interest),
		Penalty:      decimal.NewFromInt(penalty),
		OtherFee:     decimal.Zero,
		LegalCharges: decimal.Zero,
		CreatedAt:    time.Now(),
	}
	balance.CurrentDebt = balance.BucketTotal()
	return balance
}

// CreateTestTransaction creates a PAYMENT transaction with default values
func CreateTestTransaction(loanID, collectorID int64, amount int64, paymentDate time.Time) *models.Transaction {
	return &models.Transaction{
		LoanID:       loanID,
		CollectorID:  collectorID,
		Mode:         models.AllocationModePayment,
		Reference:    "test-ref",
		Amount:       decimal.NewFromInt(amount),
		Currency:     "GEL",
		ExchangeRate: decimal.NewFromInt(1),
		PaymentDate:  paymentDate,
		Channel:      models.PaymentChannelManual,
		CreatedAt:    paymentDate,
	}
}

// CreateTestCharge creates a charge with the given type and amount
func CreateTestCharge(loanID, userID int64, chargeTypeID models.ChargeTypeID, amount int64) *models.Charge {
	return &models.Charge{
		LoanID:       loanID,
		UserID:       userID,
		ChargeTypeID: chargeTypeID,
		Amount:       decimal.NewFromInt(amount),
		CreatedAt:    time.Now(),
	}
}

// CreateTestTarget creates a collector monthly target over the given loan set
func CreateTestTarget(collectorID int64, year int, month time.Month, targetAmount int64, loanIDs []int64) *models.CollectorTarget {
	return &models.CollectorTarget{
		CollectorID:  collectorID,
		Year:         year,
		Month:        month,
		TargetAmount: decimal.NewFromInt(targetAmount),
		LoanIDs:      loanIDs,
		CreatedAt:    time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
	}
}
