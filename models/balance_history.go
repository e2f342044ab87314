package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceHistory is the immutable audit row written alongside every
// transaction: the balances that resulted from the allocation and a tag of
// the allocation mode. One row per allocation event, append-only.
type BalanceHistory struct {
	ID            int64           `db:"id"`
	LoanID        int64           `db:"loan_id"`
	TransactionID int64           `db:"transaction_id"`
	Principal     decimal.Decimal `db:"principal"`
	Interest      decimal.Decimal `db:"interest"`
	Penalty       decimal.Decimal `db:"penalty"`
	OtherFee      decimal.Decimal `db:"other_fee"`
	LegalCharges  decimal.Decimal `db:"legal_charges"`
	CurrentDebt   decimal.Decimal `db:"current_debt"`
	Mode          AllocationMode  `db:"mode"`
	CreatedAt     time.Time       `db:"created_at"`
}
