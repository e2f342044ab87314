package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentChannel identifies how a payment reached the system
type PaymentChannel string

const (
	PaymentChannelManual  PaymentChannel = "manual"
	PaymentChannelBillPay PaymentChannel = "bill_pay"
)

// Transaction is an immutable record of one payment or charge event. Created
// once by the allocation engine; never mutated or deleted.
type Transaction struct {
	ID                  int64           `db:"id"`
	LoanID              int64           `db:"loan_id"`
	CollectorID         int64           `db:"collector_id"`
	Mode                AllocationMode  `db:"mode"`
	Reference           string          `db:"reference"` // internal correlation id, set once at creation
	Amount              decimal.Decimal `db:"amount"`
	Currency            string          `db:"currency"`
	ExchangeRate        decimal.Decimal `db:"exchange_rate"`
	PaymentDate         time.Time       `db:"payment_date"`
	Channel             PaymentChannel  `db:"channel"`
	ChannelAccountID    int64           `db:"channel_account_id"`
	ExternalTxnID       *string         `db:"external_txn_id"` // bill-pay provider txn_id, unique when present
	Comment             *string         `db:"comment"`
	AppliedPrincipal    decimal.Decimal `db:"applied_principal"`
	AppliedInterest     decimal.Decimal `db:"applied_interest"`
	AppliedPenalty      decimal.Decimal `db:"applied_penalty"`
	AppliedOtherFee     decimal.Decimal `db:"applied_other_fee"`
	AppliedLegalCharges decimal.Decimal `db:"applied_legal_charges"`
	CreatedAt           time.Time       `db:"created_at"`
}
