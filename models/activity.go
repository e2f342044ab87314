package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChargeTypeID classifies a charge for reporting purposes
type ChargeTypeID int

const (
	ChargeTypeCourtFee       ChargeTypeID = 1
	ChargeTypeEnforcementFee ChargeTypeID = 2
	ChargeTypeServiceFee     ChargeTypeID = 3
	ChargeTypeNotaryFee      ChargeTypeID = 4
	ChargeTypePostageFee     ChargeTypeID = 5
)

// IsLegal reports whether the charge type counts toward legal charge totals
func (c ChargeTypeID) IsLegal() bool {
	return c == ChargeTypeCourtFee || c == ChargeTypeEnforcementFee
}

// IsOther reports whether the charge type counts toward other charge totals.
// Ids outside both classifications are excluded from report sums entirely.
func (c ChargeTypeID) IsOther() bool {
	return c == ChargeTypeServiceFee || c == ChargeTypeNotaryFee || c == ChargeTypePostageFee
}

// Legal stage ids are a fixed external contract of the case-management system
const (
	LegalStageCourt     = 61
	LegalStageExecution = 62
)

// SMS is one outbound message sent to a debtor by a collector
type SMS struct {
	ID        int64     `db:"id"`
	LoanID    int64     `db:"loan_id"`
	UserID    int64     `db:"user_id"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
}

// Mark is a short call-outcome note a collector leaves on a loan
type Mark struct {
	ID        int64     `db:"id"`
	LoanID    int64     `db:"loan_id"`
	UserID    int64     `db:"user_id"`
	MarkType  string    `db:"mark_type"`
	CreatedAt time.Time `db:"created_at"`
}

// Comment is a free-form note on a loan
type Comment struct {
	ID        int64     `db:"id"`
	LoanID    int64     `db:"loan_id"`
	UserID    int64     `db:"user_id"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
}

// CommitteeRequest is an approval request for discounted settlement terms
type CommitteeRequest struct {
	ID        int64           `db:"id"`
	LoanID    int64           `db:"loan_id"`
	UserID    int64           `db:"user_id"`
	Requested decimal.Decimal `db:"requested_amount"`
	Status    string          `db:"status"`
	CreatedAt time.Time       `db:"created_at"`
}

// Charge is a fee added to a loan (court fees, enforcement fees, service
// charges and the like)
type Charge struct {
	ID           int64           `db:"id"`
	LoanID       int64           `db:"loan_id"`
	UserID       int64           `db:"user_id"`
	ChargeTypeID ChargeTypeID    `db:"charge_type_id"`
	Amount       decimal.Decimal `db:"amount"`
	CreatedAt    time.Time       `db:"created_at"`
}

// LoanLegalStage marks a loan entering a legal lifecycle stage (court filing,
// enforcement)
type LoanLegalStage struct {
	ID        int64     `db:"id"`
	LoanID    int64     `db:"loan_id"`
	UserID    int64     `db:"user_id"`
	StageID   int       `db:"stage_id"`
	CreatedAt time.Time `db:"created_at"`
}

// DebtorStatusHistory records one debtor-level status transition
type DebtorStatusHistory struct {
	ID          int64     `db:"id"`
	DebtorID    int64     `db:"debtor_id"`
	UserID      int64     `db:"user_id"`
	OldStatusID int64     `db:"old_status_id"`
	NewStatusID int64     `db:"new_status_id"`
	CreatedAt   time.Time `db:"created_at"`
}
