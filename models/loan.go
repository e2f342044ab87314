package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatusID identifies a loan's collection status
type LoanStatusID int

const (
	LoanStatusNew                LoanStatusID = 1
	LoanStatusCommunication      LoanStatusID = 2
	LoanStatusUnreachable        LoanStatusID = 3
	LoanStatusAgreement          LoanStatusID = 4
	LoanStatusAgreementCancelled LoanStatusID = 5
	LoanStatusRefuseToPay        LoanStatusID = 6
	LoanStatusPromisedToPay      LoanStatusID = 7
	LoanStatusClosed             LoanStatusID = 8
)

var loanStatusNames = map[LoanStatusID]string{
	LoanStatusNew:                "new",
	LoanStatusCommunication:      "communication",
	LoanStatusUnreachable:        "unreachable",
	LoanStatusAgreement:          "agreement",
	LoanStatusAgreementCancelled: "agreement_cancelled",
	LoanStatusRefuseToPay:        "refuse_to_pay",
	LoanStatusPromisedToPay:      "promised_to_pay",
	LoanStatusClosed:             "closed",
}

// StatusName returns the canonical name for a status id. Unmapped ids get a
// synthetic UNKNOWN_<id> label so reporting never crashes on new statuses.
func StatusName(id LoanStatusID) string {
	if name, ok := loanStatusNames[id]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN_%d", id)
}

// Loan represents a single debt case assigned to a collector
type Loan struct {
	ID          int64           `db:"id"`
	DebtorID    int64           `db:"debtor_id"`
	CollectorID int64           `db:"collector_id"`
	StatusID    LoanStatusID    `db:"status_id"`
	Principal   decimal.Decimal `db:"principal"`
	ActDays     int             `db:"act_days"` // days since last debtor activity
	ClosedAt    *time.Time      `db:"closed_at"`
	CreatedAt   time.Time       `db:"created_at"`
	DeletedAt   *time.Time      `db:"deleted_at"`
}

// LoanStatusHistory records one status transition for a loan
type LoanStatusHistory struct {
	ID          int64        `db:"id"`
	LoanID      int64        `db:"loan_id"`
	OldStatusID LoanStatusID `db:"old_status_id"`
	NewStatusID LoanStatusID `db:"new_status_id"`
	Note        string       `db:"note"`
	CreatedAt   time.Time    `db:"created_at"`
}

// Debtor represents the person behind one or more loans
type Debtor struct {
	ID        int64     `db:"id"`
	FullName  string    `db:"full_name"`
	StatusID  int64     `db:"status_id"`
	CreatedAt time.Time `db:"created_at"`
}
