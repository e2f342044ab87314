package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllocationMode tags what kind of event produced a balance change
type AllocationMode string

const (
	AllocationModePayment AllocationMode = "PAYMENT"
	AllocationModeCharge  AllocationMode = "CHARGE"
)

// LoanBalance is one point-in-time breakdown of a loan's outstanding debt.
// Balances are never updated in place: every allocation supersedes the active
// snapshot and inserts a new one, so the table is an append-only audit trail.
// Exactly one snapshot per loan has SupersededAt == nil at any time.
type LoanBalance struct {
	ID           int64            `db:"id"`
	LoanID       int64            `db:"loan_id"`
	Principal    decimal.Decimal  `db:"principal"`
	Interest     decimal.Decimal  `db:"interest"`
	Penalty      decimal.Decimal  `db:"penalty"`
	OtherFee     decimal.Decimal  `db:"other_fee"`
	LegalCharges decimal.Decimal  `db:"legal_charges"`
	CurrentDebt  decimal.Decimal  `db:"current_debt"`
	AgreementMin *decimal.Decimal `db:"agreement_min"` // negotiated minimum settlement, overrides CurrentDebt for debt checks
	CreatedAt    time.Time        `db:"created_at"`
	SupersededAt *time.Time       `db:"superseded_at"`
}

// BucketTotal returns the sum of all balance buckets. The invariant
// CurrentDebt == BucketTotal() is re-established on every write.
func (b *LoanBalance) BucketTotal() decimal.Decimal {
	return b.Principal.
		Add(b.Interest).
		Add(b.Penalty).
		Add(b.OtherFee).
		Add(b.LegalCharges)
}

// DueAmount returns the amount a debtor must pay to settle: the negotiated
// minimum when one exists, the full current debt otherwise.
func (b *LoanBalance) DueAmount() decimal.Decimal {
	if b.AgreementMin != nil {
		return *b.AgreementMin
	}
	return b.CurrentDebt
}

// BucketApplied is the per-bucket breakdown of one allocation
type BucketApplied struct {
	Principal    decimal.Decimal
	Interest     decimal.Decimal
	Penalty      decimal.Decimal
	OtherFee     decimal.Decimal
	LegalCharges decimal.Decimal
}

// Total returns the sum applied across all buckets
func (a BucketApplied) Total() decimal.Decimal {
	return a.Principal.
		Add(a.Interest).
		Add(a.Penalty).
		Add(a.OtherFee).
		Add(a.LegalCharges)
}

// AllocationResult is the outcome of applying one payment or charge against a
// balance snapshot
type AllocationResult struct {
	Applied        BucketApplied
	NewBalance     *LoanBalance
	NewCurrentDebt decimal.Decimal
	// Overpayment is the excess parked in the penalty bucket before the
	// payment proper was applied; zero for ordinary payments.
	Overpayment decimal.Decimal
}
