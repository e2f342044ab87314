package service

import (
	"fmt"

	"collector/models"

	"github.com/shopspring/decimal"
)

// The payment waterfall consumes buckets in a fixed order. Changing this
// order changes which bucket absorbs partial payments, so it is a contract
// with accounting, not a tuning knob.
//
// Overpayments follow the legacy parking rule: the excess over the current
// debt is added to the penalty bucket and nothing is applied in that same
// allocation. The raised snapshot stays on the books until a later payment
// consumes it.

// AllocatePayment applies a payment amount against a balance snapshot and
// returns the per-bucket breakdown plus the superseding snapshot. The input
// snapshot is not mutated.
func AllocatePayment(amount decimal.Decimal, snap *models.LoanBalance) (*models.AllocationResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: payment amount must be positive, got %s", ErrValidation, amount)
	}
	if !snap.CurrentDebt.Equal(snap.BucketTotal()) {
		return nil, fmt.Errorf("%w: loan %d snapshot debt %s != bucket total %s",
			ErrConsistency, snap.LoanID, snap.CurrentDebt, snap.BucketTotal())
	}

	next := cloneSnapshot(snap)

	if amount.GreaterThan(snap.CurrentDebt) {
		excess := amount.Sub(snap.CurrentDebt)
		next.Penalty = next.Penalty.Add(excess)
		next.CurrentDebt = next.BucketTotal()

		return &models.AllocationResult{
			Applied:        models.BucketApplied{},
			NewBalance:     next,
			NewCurrentDebt: next.CurrentDebt,
			Overpayment:    excess,
		}, nil
	}

	var applied models.BucketApplied
	remaining := amount

	remaining = drain(&next.Penalty, &applied.Penalty, remaining)
	remaining = drain(&next.Interest, &applied.Interest, remaining)
	remaining = drain(&next.Principal, &applied.Principal, remaining)
	remaining = drain(&next.OtherFee, &applied.OtherFee, remaining)
	remaining = drain(&next.LegalCharges, &applied.LegalCharges, remaining)

	if !remaining.IsZero() {
		// amount <= debt and debt == bucket total, so the waterfall must
		// always consume the full amount
		return nil, fmt.Errorf("%w: loan %d waterfall left %s unapplied",
			ErrConsistency, snap.LoanID, remaining)
	}

	next.CurrentDebt = next.BucketTotal()

	return &models.AllocationResult{
		Applied:        applied,
		NewBalance:     next,
		NewCurrentDebt: next.CurrentDebt,
		Overpayment:    decimal.Zero,
	}, nil
}

// AllocateCharge adds a charge amount to a balance snapshot. Legal charge
// types land in the legal-charges bucket, everything else in other fees.
func AllocateCharge(amount decimal.Decimal, chargeType models.ChargeTypeID, snap *models.LoanBalance) (*models.AllocationResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: charge amount must be positive, got %s", ErrValidation, amount)
	}
	if !snap.CurrentDebt.Equal(snap.BucketTotal()) {
		return nil, fmt.Errorf("%w: loan %d snapshot debt %s != bucket total %s",
			ErrConsistency, snap.LoanID, snap.CurrentDebt, snap.BucketTotal())
	}

	next := cloneSnapshot(snap)

	var applied models.BucketApplied
	if chargeType.IsLegal() {
		next.LegalCharges = next.LegalCharges.Add(amount)
		applied.LegalCharges = amount
	} else {
		next.OtherFee = next.OtherFee.Add(amount)
		applied.OtherFee = amount
	}
	next.CurrentDebt = next.BucketTotal()

	return &models.AllocationResult{
		Applied:        applied,
		NewBalance:     next,
		NewCurrentDebt: next.CurrentDebt,
		Overpayment:    decimal.Zero,
	}, nil
}

// drain moves up to remaining out of bucket, records the applied portion and
// returns what is left of the payment
func drain(bucket, applied *decimal.Decimal, remaining decimal.Decimal) decimal.Decimal {
	if remaining.IsZero() || bucket.IsZero() {
		return remaining
	}
	take := decimal.Min(*bucket, remaining)
	*bucket = bucket.Sub(take)
	*applied = take
	return remaining.Sub(take)
}

// cloneSnapshot builds the successor snapshot, carrying loan linkage and the
// negotiated minimum forward; ID and timestamps are set by the repository.
func cloneSnapshot(snap *models.LoanBalance) *models.LoanBalance {
	return &models.LoanBalance{
		LoanID:       snap.LoanID,
		Principal:    snap.Principal,
		Interest:     snap.Interest,
		Penalty:      snap.Penalty,
		OtherFee:     snap.OtherFee,
		LegalCharges: snap.LegalCharges,
		CurrentDebt:  snap.CurrentDebt,
		AgreementMin: snap.AgreementMin,
	}
}
