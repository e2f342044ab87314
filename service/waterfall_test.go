package service

import (
	"testing"

	"collector/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSnapshot(principal, interest, penalty, otherFee, legalCharges int64) *models.LoanBalance {
	snap := &models.LoanBalance{
		ID:           1,
		LoanID:       100,
		Principal:    decimal.NewFromInt(principal),
		Interest:     decimal.NewFromInt(interest),
		Penalty:      decimal.NewFromInt(penalty),
		OtherFee:     decimal.NewFromInt(otherFee),
		LegalCharges: decimal.NewFromInt(legalCharges),
	}
	snap.CurrentDebt = snap.BucketTotal()
	return snap
}

func TestAllocatePayment_WaterfallOrder(t *testing.T) {
	// penalty drains before interest, interest before principal
	snap := makeSnapshot(500, 100, 60, 0, 0)

	result, err := AllocatePayment(decimal.NewFromInt(200), snap)
	require.NoError(t, err)

	assert.True(t, result.Applied.Penalty.Equal(decimal.NewFromInt(60)))
	assert.True(t, result.Applied.Interest.Equal(decimal.NewFromInt(100)))
	assert.True(t, result.Applied.Principal.Equal(decimal.NewFromInt(40)))
	assert.True(t, result.Applied.OtherFee.IsZero())
	assert.True(t, result.Applied.LegalCharges.IsZero())

	assert.True(t, result.NewBalance.Penalty.IsZero())
	assert.True(t, result.NewBalance.Interest.IsZero())
	assert.True(t, result.NewBalance.Principal.Equal(decimal.NewFromInt(460)))
	assert.True(t, result.NewCurrentDebt.Equal(decimal.NewFromInt(460)))
	assert.True(t, result.Overpayment.IsZero())
}

func TestAllocatePayment_ReachesTrailingBuckets(t *testing.T) {
	snap := makeSnapshot(100, 50, 20, 30, 40)

	result, err := AllocatePayment(decimal.NewFromInt(210), snap)
	require.NoError(t, err)

	assert.True(t, result.Applied.Penalty.Equal(decimal.NewFromInt(20)))
	assert.True(t, result.Applied.Interest.Equal(decimal.NewFromInt(50)))
	assert.True(t, result.Applied.Principal.Equal(decimal.NewFromInt(100)))
	assert.True(t, result.Applied.OtherFee.Equal(decimal.NewFromInt(30)))
	assert.True(t, result.Applied.LegalCharges.Equal(decimal.NewFromInt(10)))
	assert.True(t, result.NewCurrentDebt.Equal(decimal.NewFromInt(30)))
}

func TestAllocatePayment_ExactPayoff(t *testing.T) {
	snap := makeSnapshot(100, 50, 20, 0, 0)

	result, err := AllocatePayment(decimal.NewFromInt(170), snap)
	require.NoError(t, err)

	assert.True(t, result.NewCurrentDebt.IsZero())
	assert.True(t, result.Applied.Total().Equal(decimal.NewFromInt(170)))
	assert.True(t, result.NewBalance.BucketTotal().IsZero())
}

func TestAllocatePayment_OverpaymentParksExcessInPenalty(t *testing.T) {
	// 150 against 100 of debt: the excess 50 raises the penalty bucket and
	// nothing is applied in the same allocation, so the loan never closes on
	// an overpayment
	snap := makeSnapshot(80, 0, 20, 0, 0)

	result, err := AllocatePayment(decimal.NewFromInt(150), snap)
	require.NoError(t, err)

	assert.True(t, result.Overpayment.Equal(decimal.NewFromInt(50)))
	assert.True(t, result.Applied.Total().IsZero())
	assert.True(t, result.NewBalance.Penalty.Equal(decimal.NewFromInt(70)))
	assert.True(t, result.NewBalance.Principal.Equal(decimal.NewFromInt(80)))
	assert.True(t, result.NewCurrentDebt.Equal(decimal.NewFromInt(150)))
}

func TestAllocatePayment_SnapshotNotMutated(t *testing.T) {
	snap := makeSnapshot(100, 50, 20, 0, 0)

	_, err := AllocatePayment(decimal.NewFromInt(60), snap)
	require.NoError(t, err)

	assert.True(t, snap.Penalty.Equal(decimal.NewFromInt(20)))
	assert.True(t, snap.Interest.Equal(decimal.NewFromInt(50)))
	assert.True(t, snap.CurrentDebt.Equal(decimal.NewFromInt(170)))
}

func TestAllocatePayment_NewSnapshotKeepsInvariant(t *testing.T) {
	snap := makeSnapshot(75, 33, 12, 5, 0)

	result, err := AllocatePayment(decimal.NewFromInt(50), snap)
	require.NoError(t, err)

	assert.True(t, result.NewBalance.CurrentDebt.Equal(result.NewBalance.BucketTotal()))
}

func TestAllocatePayment_RejectsNonPositiveAmount(t *testing.T) {
	snap := makeSnapshot(100, 0, 0, 0, 0)

	_, err := AllocatePayment(decimal.Zero, snap)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = AllocatePayment(decimal.NewFromInt(-5), snap)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAllocatePayment_RejectsInconsistentSnapshot(t *testing.T) {
	snap := makeSnapshot(100, 0, 0, 0, 0)
	snap.CurrentDebt = decimal.NewFromInt(999)

	_, err := AllocatePayment(decimal.NewFromInt(50), snap)
	assert.ErrorIs(t, err, ErrConsistency)
}

func TestAllocatePayment_CarriesAgreementMinForward(t *testing.T) {
	snap := makeSnapshot(100, 0, 0, 0, 0)
	min := decimal.NewFromInt(80)
	snap.AgreementMin = &min

	result, err := AllocatePayment(decimal.NewFromInt(30), snap)
	require.NoError(t, err)

	require.NotNil(t, result.NewBalance.AgreementMin)
	assert.True(t, result.NewBalance.AgreementMin.Equal(min))
}

func TestAllocateCharge_LegalTypeLandsInLegalCharges(t *testing.T) {
	snap := makeSnapshot(100, 0, 0, 0, 0)

	result, err := AllocateCharge(decimal.NewFromInt(25), models.ChargeTypeCourtFee, snap)
	require.NoError(t, err)

	assert.True(t, result.Applied.LegalCharges.Equal(decimal.NewFromInt(25)))
	assert.True(t, result.NewBalance.LegalCharges.Equal(decimal.NewFromInt(25)))
	assert.True(t, result.NewCurrentDebt.Equal(decimal.NewFromInt(125)))
}

func TestAllocateCharge_OtherTypeLandsInOtherFee(t *testing.T) {
	snap := makeSnapshot(100, 0, 0, 0, 0)

	result, err := AllocateCharge(decimal.NewFromInt(10), models.ChargeTypeNotaryFee, snap)
	require.NoError(t, err)

	assert.True(t, result.Applied.OtherFee.Equal(decimal.NewFromInt(10)))
	assert.True(t, result.NewBalance.OtherFee.Equal(decimal.NewFromInt(10)))
	assert.True(t, result.NewCurrentDebt.Equal(decimal.NewFromInt(110)))
}

func TestAllocateCharge_RejectsNonPositiveAmount(t *testing.T) {
	snap := makeSnapshot(100, 0, 0, 0, 0)

	_, err := AllocateCharge(decimal.Zero, models.ChargeTypeCourtFee, snap)
	assert.ErrorIs(t, err, ErrValidation)
}
