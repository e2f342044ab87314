package service

import (
	"context"
	"testing"
	"time"

	"collector/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type reportMocks struct {
	targetRepo   *MockTargetRepository
	reportRepo   *MockReportRepository
	loanRepo     *MockLoanRepository
	txnRepo      *MockTransactionRepository
	chargeRepo   *MockChargeRepository
	activityRepo *MockActivityRepository
}

func newReportService(nowTime time.Time) (*reportService, *reportMocks) {
	m := &reportMocks{
		targetRepo:   new(MockTargetRepository),
		reportRepo:   new(MockReportRepository),
		loanRepo:     new(MockLoanRepository),
		txnRepo:      new(MockTransactionRepository),
		chargeRepo:   new(MockChargeRepository),
		activityRepo: new(MockActivityRepository),
	}
	svc := NewReportService(m.targetRepo, m.reportRepo, m.loanRepo, m.txnRepo, m.chargeRepo, m.activityRepo).(*reportService)
	svc.now = func() time.Time { return nowTime }
	return svc, m
}

// expectEmptyCollectionData wires the bulk fetches to return nothing
func expectEmptyCollectionData(m *reportMocks) {
	m.loanRepo.On("GetByIDs", mock.Anything, mock.Anything).Return([]*models.Loan{}, nil)
	m.txnRepo.On("GetPaymentsByCollectors", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*models.Transaction{}, nil)
	m.activityRepo.On("GetSMSByLoanIDs", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*models.SMS{}, nil)
	m.activityRepo.On("GetMarksByLoanIDs", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*models.Mark{}, nil)
	m.activityRepo.On("GetCommentsByLoanIDs", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*models.Comment{}, nil)
	m.activityRepo.On("GetCommitteeRequestsByLoanIDs", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*models.CommitteeRequest{}, nil)
	m.chargeRepo.On("GetByLoanIDs", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*models.Charge{}, nil)
	m.activityRepo.On("GetLegalStagesByLoanIDs", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*models.LoanLegalStage{}, nil)
	m.activityRepo.On("GetDebtorStatusHistory", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*models.DebtorStatusHistory{}, nil)
}

func TestGetPlanReport_RejectsBadPageSize(t *testing.T) {
	svc, _ := newReportService(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))

	_, err := svc.GetPlanReport(context.Background(), models.ReportFilters{}, models.PageRequest{Page: 1, PageSize: 0})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetPlanReport_LegacyYearsServedFromFrozenRows(t *testing.T) {
	ctx := context.Background()
	svc, m := newReportService(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))

	filters := models.ReportFilters{Years: []int{2024}}
	frozen := []*models.ReportRow{
		{CollectorID: 1, Year: 2024, Month: time.January},
		{CollectorID: 2, Year: 2024, Month: time.January},
	}

	m.reportRepo.On("CountFrozen", ctx, filters, []int{2024}).Return(2, nil)
	m.reportRepo.On("GetFrozenPage", ctx, filters, []int{2024}, 20, 0).Return(frozen, nil)

	result, err := svc.GetPlanReport(ctx, filters, models.PageRequest{Page: 1, PageSize: 20})
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 1, result.TotalPages)
	assert.Equal(t, frozen, result.Rows)

	// frozen rows are served as stored, never recomputed
	m.targetRepo.AssertNotCalled(t, "Count")
	m.targetRepo.AssertNotCalled(t, "GetPage")
	m.loanRepo.AssertNotCalled(t, "GetByIDs")
}

func TestGetPlanReport_CurrentYearsComputedFromTargets(t *testing.T) {
	ctx := context.Background()
	svc, m := newReportService(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))

	filters := models.ReportFilters{Years: []int{2026}}
	targets := []*models.CollectorTarget{
		{
			ID:           1,
			CollectorID:  7,
			Year:         2026,
			Month:        time.March,
			TargetAmount: decimal.NewFromInt(500),
			LoanIDs:      []int64{1},
			CreatedAt:    time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	m.targetRepo.On("Count", ctx, filters, []int{2026}).Return(1, nil)
	m.targetRepo.On("GetPage", ctx, filters, []int{2026}, 20, 0).Return(targets, nil)

	m.loanRepo.On("GetByIDs", mock.Anything, []int64{1}).Return([]*models.Loan{
		{ID: 1, DebtorID: 11, CollectorID: 7, StatusID: models.LoanStatusNew, Principal: decimal.NewFromInt(500)},
	}, nil)
	m.txnRepo.On("GetPaymentsByCollectors", mock.Anything, []int64{7}, mock.Anything, mock.Anything).Return([]*models.Transaction{
		{LoanID: 1, CollectorID: 7, Mode: models.AllocationModePayment, Amount: decimal.NewFromInt(100), PaymentDate: time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)},
	}, nil)
	m.activityRepo.On("GetSMSByLoanIDs", mock.Anything, []int64{1}, mock.Anything, mock.Anything).Return([]*models.SMS{}, nil)
	m.activityRepo.On("GetMarksByLoanIDs", mock.Anything, []int64{1}, mock.Anything, mock.Anything).Return([]*models.Mark{}, nil)
	m.activityRepo.On("GetCommentsByLoanIDs", mock.Anything, []int64{1}, mock.Anything, mock.Anything).Return([]*models.Comment{}, nil)
	m.activityRepo.On("GetCommitteeRequestsByLoanIDs", mock.Anything, []int64{1}, mock.Anything, mock.Anything).Return([]*models.CommitteeRequest{}, nil)
	m.chargeRepo.On("GetByLoanIDs", mock.Anything, []int64{1}, mock.Anything, mock.Anything).Return([]*models.Charge{}, nil)
	m.activityRepo.On("GetLegalStagesByLoanIDs", mock.Anything, []int64{1}, mock.Anything, mock.Anything).Return([]*models.LoanLegalStage{}, nil)
	m.activityRepo.On("GetDebtorStatusHistory", mock.Anything, []int64{11}, mock.Anything, mock.Anything).Return([]*models.DebtorStatusHistory{}, nil)

	result, err := svc.GetPlanReport(ctx, filters, models.PageRequest{Page: 1, PageSize: 20})
	require.NoError(t, err)

	require.Len(t, result.Rows, 1)
	row := result.Rows[0]
	assert.Equal(t, int64(7), row.CollectorID)
	assert.Equal(t, 1, row.RelatedLoanCount)
	assert.True(t, row.CollectedAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, row.CollectionRatePercent.Equal(decimal.NewFromInt(20)))

	m.reportRepo.AssertNotCalled(t, "CountFrozen")
}

func TestGetPlanReport_SpanningRequestMergesLegacyFirst(t *testing.T) {
	ctx := context.Background()
	svc, m := newReportService(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))

	filters := models.ReportFilters{Years: []int{2025, 2026}}
	frozen := []*models.ReportRow{
		{CollectorID: 1, Year: 2025, Month: time.December},
	}
	targets := []*models.CollectorTarget{
		{
			ID:           1,
			CollectorID:  7,
			Year:         2026,
			Month:        time.January,
			TargetAmount: decimal.NewFromInt(100),
			CreatedAt:    time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	m.reportRepo.On("CountFrozen", ctx, filters, []int{2025}).Return(1, nil)
	m.targetRepo.On("Count", ctx, filters, []int{2026}).Return(1, nil)
	m.reportRepo.On("GetFrozenPage", ctx, filters, []int{2025}, 20, 0).Return(frozen, nil)
	m.targetRepo.On("GetPage", ctx, filters, []int{2026}, 19, 0).Return(targets, nil)
	expectEmptyCollectionData(m)

	result, err := svc.GetPlanReport(ctx, filters, models.PageRequest{Page: 1, PageSize: 20})
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalRows)
	require.Len(t, result.Rows, 2)
	// legacy row leads, computed row follows
	assert.Equal(t, 2025, result.Rows[0].Year)
	assert.Equal(t, 2026, result.Rows[1].Year)
}

func TestGetPlanReport_OffsetPastLegacyRows(t *testing.T) {
	ctx := context.Background()
	svc, m := newReportService(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))

	filters := models.ReportFilters{Years: []int{2025, 2026}}
	targets := []*models.CollectorTarget{
		{
			ID:           9,
			CollectorID:  8,
			Year:         2026,
			Month:        time.February,
			TargetAmount: decimal.NewFromInt(100),
			CreatedAt:    time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	// 3 legacy rows, page 2 of size 5 starts at offset 5: skip all legacy
	// rows plus the first two targets
	m.reportRepo.On("CountFrozen", ctx, filters, []int{2025}).Return(3, nil)
	m.targetRepo.On("Count", ctx, filters, []int{2026}).Return(4, nil)
	m.targetRepo.On("GetPage", ctx, filters, []int{2026}, 5, 2).Return(targets, nil)
	expectEmptyCollectionData(m)

	result, err := svc.GetPlanReport(ctx, filters, models.PageRequest{Page: 2, PageSize: 5})
	require.NoError(t, err)

	assert.Equal(t, 7, result.TotalRows)
	assert.Equal(t, 2, result.TotalPages)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, int64(8), result.Rows[0].CollectorID)

	m.reportRepo.AssertNotCalled(t, "GetFrozenPage")
}

func TestGetPlanReport_NoYearFilterFollowsCutover(t *testing.T) {
	ctx := context.Background()

	// before the cutover: defaults to the legacy source
	svc, m := newReportService(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
	m.reportRepo.On("CountFrozen", ctx, models.ReportFilters{}, []int(nil)).Return(0, nil)

	result, err := svc.GetPlanReport(ctx, models.ReportFilters{}, models.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalRows)
	m.targetRepo.AssertNotCalled(t, "Count")

	// from the cutover year on: defaults to targets
	svc, m = newReportService(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC))
	m.targetRepo.On("Count", ctx, models.ReportFilters{}, []int(nil)).Return(0, nil)
	m.targetRepo.On("GetPage", ctx, models.ReportFilters{}, []int(nil), 10, 0).Return([]*models.CollectorTarget{}, nil)

	result, err = svc.GetPlanReport(ctx, models.ReportFilters{}, models.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalRows)
	m.reportRepo.AssertNotCalled(t, "CountFrozen")
}

func TestGetPlanReport_EmptyTargetPage(t *testing.T) {
	ctx := context.Background()
	svc, m := newReportService(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))

	filters := models.ReportFilters{Years: []int{2026}}
	m.targetRepo.On("Count", ctx, filters, []int{2026}).Return(0, nil)
	m.targetRepo.On("GetPage", ctx, filters, []int{2026}, 10, 0).Return([]*models.CollectorTarget{}, nil)

	result, err := svc.GetPlanReport(ctx, filters, models.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)

	assert.Empty(t, result.Rows)
	assert.Equal(t, 0, result.TotalRows)
	// no targets means no bulk fetches at all
	m.loanRepo.AssertNotCalled(t, "GetByIDs")
}
