package repository

import (
	"context"
	"testing"
	"time"

	"collector/models"
	"collector/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetRepository_CountAndGetPage(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTargetRepository(testDB.DB)
	ctx := context.Background()

	testutil.InsertTarget(t, testDB.DB, testutil.CreateTestTarget(7, 2026, time.January, 1000, []int64{1, 2}))
	testutil.InsertTarget(t, testDB.DB, testutil.CreateTestTarget(7, 2026, time.February, 1200, nil))
	testutil.InsertTarget(t, testDB.DB, testutil.CreateTestTarget(8, 2026, time.January, 800, nil))
	testutil.InsertTarget(t, testDB.DB, testutil.CreateTestTarget(7, 2027, time.January, 1500, nil))

	count, err := repo.Count(ctx, models.ReportFilters{}, []int{2026})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	collectorID := int64(7)
	count, err = repo.Count(ctx, models.ReportFilters{CollectorID: &collectorID}, []int{2026})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	month := time.January
	count, err = repo.Count(ctx, models.ReportFilters{Month: &month}, []int{2026, 2027})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// ordered by year, month, collector
	targets, err := repo.GetPage(ctx, models.ReportFilters{}, []int{2026, 2027}, 10, 0)
	require.NoError(t, err)
	require.Len(t, targets, 4)
	assert.Equal(t, int64(7), targets[0].CollectorID)
	assert.Equal(t, time.January, targets[0].Month)
	assert.Equal(t, int64(8), targets[1].CollectorID)
	assert.Equal(t, time.February, targets[2].Month)
	assert.Equal(t, 2027, targets[3].Year)

	assert.Equal(t, []int64{1, 2}, targets[0].LoanIDs)
	assert.True(t, targets[0].TargetAmount.Equal(decimal.NewFromInt(1000)))
}

func TestTargetRepository_Pagination(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTargetRepository(testDB.DB)
	ctx := context.Background()

	for m := time.January; m <= time.May; m++ {
		testutil.InsertTarget(t, testDB.DB, testutil.CreateTestTarget(7, 2026, m, 100, nil))
	}

	page1, err := repo.GetPage(ctx, models.ReportFilters{}, []int{2026}, 2, 0)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, time.January, page1[0].Month)

	page2, err := repo.GetPage(ctx, models.ReportFilters{}, []int{2026}, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, time.March, page2[0].Month)

	page3, err := repo.GetPage(ctx, models.ReportFilters{}, []int{2026}, 2, 4)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, time.May, page3[0].Month)
}

func TestReportRepository_FrozenRowsRoundTrip(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewReportRepository(testDB.DB)
	ctx := context.Background()

	row := models.ReportRow{
		CollectorID:           3,
		Year:                  2024,
		Month:                 time.November,
		RelatedLoanCount:      12,
		OpeningPrincipal:      decimal.NewFromInt(34000),
		TargetAmount:          decimal.NewFromInt(5000),
		CollectedAmount:       decimal.NewFromInt(4200),
		CollectionRatePercent: decimal.NewFromInt(84),
		PaidLoanCount:         6,
		StatusCounts:          map[string]int{"communication": 8, "closed": 4},
		TotalActivities:       40,
	}
	testutil.InsertFrozenReport(t, testDB.DB, 3, 2024, time.November, row)

	count, err := repo.CountFrozen(ctx, models.ReportFilters{}, []int{2024})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	rows, err := repo.GetFrozenPage(ctx, models.ReportFilters{}, []int{2024}, 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	got := rows[0]
	assert.Equal(t, int64(3), got.CollectorID)
	assert.Equal(t, 12, got.RelatedLoanCount)
	assert.True(t, got.CollectedAmount.Equal(decimal.NewFromInt(4200)))
	assert.Equal(t, map[string]int{"communication": 8, "closed": 4}, got.StatusCounts)
}

func TestReportRepository_DraftRowsInvisible(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewReportRepository(testDB.DB)
	ctx := context.Background()

	// a DRAFT row must never be served
	_, err := testDB.DB.Pool.Exec(ctx,
		`INSERT INTO collector_reports (collector_id, year, month, status, row)
		 VALUES (5, 2024, 6, 'DRAFT', '{}')`)
	require.NoError(t, err)

	count, err := repo.CountFrozen(ctx, models.ReportFilters{}, []int{2024})
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	rows, err := repo.GetFrozenPage(ctx, models.ReportFilters{}, []int{2024}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReportRepository_FiltersByCollectorAndMonth(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewReportRepository(testDB.DB)
	ctx := context.Background()

	testutil.InsertFrozenReport(t, testDB.DB, 1, 2024, time.March, models.ReportRow{CollectorID: 1, Year: 2024, Month: time.March})
	testutil.InsertFrozenReport(t, testDB.DB, 2, 2024, time.March, models.ReportRow{CollectorID: 2, Year: 2024, Month: time.March})
	testutil.InsertFrozenReport(t, testDB.DB, 1, 2024, time.April, models.ReportRow{CollectorID: 1, Year: 2024, Month: time.April})

	collectorID := int64(1)
	count, err := repo.CountFrozen(ctx, models.ReportFilters{CollectorID: &collectorID}, []int{2024})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	month := time.March
	rows, err := repo.GetFrozenPage(ctx, models.ReportFilters{Month: &month}, []int{2024}, 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].CollectorID)
	assert.Equal(t, int64(2), rows[1].CollectorID)
}
