package service

import (
	"context"
	"fmt"
	"time"

	"collector/models"

	log "github.com/sirupsen/logrus"
)

// reportService implements the ReportService interface
type reportService struct {
	targetRepo   TargetRepository
	reportRepo   ReportRepository
	loanRepo     LoanRepository
	txnRepo      TransactionRepository
	chargeRepo   ChargeRepository
	activityRepo ActivityRepository
	now          func() time.Time
}

// NewReportService creates a new report service
func NewReportService(
	targetRepo TargetRepository,
	reportRepo ReportRepository,
	loanRepo LoanRepository,
	txnRepo TransactionRepository,
	chargeRepo ChargeRepository,
	activityRepo ActivityRepository,
) ReportService {
	return &reportService{
		targetRepo:   targetRepo,
		reportRepo:   reportRepo,
		loanRepo:     loanRepo,
		txnRepo:      txnRepo,
		chargeRepo:   chargeRepo,
		activityRepo: activityRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// GetPlanReport computes one page of collector-month KPI rows. Legacy years
// are served from the frozen precomputed rows, current years are computed
// from targets; a request spanning the cutover merges both, legacy first.
func (s *reportService) GetPlanReport(ctx context.Context, filters models.ReportFilters, page models.PageRequest) (*models.PageResult, error) {
	if page.PageSize <= 0 {
		return nil, fmt.Errorf("%w: page size must be positive", ErrValidation)
	}
	if page.Page <= 0 {
		page.Page = 1
	}

	now := s.now()
	route := RoutePlanYears(filters.Years, now.Year())

	var frozenYears, targetYears []int
	useFrozen := len(route.OldYears) > 0
	useTargets := len(route.NewYears) > 0
	if len(filters.Years) == 0 {
		useFrozen = !route.DefaultIsNew
		useTargets = route.DefaultIsNew
	}
	frozenYears = route.OldYears
	targetYears = route.NewYears

	var frozenTotal int
	var err error
	if useFrozen {
		frozenTotal, err = s.reportRepo.CountFrozen(ctx, filters, frozenYears)
		if err != nil {
			return nil, fmt.Errorf("failed to count frozen reports: %w", err)
		}
	}

	var targetTotal int
	if useTargets {
		targetTotal, err = s.targetRepo.Count(ctx, filters, targetYears)
		if err != nil {
			return nil, fmt.Errorf("failed to count targets: %w", err)
		}
	}

	totalRows := frozenTotal + targetTotal
	offset := page.Offset()
	limit := page.PageSize

	rows := make([]*models.ReportRow, 0, limit)

	// Legacy rows fill the page first; target-computed rows take whatever
	// room is left. Offsets shift across the boundary.
	if useFrozen && offset < frozenTotal {
		frozen, err := s.reportRepo.GetFrozenPage(ctx, filters, frozenYears, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to get frozen reports: %w", err)
		}
		rows = append(rows, frozen...)
	}

	if useTargets && len(rows) < limit {
		targetOffset := 0
		if offset > frozenTotal {
			targetOffset = offset - frozenTotal
		}
		targetLimit := limit - len(rows)

		computed, err := s.computeTargetRows(ctx, filters, targetYears, targetLimit, targetOffset, now)
		if err != nil {
			return nil, err
		}
		rows = append(rows, computed...)
	}

	totalPages := (totalRows + page.PageSize - 1) / page.PageSize

	return &models.PageResult{
		Rows:       rows,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalRows:  totalRows,
		TotalPages: totalPages,
	}, nil
}

// computeTargetRows runs the full pipeline for one page of targets: bulk
// fetch, map build, dedup count, then one metric computation per target. The
// whole page costs a fixed number of queries.
func (s *reportService) computeTargetRows(
	ctx context.Context,
	filters models.ReportFilters,
	years []int,
	limit, offset int,
	now time.Time,
) ([]*models.ReportRow, error) {
	targets, err := s.targetRepo.GetPage(ctx, filters, years, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get targets: %w", err)
	}
	if len(targets) == 0 {
		return nil, nil
	}

	data, dedupCounts, err := s.fetchCollectionData(ctx, targets, filters, now)
	if err != nil {
		return nil, err
	}

	maps := BuildDataMaps(data)

	rows := make([]*models.ReportRow, 0, len(targets))
	for _, target := range targets {
		rows = append(rows, ComputeCollectorRow(target, maps, dedupCounts, filters, now))
	}

	log.WithFields(log.Fields{
		"targets": len(targets),
		"loans":   len(data.Loans),
	}).Debug("Computed collector report page")

	return rows, nil
}

// fetchCollectionData bulk-fetches every record source the page needs, once
// for the whole page rather than per target row
func (s *reportService) fetchCollectionData(
	ctx context.Context,
	targets []*models.CollectorTarget,
	filters models.ReportFilters,
	now time.Time,
) (*CollectionData, map[PeriodKey]int, error) {
	loanIDSet := make(map[int64]bool)
	collectorIDSet := make(map[int64]bool)
	var from, to time.Time

	for i, target := range targets {
		for _, loanID := range target.LoanIDs {
			loanIDSet[loanID] = true
		}
		collectorIDSet[target.CollectorID] = true

		start, end := ReportingWindow(target, filters, now)
		if i == 0 || start.Before(from) {
			from = start
		}
		if i == 0 || end.After(to) {
			to = end
		}
	}

	loanIDs := make([]int64, 0, len(loanIDSet))
	for id := range loanIDSet {
		loanIDs = append(loanIDs, id)
	}
	collectorIDs := make([]int64, 0, len(collectorIDSet))
	for id := range collectorIDSet {
		collectorIDs = append(collectorIDs, id)
	}

	loans, err := s.loanRepo.GetByIDs(ctx, loanIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch loans: %w", err)
	}

	debtorIDSet := make(map[int64]bool)
	for _, loan := range loans {
		debtorIDSet[loan.DebtorID] = true
	}
	debtorIDs := make([]int64, 0, len(debtorIDSet))
	for id := range debtorIDSet {
		debtorIDs = append(debtorIDs, id)
	}

	payments, err := s.txnRepo.GetPaymentsByCollectors(ctx, collectorIDs, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch payments: %w", err)
	}
	sms, err := s.activityRepo.GetSMSByLoanIDs(ctx, loanIDs, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch sms: %w", err)
	}
	marks, err := s.activityRepo.GetMarksByLoanIDs(ctx, loanIDs, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch marks: %w", err)
	}
	comments, err := s.activityRepo.GetCommentsByLoanIDs(ctx, loanIDs, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch comments: %w", err)
	}
	committeeRequests, err := s.activityRepo.GetCommitteeRequestsByLoanIDs(ctx, loanIDs, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch committee requests: %w", err)
	}
	charges, err := s.chargeRepo.GetByLoanIDs(ctx, loanIDs, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch charges: %w", err)
	}
	legalStages, err := s.activityRepo.GetLegalStagesByLoanIDs(ctx, loanIDs, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch legal stages: %w", err)
	}
	statusHistory, err := s.activityRepo.GetDebtorStatusHistory(ctx, debtorIDs, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch debtor status history: %w", err)
	}

	data := &CollectionData{
		Loans:               loans,
		Transactions:        payments,
		SMS:                 sms,
		Marks:               marks,
		Comments:            comments,
		CommitteeRequests:   committeeRequests,
		Charges:             charges,
		LegalStages:         legalStages,
		DebtorStatusHistory: statusHistory,
	}

	return data, BuildDedupCounts(payments), nil
}
