package service

import (
	"sort"
	"time"

	"collector/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeCollectorRow computes the full KPI row for one collector-month
// target. It is a pure fold over the indexed maps restricted to the target's
// loan set and reporting window: identical inputs always produce identical
// rows.
func ComputeCollectorRow(
	target *models.CollectorTarget,
	maps *DataMaps,
	dedupCounts map[PeriodKey]int,
	filters models.ReportFilters,
	now time.Time,
) *models.ReportRow {
	start, end := ReportingWindow(target, filters, now)

	// An activity belongs to the target when it falls inside [start, end]
	// and its own calendar year/month match the target's. The second check
	// guards against loans reassigned across periods.
	inWindow := func(t time.Time) bool {
		if t.Before(start) || t.After(end) {
			return false
		}
		return t.Year() == target.Year && t.Month() == target.Month
	}

	row := &models.ReportRow{
		CollectorID:      target.CollectorID,
		Year:             target.Year,
		Month:            target.Month,
		TargetAmount:     target.TargetAmount,
		StatusCounts:     make(map[string]int),
		OpeningPrincipal: decimal.Zero,
		CollectedAmount:  decimal.Zero,
		CollectionRatePercent: decimal.Zero,
		PaymentSuccessRate:    decimal.Zero,
		TotalLegalCharges:     decimal.Zero,
		TotalOtherCharges:     decimal.Zero,
		CourtPrincipalSum:     decimal.Zero,
		ExecutionPrincipalSum: decimal.Zero,
	}

	// Related loans: the target's loan set, minus loans missing from the
	// fetch or soft-deleted
	relatedLoans := make([]*models.Loan, 0, len(target.LoanIDs))
	for _, loanID := range target.LoanIDs {
		loan, ok := maps.LoansByID[loanID]
		if !ok || loan.DeletedAt != nil {
			continue
		}
		relatedLoans = append(relatedLoans, loan)
	}
	row.RelatedLoanCount = len(relatedLoans)

	for _, loan := range relatedLoans {
		row.StatusCounts[models.StatusName(loan.StatusID)]++

		if loan.StatusID != models.LoanStatusClosed {
			row.OpeningPrincipal = row.OpeningPrincipal.Add(loan.Principal)
		}
		if loan.ActDays > 40 {
			row.InactiveOver40DaysCount++
		}
	}

	// Collected amount: in-window payments by this collector on related loans
	for _, loan := range relatedLoans {
		for _, txn := range maps.TransactionsByLoan[loan.ID] {
			if txn.Mode != models.AllocationModePayment {
				continue
			}
			if txn.CollectorID != target.CollectorID || !inWindow(txn.PaymentDate) {
				continue
			}
			row.CollectedAmount = row.CollectedAmount.Add(txn.Amount)
		}
	}
	if target.TargetAmount.IsPositive() {
		row.CollectionRatePercent = row.CollectedAmount.Div(target.TargetAmount).Mul(hundred)
	}

	// Payment success: deduped collection events over related loan count
	row.PaidLoanCount = dedupCounts[PeriodKey{
		CollectorID: target.CollectorID,
		Year:        target.Year,
		Month:       target.Month,
	}]
	if len(relatedLoans) > 0 {
		row.PaymentSuccessRate = decimal.NewFromInt(int64(row.PaidLoanCount)).
			Div(decimal.NewFromInt(int64(len(relatedLoans)))).
			Mul(hundred)
	}

	// Activity counts: actor must be this collector, window rules as above
	for _, loan := range relatedLoans {
		for _, sms := range maps.SMSByLoan[loan.ID] {
			if sms.UserID == target.CollectorID && inWindow(sms.CreatedAt) {
				row.SMSCount++
			}
		}
		for _, mark := range maps.MarksByLoan[loan.ID] {
			if mark.UserID == target.CollectorID && inWindow(mark.CreatedAt) {
				row.MarkCount++
			}
		}
		for _, comment := range maps.CommentsByLoan[loan.ID] {
			if comment.UserID == target.CollectorID && inWindow(comment.CreatedAt) {
				row.CommentCount++
			}
		}
		for _, req := range maps.CommitteeByLoan[loan.ID] {
			if req.UserID == target.CollectorID && inWindow(req.CreatedAt) {
				row.CommitteeRequestCount++
			}
		}
	}

	// Charge sums: fixed charge-type classification, unclassified ids are
	// excluded from both sums
	for _, loan := range relatedLoans {
		for _, charge := range maps.ChargesByLoan[loan.ID] {
			if !inWindow(charge.CreatedAt) {
				continue
			}
			switch {
			case charge.ChargeTypeID.IsLegal():
				row.TotalLegalCharges = row.TotalLegalCharges.Add(charge.Amount)
			case charge.ChargeTypeID.IsOther():
				row.TotalOtherCharges = row.TotalOtherCharges.Add(charge.Amount)
			}
		}
	}

	// Court and execution stages: row counts plus principal summed once per
	// loan no matter how many stage rows it has
	courtLoans := make(map[int64]bool)
	executionLoans := make(map[int64]bool)
	for _, loan := range relatedLoans {
		for _, stage := range maps.LegalStagesByLoan[loan.ID] {
			if !inWindow(stage.CreatedAt) {
				continue
			}
			switch stage.StageID {
			case models.LegalStageCourt:
				row.CourtCaseCount++
				courtLoans[loan.ID] = true
			case models.LegalStageExecution:
				row.ExecutionCaseCount++
				executionLoans[loan.ID] = true
			}
		}
	}
	for loanID := range courtLoans {
		row.CourtPrincipalSum = row.CourtPrincipalSum.Add(maps.LoansByID[loanID].Principal)
	}
	for loanID := range executionLoans {
		row.ExecutionPrincipalSum = row.ExecutionPrincipalSum.Add(maps.LoansByID[loanID].Principal)
	}

	row.DebtorStatusCount = countDebtorStatusPoints(relatedLoans, maps, inWindow)

	row.TotalActivities = row.SMSCount +
		row.MarkCount +
		row.CommentCount +
		row.CommitteeRequestCount +
		row.DebtorStatusCount

	return row
}

// countDebtorStatusPoints scores debtor status activity: one point for each
// distinct debtor with any in-window status-history record, plus one point
// per actual status-value change between adjacent in-window records.
func countDebtorStatusPoints(relatedLoans []*models.Loan, maps *DataMaps, inWindow func(time.Time) bool) int {
	debtorIDs := make(map[int64]bool)
	for _, loan := range relatedLoans {
		debtorIDs[loan.DebtorID] = true
	}

	total := 0
	for debtorID := range debtorIDs {
		var records []*models.DebtorStatusHistory
		for _, rec := range maps.StatusHistoryByDebtor[debtorID] {
			if inWindow(rec.CreatedAt) {
				records = append(records, rec)
			}
		}
		if len(records) == 0 {
			continue
		}

		sort.Slice(records, func(i, j int) bool {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		})

		points := 1
		for i := 1; i < len(records); i++ {
			if records[i].NewStatusID != records[i-1].NewStatusID {
				points++
			}
		}
		total += points
	}

	return total
}
