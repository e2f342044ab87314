package service

import (
	"sort"
	"time"

	"collector/models"
)

// dedupGap is the spacing beyond which two payments on the same loan count
// as separate collection events. Several partial payments inside the gap are
// credited as one successful collection.
const dedupGap = 48 * time.Hour

// PeriodKey identifies one (collector, year, month) reporting group
type PeriodKey struct {
	CollectorID int64
	Year        int
	Month       time.Month
}

// CountDistinctPayments collapses a list of payment timestamps for one loan
// into the number of logically distinct collection events. The gap is
// measured from the last counted event, not the last seen one: payments at
// hour 0, 47 and 90 count as two events (47 is absorbed by 0, 90 is not).
func CountDistinctPayments(timestamps []time.Time) int {
	if len(timestamps) == 0 {
		return 0
	}

	sorted := make([]time.Time, len(timestamps))
	copy(sorted, timestamps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	count := 0
	var lastCounted time.Time

	for _, t := range sorted {
		if count == 0 || t.Sub(lastCounted) > dedupGap {
			count++
			lastCounted = t
		}
	}

	return count
}

// BuildDedupCounts groups payment transactions by (collector, year, month,
// loan), counts each loan's distinct collection events and sums the per-loan
// results into per-period totals.
func BuildDedupCounts(payments []*models.Transaction) map[PeriodKey]int {
	type loanKey struct {
		period PeriodKey
		loanID int64
	}

	byLoan := make(map[loanKey][]time.Time)
	for _, txn := range payments {
		if txn.Mode != models.AllocationModePayment {
			continue
		}
		key := loanKey{
			period: PeriodKey{
				CollectorID: txn.CollectorID,
				Year:        txn.PaymentDate.Year(),
				Month:       txn.PaymentDate.Month(),
			},
			loanID: txn.LoanID,
		}
		byLoan[key] = append(byLoan[key], txn.PaymentDate)
	}

	counts := make(map[PeriodKey]int)
	for key, timestamps := range byLoan {
		counts[key.period] += CountDistinctPayments(timestamps)
	}

	return counts
}
