package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CollectorTarget is one (collector, year, month) plan row: the target
// collection amount and the loan set assigned for that period. CreatedAt
// defines the start of the counting window for the target.
type CollectorTarget struct {
	ID           int64           `db:"id"`
	CollectorID  int64           `db:"collector_id"`
	Year         int             `db:"year"`
	Month        time.Month      `db:"month"`
	TargetAmount decimal.Decimal `db:"target_amount"`
	LoanIDs      []int64         `db:"loan_ids"`
	CreatedAt    time.Time       `db:"created_at"`
}

// ReportStatus marks the lifecycle of a precomputed legacy report row
type ReportStatus string

const (
	ReportStatusDraft  ReportStatus = "DRAFT"
	ReportStatusFrozen ReportStatus = "FROZEN"
)

// CollectorReport is a precomputed per-collector-month KPI row from the
// pre-migration data source. Once frozen it is never overwritten.
type CollectorReport struct {
	ID          int64        `db:"id"`
	CollectorID int64        `db:"collector_id"`
	Year        int          `db:"year"`
	Month       time.Month   `db:"month"`
	Status      ReportStatus `db:"status"`
	Row         ReportRow    `db:"row"` // stored as JSON
	CreatedAt   time.Time    `db:"created_at"`
}

// ReportRow is the full KPI output for one collector-month target
type ReportRow struct {
	CollectorID int64      `json:"collectorId"`
	Year        int        `json:"year"`
	Month       time.Month `json:"month"`

	OpeningPrincipal        decimal.Decimal `json:"openingPrincipal"`
	RelatedLoanCount        int             `json:"relatedLoanCount"`
	InactiveOver40DaysCount int             `json:"inactiveOver40DaysCount"`
	StatusCounts            map[string]int  `json:"statusCounts"`

	TargetAmount          decimal.Decimal `json:"targetAmount"`
	CollectedAmount       decimal.Decimal `json:"collectedAmount"`
	CollectionRatePercent decimal.Decimal `json:"collectionRatePercent"`

	PaidLoanCount      int             `json:"paidLoanCount"`
	PaymentSuccessRate decimal.Decimal `json:"paymentSuccessRate"`

	SMSCount              int `json:"smsCount"`
	MarkCount             int `json:"markCount"`
	CommentCount          int `json:"commentCount"`
	CommitteeRequestCount int `json:"committeeRequestCount"`

	TotalLegalCharges decimal.Decimal `json:"totalLegalCharges"`
	TotalOtherCharges decimal.Decimal `json:"totalOtherCharges"`

	CourtCaseCount        int             `json:"courtCaseCount"`
	ExecutionCaseCount    int             `json:"executionCaseCount"`
	CourtPrincipalSum     decimal.Decimal `json:"courtPrincipalSum"`
	ExecutionPrincipalSum decimal.Decimal `json:"executionPrincipalSum"`

	DebtorStatusCount int `json:"debtorStatusCount"`
	TotalActivities   int `json:"totalActivities"`
}

// ReportFilters narrows a plan-report request
type ReportFilters struct {
	Years       []int
	Month       *time.Month
	Date        *time.Time
	CollectorID *int64
}

// PinsSingleMonth reports whether the filters pin exactly one year and one
// month, which fixes the window end at the last day of that month.
func (f ReportFilters) PinsSingleMonth() bool {
	return len(f.Years) == 1 && f.Month != nil
}

// PageRequest is a pagination request for report queries
type PageRequest struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the requested page
func (p PageRequest) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// PageResult is one page of report rows plus pagination metadata
type PageResult struct {
	Rows       []*ReportRow
	Page       int
	PageSize   int
	TotalRows  int
	TotalPages int
}
