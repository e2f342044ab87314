package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"collector/database"
	"collector/models"

	"github.com/stretchr/testify/require"
)

// Seed inserts rows that the repositories themselves never create (debtors,
// loans, targets, frozen reports, activity rows come from upstream systems in
// production) directly into the test database.

// InsertDebtor inserts a debtor and returns its id
func InsertDebtor(t *testing.T, db *database.DB, debtor *models.Debtor) int64 {
	var id int64
	err := db.Pool.QueryRow(context.Background(),
		`INSERT INTO debtors (full_name, status_id, created_at) VALUES ($1, $2, $3) RETURNING id`,
		debtor.FullName, debtor.StatusID, debtor.CreatedAt,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// InsertLoan inserts a loan and returns its id
func InsertLoan(t *testing.T, db *database.DB, loan *models.Loan) int64 {
	var id int64
	err := db.Pool.QueryRow(context.Background(),
		`INSERT INTO loans (debtor_id, collector_id, status_id, principal, act_days, closed_at, created_at, deleted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		loan.DebtorID, loan.CollectorID, int(loan.StatusID), loan.Principal,
		loan.ActDays, loan.ClosedAt, loan.CreatedAt, loan.DeletedAt,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// InsertTarget inserts a collector target and returns its id
func InsertTarget(t *testing.T, db *database.DB, target *models.CollectorTarget) int64 {
	var id int64
	err := db.Pool.QueryRow(context.Background(),
		`INSERT INTO collector_targets (collector_id, year, month, target_amount, loan_ids, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		target.CollectorID, target.Year, int(target.Month), target.TargetAmount,
		target.LoanIDs, target.CreatedAt,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// InsertFrozenReport inserts a FROZEN legacy report row and returns its id
func InsertFrozenReport(t *testing.T, db *database.DB, collectorID int64, year int, month time.Month, row models.ReportRow) int64 {
	raw, err := json.Marshal(row)
	require.NoError(t, err)

	var id int64
	err = db.Pool.QueryRow(context.Background(),
		`INSERT INTO collector_reports (collector_id, year, month, status, row)
		 VALUES ($1, $2, $3, 'FROZEN', $4) RETURNING id`,
		collectorID, year, int(month), raw,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// InsertSMS inserts an sms activity row
func InsertSMS(t *testing.T, db *database.DB, loanID, userID int64, createdAt time.Time) {
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO sms_messages (loan_id, user_id, text, created_at) VALUES ($1, $2, 'test', $3)`,
		loanID, userID, createdAt,
	)
	require.NoError(t, err)
}

// InsertMark inserts a call-outcome mark row
func InsertMark(t *testing.T, db *database.DB, loanID, userID int64, createdAt time.Time) {
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO marks (loan_id, user_id, mark_type, created_at) VALUES ($1, $2, 'no_answer', $3)`,
		loanID, userID, createdAt,
	)
	require.NoError(t, err)
}

// InsertLegalStage inserts a legal stage entry
func InsertLegalStage(t *testing.T, db *database.DB, loanID, userID int64, stageID int, createdAt time.Time) {
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO loan_legal_stages (loan_id, user_id, stage_id, created_at) VALUES ($1, $2, $3, $4)`,
		loanID, userID, stageID, createdAt,
	)
	require.NoError(t, err)
}

// InsertDebtorStatusChange inserts one debtor status transition
func InsertDebtorStatusChange(t *testing.T, db *database.DB, debtorID, userID, oldStatus, newStatus int64, createdAt time.Time) {
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO debtor_status_history (debtor_id, user_id, old_status_id, new_status_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		debtorID, userID, oldStatus, newStatus, createdAt,
	)
	require.NoError(t, err)
}
