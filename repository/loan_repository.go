package repository

import (
	"context"
	"fmt"
	"time"

	"collector/database"
	"collector/models"

	"github.com/jackc/pgx/v5"
)

// LoanRepository implements the LoanRepository interface
type LoanRepository struct {
	q Queryable
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *database.DB) *LoanRepository {
	return &LoanRepository{q: db.Pool}
}

// newLoanRepositoryWithTx creates a new loan repository with a transaction
func newLoanRepositoryWithTx(tx Queryable) *LoanRepository {
	return &LoanRepository{q: tx}
}

const loanColumns = `id, debtor_id, collector_id, status_id, principal, act_days, closed_at, created_at, deleted_at`

// GetByID retrieves a loan by its ID, nil when absent or soft-deleted
func (r *LoanRepository) GetByID(ctx context.Context, loanID int64) (*models.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE id = $1 AND deleted_at IS NULL
	`

	var loan models.Loan
	err := r.q.QueryRow(ctx, query, loanID).Scan(
		&loan.ID,
		&loan.DebtorID,
		&loan.CollectorID,
		&loan.StatusID,
		&loan.Principal,
		&loan.ActDays,
		&loan.ClosedAt,
		&loan.CreatedAt,
		&loan.DeletedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get loan %d: %w", loanID, err)
	}

	return &loan, nil
}

// GetByIDs bulk-fetches loans by id set, skipping soft-deleted rows
func (r *LoanRepository) GetByIDs(ctx context.Context, loanIDs []int64) ([]*models.Loan, error) {
	if len(loanIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE id = ANY($1) AND deleted_at IS NULL
	`

	rows, err := r.q.Query(ctx, query, loanIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get loans by ids: %w", err)
	}
	defer rows.Close()

	var loans []*models.Loan
	for rows.Next() {
		var loan models.Loan
		err := rows.Scan(
			&loan.ID,
			&loan.DebtorID,
			&loan.CollectorID,
			&loan.StatusID,
			&loan.Principal,
			&loan.ActDays,
			&loan.ClosedAt,
			&loan.CreatedAt,
			&loan.DeletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, &loan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate loans: %w", err)
	}

	return loans, nil
}

// UpdateStatus transitions a loan's status, optionally stamping closure
func (r *LoanRepository) UpdateStatus(ctx context.Context, loanID int64, statusID models.LoanStatusID, closedAt *time.Time) error {
	query := `
		UPDATE loans
		SET status_id = $2, closed_at = $3
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := r.q.Exec(ctx, query, loanID, statusID, closedAt)
	if err != nil {
		return fmt.Errorf("failed to update status for loan %d: %w", loanID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("loan %d not found for status update", loanID)
	}

	return nil
}

// CreateStatusHistory appends one status transition record
func (r *LoanRepository) CreateStatusHistory(ctx context.Context, history *models.LoanStatusHistory) error {
	query := `
		INSERT INTO loan_status_history (loan_id, old_status_id, new_status_id, note)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		history.LoanID,
		history.OldStatusID,
		history.NewStatusID,
		history.Note,
	).Scan(&history.ID, &history.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create status history for loan %d: %w", history.LoanID, err)
	}

	return nil
}

// DebtorRepository implements the DebtorRepository interface
type DebtorRepository struct {
	q Queryable
}

// NewDebtorRepository creates a new debtor repository
func NewDebtorRepository(db *database.DB) *DebtorRepository {
	return &DebtorRepository{q: db.Pool}
}

// newDebtorRepositoryWithTx creates a new debtor repository with a transaction
func newDebtorRepositoryWithTx(tx Queryable) *DebtorRepository {
	return &DebtorRepository{q: tx}
}

// GetByID retrieves a debtor by id, nil when absent
func (r *DebtorRepository) GetByID(ctx context.Context, debtorID int64) (*models.Debtor, error) {
	query := `
		SELECT id, full_name, status_id, created_at
		FROM debtors
		WHERE id = $1
	`

	var debtor models.Debtor
	err := r.q.QueryRow(ctx, query, debtorID).Scan(
		&debtor.ID,
		&debtor.FullName,
		&debtor.StatusID,
		&debtor.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debtor %d: %w", debtorID, err)
	}

	return &debtor, nil
}
