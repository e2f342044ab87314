package repository

import (
	"context"
	"fmt"

	"collector/database"
	"collector/models"

	"github.com/jackc/pgx/v5"
)

// BalanceRepository implements the BalanceRepository interface. Snapshots
// are append-only: a write supersedes the active row and inserts its
// replacement, never updates in place.
type BalanceRepository struct {
	q Queryable
}

// NewBalanceRepository creates a new balance repository
func NewBalanceRepository(db *database.DB) *BalanceRepository {
	return &BalanceRepository{q: db.Pool}
}

// newBalanceRepositoryWithTx creates a new balance repository with a transaction
func newBalanceRepositoryWithTx(tx Queryable) *BalanceRepository {
	return &BalanceRepository{q: tx}
}

const balanceColumns = `id, loan_id, principal, interest, penalty, other_fee, legal_charges, current_debt, agreement_min, created_at, superseded_at`

// GetActiveByLoanID returns the single non-superseded snapshot for a loan,
// nil when none exists. The row is locked for the duration of the enclosing
// transaction so concurrent allocations against one loan serialize.
func (r *BalanceRepository) GetActiveByLoanID(ctx context.Context, loanID int64) (*models.LoanBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM loan_balances
		WHERE loan_id = $1 AND superseded_at IS NULL
		FOR UPDATE
	`

	balance, err := r.scanOne(r.q.QueryRow(ctx, query, loanID))
	if err != nil {
		return nil, fmt.Errorf("failed to get active balance for loan %d: %w", loanID, err)
	}
	return balance, nil
}

// Supersede soft-deletes a snapshot, marking it replaced
func (r *BalanceRepository) Supersede(ctx context.Context, balanceID int64) error {
	query := `
		UPDATE loan_balances
		SET superseded_at = NOW()
		WHERE id = $1 AND superseded_at IS NULL
	`

	tag, err := r.q.Exec(ctx, query, balanceID)
	if err != nil {
		return fmt.Errorf("failed to supersede balance %d: %w", balanceID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("balance %d is not active, cannot supersede", balanceID)
	}

	return nil
}

// Insert creates a new active snapshot. The database re-checks the
// sum-of-buckets invariant and the one-active-snapshot-per-loan constraint.
func (r *BalanceRepository) Insert(ctx context.Context, balance *models.LoanBalance) error {
	query := `
		INSERT INTO loan_balances
		(loan_id, principal, interest, penalty, other_fee, legal_charges, current_debt, agreement_min)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		balance.LoanID,
		balance.Principal,
		balance.Interest,
		balance.Penalty,
		balance.OtherFee,
		balance.LegalCharges,
		balance.CurrentDebt,
		balance.AgreementMin,
	).Scan(&balance.ID, &balance.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert balance for loan %d: %w", balance.LoanID, err)
	}

	return nil
}

// GetHistoryByLoanID returns all snapshots for a loan, newest first
func (r *BalanceRepository) GetHistoryByLoanID(ctx context.Context, loanID int64) ([]*models.LoanBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM loan_balances
		WHERE loan_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.q.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance history for loan %d: %w", loanID, err)
	}
	defer rows.Close()

	var balances []*models.LoanBalance
	for rows.Next() {
		var balance models.LoanBalance
		err := rows.Scan(
			&balance.ID,
			&balance.LoanID,
			&balance.Principal,
			&balance.Interest,
			&balance.Penalty,
			&balance.OtherFee,
			&balance.LegalCharges,
			&balance.CurrentDebt,
			&balance.AgreementMin,
			&balance.CreatedAt,
			&balance.SupersededAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances = append(balances, &balance)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}

	return balances, nil
}

func (r *BalanceRepository) scanOne(row pgx.Row) (*models.LoanBalance, error) {
	var balance models.LoanBalance
	err := row.Scan(
		&balance.ID,
		&balance.LoanID,
		&balance.Principal,
		&balance.Interest,
		&balance.Penalty,
		&balance.OtherFee,
		&balance.LegalCharges,
		&balance.CurrentDebt,
		&balance.AgreementMin,
		&balance.CreatedAt,
		&balance.SupersededAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &balance, nil
}
