package repository

import (
	"context"
	"fmt"

	"collector/database"
	"collector/models"
)

// BalanceHistoryRepository implements the BalanceHistoryRepository interface
type BalanceHistoryRepository struct {
	q Queryable
}

// NewBalanceHistoryRepository creates a new balance history repository
func NewBalanceHistoryRepository(db *database.DB) *BalanceHistoryRepository {
	return &BalanceHistoryRepository{q: db.Pool}
}

// newBalanceHistoryRepositoryWithTx creates a new balance history repository with a transaction
func newBalanceHistoryRepositoryWithTx(tx Queryable) *BalanceHistoryRepository {
	return &BalanceHistoryRepository{q: tx}
}

// Record appends one balance history entry
func (r *BalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	query := `
		INSERT INTO balance_history
		(loan_id, transaction_id, principal, interest, penalty, other_fee, legal_charges, current_debt, mode)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		history.LoanID,
		history.TransactionID,
		history.Principal,
		history.Interest,
		history.Penalty,
		history.OtherFee,
		history.LegalCharges,
		history.CurrentDebt,
		history.Mode,
	).Scan(&history.ID, &history.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record balance history for loan %d: %w", history.LoanID, err)
	}

	return nil
}

// GetByLoan returns balance history for a loan, newest first
func (r *BalanceHistoryRepository) GetByLoan(ctx context.Context, loanID int64, limit int) ([]*models.BalanceHistory, error) {
	query := `
		SELECT id, loan_id, transaction_id, principal, interest, penalty, other_fee,
		       legal_charges, current_debt, mode, created_at
		FROM balance_history
		WHERE loan_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, loanID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance history for loan %d: %w", loanID, err)
	}
	defer rows.Close()

	var histories []*models.BalanceHistory
	for rows.Next() {
		var history models.BalanceHistory
		err := rows.Scan(
			&history.ID,
			&history.LoanID,
			&history.TransactionID,
			&history.Principal,
			&history.Interest,
			&history.Penalty,
			&history.OtherFee,
			&history.LegalCharges,
			&history.CurrentDebt,
			&history.Mode,
			&history.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance history: %w", err)
		}
		histories = append(histories, &history)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balance history: %w", err)
	}

	return histories, nil
}
