package repository

import (
	"context"
	"fmt"
	"time"

	"collector/database"
	"collector/models"
)

// ChargeRepository implements the ChargeRepository interface
type ChargeRepository struct {
	q Queryable
}

// NewChargeRepository creates a new charge repository
func NewChargeRepository(db *database.DB) *ChargeRepository {
	return &ChargeRepository{q: db.Pool}
}

// newChargeRepositoryWithTx creates a new charge repository with a transaction
func newChargeRepositoryWithTx(tx Queryable) *ChargeRepository {
	return &ChargeRepository{q: tx}
}

// Create inserts one charge row
func (r *ChargeRepository) Create(ctx context.Context, charge *models.Charge) error {
	query := `
		INSERT INTO charges (loan_id, user_id, charge_type_id, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		charge.LoanID,
		charge.UserID,
		charge.ChargeTypeID,
		charge.Amount,
	).Scan(&charge.ID, &charge.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create charge for loan %d: %w", charge.LoanID, err)
	}

	return nil
}

// GetByLoanIDs bulk-fetches charges for a loan set within a date range
func (r *ChargeRepository) GetByLoanIDs(ctx context.Context, loanIDs []int64, from, to time.Time) ([]*models.Charge, error) {
	if len(loanIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, loan_id, user_id, charge_type_id, amount, created_at
		FROM charges
		WHERE loan_id = ANY($1) AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at
	`

	rows, err := r.q.Query(ctx, query, loanIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get charges by loan ids: %w", err)
	}
	defer rows.Close()

	var charges []*models.Charge
	for rows.Next() {
		var charge models.Charge
		err := rows.Scan(
			&charge.ID,
			&charge.LoanID,
			&charge.UserID,
			&charge.ChargeTypeID,
			&charge.Amount,
			&charge.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan charge: %w", err)
		}
		charges = append(charges, &charge)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate charges: %w", err)
	}

	return charges, nil
}
