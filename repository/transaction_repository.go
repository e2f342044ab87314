package repository

import (
	"context"
	"fmt"
	"time"

	"collector/database"
	"collector/models"
)

// TransactionRepository implements the TransactionRepository interface
type TransactionRepository struct {
	q Queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

// newTransactionRepositoryWithTx creates a new transaction repository with a transaction
func newTransactionRepositoryWithTx(tx Queryable) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Create inserts one immutable transaction row
func (r *TransactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions
		(loan_id, collector_id, mode, reference, amount, currency, exchange_rate, payment_date,
		 channel, channel_account_id, external_txn_id, comment,
		 applied_principal, applied_interest, applied_penalty, applied_other_fee, applied_legal_charges)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		txn.LoanID,
		txn.CollectorID,
		txn.Mode,
		txn.Reference,
		txn.Amount,
		txn.Currency,
		txn.ExchangeRate,
		txn.PaymentDate,
		txn.Channel,
		txn.ChannelAccountID,
		txn.ExternalTxnID,
		txn.Comment,
		txn.AppliedPrincipal,
		txn.AppliedInterest,
		txn.AppliedPenalty,
		txn.AppliedOtherFee,
		txn.AppliedLegalCharges,
	).Scan(&txn.ID, &txn.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create transaction for loan %d: %w", txn.LoanID, err)
	}

	return nil
}

// ExistsByExternalID reports whether an external txn_id was already used
func (r *TransactionRepository) ExistsByExternalID(ctx context.Context, externalTxnID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM transactions WHERE external_txn_id = $1
		)
	`

	var exists bool
	if err := r.q.QueryRow(ctx, query, externalTxnID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check external txn id: %w", err)
	}

	return exists, nil
}

// GetPaymentsByCollectors bulk-fetches PAYMENT transactions for a set of
// collectors within a date range
func (r *TransactionRepository) GetPaymentsByCollectors(ctx context.Context, collectorIDs []int64, from, to time.Time) ([]*models.Transaction, error) {
	if len(collectorIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, loan_id, collector_id, mode, reference, amount, currency, exchange_rate,
		       payment_date, channel, channel_account_id, external_txn_id, comment,
		       applied_principal, applied_interest, applied_penalty, applied_other_fee,
		       applied_legal_charges, created_at
		FROM transactions
		WHERE collector_id = ANY($1)
		  AND mode = 'PAYMENT'
		  AND payment_date >= $2 AND payment_date <= $3
		ORDER BY payment_date
	`

	rows, err := r.q.Query(ctx, query, collectorIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments by collectors: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		var txn models.Transaction
		err := rows.Scan(
			&txn.ID,
			&txn.LoanID,
			&txn.CollectorID,
			&txn.Mode,
			&txn.Reference,
			&txn.Amount,
			&txn.Currency,
			&txn.ExchangeRate,
			&txn.PaymentDate,
			&txn.Channel,
			&txn.ChannelAccountID,
			&txn.ExternalTxnID,
			&txn.Comment,
			&txn.AppliedPrincipal,
			&txn.AppliedInterest,
			&txn.AppliedPenalty,
			&txn.AppliedOtherFee,
			&txn.AppliedLegalCharges,
			&txn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, &txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txns, nil
}
