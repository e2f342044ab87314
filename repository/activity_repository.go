package repository

import (
	"context"
	"fmt"
	"time"

	"collector/database"
	"collector/models"
)

// ActivityRepository implements the ActivityRepository interface. Every getter
// is one bulk query over an id set and a date range; reporting never issues
// per-loan lookups.
type ActivityRepository struct {
	q Queryable
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *database.DB) *ActivityRepository {
	return &ActivityRepository{q: db.Pool}
}

// GetSMSByLoanIDs bulk-fetches SMS messages for a loan set within a date range
func (r *ActivityRepository) GetSMSByLoanIDs(ctx context.Context, loanIDs []int64, from, to time.Time) ([]*models.SMS, error) {
	if len(loanIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, loan_id, user_id, text, created_at
		FROM sms_messages
		WHERE loan_id = ANY($1) AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at`

	rows, err := r.q.Query(ctx, query, loanIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get sms messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.SMS
	for rows.Next() {
		var sms models.SMS
		if err := rows.Scan(&sms.ID, &sms.LoanID, &sms.UserID, &sms.Text, &sms.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sms message: %w", err)
		}
		messages = append(messages, &sms)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sms messages: %w", err)
	}

	return messages, nil
}

// GetMarksByLoanIDs bulk-fetches call-outcome marks for a loan set within a date range
func (r *ActivityRepository) GetMarksByLoanIDs(ctx context.Context, loanIDs []int64, from, to time.Time) ([]*models.Mark, error) {
	if len(loanIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, loan_id, user_id, mark_type, created_at
		FROM marks
		WHERE loan_id = ANY($1) AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at`

	rows, err := r.q.Query(ctx, query, loanIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get marks: %w", err)
	}
	defer rows.Close()

	var marks []*models.Mark
	for rows.Next() {
		var mark models.Mark
		if err := rows.Scan(&mark.ID, &mark.LoanID, &mark.UserID, &mark.MarkType, &mark.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mark: %w", err)
		}
		marks = append(marks, &mark)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate marks: %w", err)
	}

	return marks, nil
}

// GetCommentsByLoanIDs bulk-fetches comments for a loan set within a date range
func (r *ActivityRepository) GetCommentsByLoanIDs(ctx context.Context, loanIDs []int64, from, to time.Time) ([]*models.Comment, error) {
	if len(loanIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, loan_id, user_id, text, created_at
		FROM comments
		WHERE loan_id = ANY($1) AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at`

	rows, err := r.q.Query(ctx, query, loanIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(&comment.ID, &comment.LoanID, &comment.UserID, &comment.Text, &comment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, nil
}

// GetCommitteeRequestsByLoanIDs bulk-fetches committee requests for a loan set
// within a date range
func (r *ActivityRepository) GetCommitteeRequestsByLoanIDs(ctx context.Context, loanIDs []int64, from, to time.Time) ([]*models.CommitteeRequest, error) {
	if len(loanIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, loan_id, user_id, requested_amount, status, created_at
		FROM committee_requests
		WHERE loan_id = ANY($1) AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at`

	rows, err := r.q.Query(ctx, query, loanIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get committee requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.CommitteeRequest
	for rows.Next() {
		var req models.CommitteeRequest
		if err := rows.Scan(&req.ID, &req.LoanID, &req.UserID, &req.Requested, &req.Status, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan committee request: %w", err)
		}
		requests = append(requests, &req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate committee requests: %w", err)
	}

	return requests, nil
}

// GetLegalStagesByLoanIDs bulk-fetches legal stage entries for a loan set
// within a date range
func (r *ActivityRepository) GetLegalStagesByLoanIDs(ctx context.Context, loanIDs []int64, from, to time.Time) ([]*models.LoanLegalStage, error) {
	if len(loanIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, loan_id, user_id, stage_id, created_at
		FROM loan_legal_stages
		WHERE loan_id = ANY($1) AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at`

	rows, err := r.q.Query(ctx, query, loanIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get legal stages: %w", err)
	}
	defer rows.Close()

	var stages []*models.LoanLegalStage
	for rows.Next() {
		var stage models.LoanLegalStage
		if err := rows.Scan(&stage.ID, &stage.LoanID, &stage.UserID, &stage.StageID, &stage.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan legal stage: %w", err)
		}
		stages = append(stages, &stage)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate legal stages: %w", err)
	}

	return stages, nil
}

// GetDebtorStatusHistory bulk-fetches debtor status transitions for a debtor
// set within a date range
func (r *ActivityRepository) GetDebtorStatusHistory(ctx context.Context, debtorIDs []int64, from, to time.Time) ([]*models.DebtorStatusHistory, error) {
	if len(debtorIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, debtor_id, user_id, old_status_id, new_status_id, created_at
		FROM debtor_status_history
		WHERE debtor_id = ANY($1) AND created_at >= $2 AND created_at <= $3
		ORDER BY debtor_id, created_at`

	rows, err := r.q.Query(ctx, query, debtorIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get debtor status history: %w", err)
	}
	defer rows.Close()

	var history []*models.DebtorStatusHistory
	for rows.Next() {
		var entry models.DebtorStatusHistory
		if err := rows.Scan(&entry.ID, &entry.DebtorID, &entry.UserID, &entry.OldStatusID, &entry.NewStatusID, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan debtor status history: %w", err)
		}
		history = append(history, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debtor status history: %w", err)
	}

	return history, nil
}
