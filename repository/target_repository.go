package repository

import (
	"context"
	"fmt"
	"time"

	"collector/database"
	"collector/models"
)

// TargetRepository implements the TargetRepository interface
type TargetRepository struct {
	q Queryable
}

// NewTargetRepository creates a new target repository
func NewTargetRepository(db *database.DB) *TargetRepository {
	return &TargetRepository{q: db.Pool}
}

// targetFilterClause builds the WHERE tail shared by Count and GetPage
func targetFilterClause(filters models.ReportFilters, years []int, args []any) (string, []any) {
	clause := ""
	if len(years) > 0 {
		args = append(args, years)
		clause += fmt.Sprintf(" AND year = ANY($%d)", len(args))
	}
	if filters.Month != nil {
		args = append(args, int(*filters.Month))
		clause += fmt.Sprintf(" AND month = $%d", len(args))
	}
	if filters.CollectorID != nil {
		args = append(args, *filters.CollectorID)
		clause += fmt.Sprintf(" AND collector_id = $%d", len(args))
	}
	return clause, args
}

// Count returns the number of targets matching the filters
func (r *TargetRepository) Count(ctx context.Context, filters models.ReportFilters, years []int) (int, error) {
	clause, args := targetFilterClause(filters, years, nil)
	query := `SELECT COUNT(*) FROM collector_targets WHERE TRUE` + clause

	var count int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count targets: %w", err)
	}

	return count, nil
}

// GetPage returns one ordered page of targets matching the filters
func (r *TargetRepository) GetPage(ctx context.Context, filters models.ReportFilters, years []int, limit, offset int) ([]*models.CollectorTarget, error) {
	clause, args := targetFilterClause(filters, years, nil)
	query := `
		SELECT id, collector_id, year, month, target_amount, loan_ids, created_at
		FROM collector_targets
		WHERE TRUE` + clause + fmt.Sprintf(`
		ORDER BY year, month, collector_id
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get targets page: %w", err)
	}
	defer rows.Close()

	var targets []*models.CollectorTarget
	for rows.Next() {
		var target models.CollectorTarget
		var month int
		err := rows.Scan(
			&target.ID,
			&target.CollectorID,
			&target.Year,
			&month,
			&target.TargetAmount,
			&target.LoanIDs,
			&target.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		target.Month = time.Month(month)
		targets = append(targets, &target)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate targets: %w", err)
	}

	return targets, nil
}
