package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"collector/database"
	"collector/models"
)

// ReportRepository implements the ReportRepository interface
type ReportRepository struct {
	q Queryable
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *database.DB) *ReportRepository {
	return &ReportRepository{q: db.Pool}
}

// reportFilterClause builds the WHERE tail shared by CountFrozen and GetFrozenPage
func reportFilterClause(filters models.ReportFilters, years []int, args []any) (string, []any) {
	clause := " AND status = 'FROZEN'"
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

// CountFrozen returns the number of frozen rows matching the filters
func (r *ReportRepository) CountFrozen(ctx context.Context, filters models.ReportFilters, years []int) (int, error) {
	clause, args := reportFilterClause(filters, years, nil)
	query := `SELECT COUNT(*) FROM collector_reports WHERE TRUE` + clause

	var count int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count frozen reports: %w", err)
	}

	return count, nil
}

// GetFrozenPage returns one ordered page of frozen report rows. The stored
// JSON row is the source of truth; frozen rows are never recomputed.
func (r *ReportRepository) GetFrozenPage(ctx context.Context, filters models.ReportFilters, years []int, limit, offset int) ([]*models.ReportRow, error) {
	clause, args := reportFilterClause(filters, years, nil)
	query := `
		SELECT row
		FROM collector_reports
		WHERE TRUE` + clause + fmt.Sprintf(`
		ORDER BY year, month, collector_id
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get frozen reports page: %w", err)
	}
	defer rows.Close()

	var results []*models.ReportRow
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan frozen report: %w", err)
		}

		var row models.ReportRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("failed to decode frozen report row: %w", err)
		}
		results = append(results, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate frozen reports: %w", err)
	}

	return results, nil
}
