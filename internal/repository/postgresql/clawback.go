package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/sparkhq/spark-backend-go/internal/domain/allocation"
	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
	"github.com/sparkhq/spark-backend-go/internal/pkg/database"
)

type clawbackRepository struct {
	db *database.DB
}

func NewClawbackRepository(db *database.DB) allocation.ClawbackRepository {
	return &clawbackRepository{db: db}
}

const clawbackColumns = `id, sale_id, user_id, amount, reason, is_processed, processed_at, created_at`

func (r *clawbackRepository) List(ctx context.Context, filter allocation.ClawbackFilter) ([]allocation.Clawback, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil {
		where += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.SaleID != nil {
		where += fmt.Sprintf(" AND sale_id = $%d", argIdx)
		args = append(args, *filter.SaleID)
		argIdx++
	}
	if filter.Processed != nil {
		where += fmt.Sprintf(" AND is_processed = $%d", argIdx)
		args = append(args, *filter.Processed)
		argIdx++
	}

	selects := make([]string, 0, len(industry.All()))
	for _, ind := range industry.All() {
		selects = append(selects, fmt.Sprintf(
			`SELECT '%s' AS industry, %s FROM %s_clawbacks %s`,
			ind, clawbackColumns, ind, where))
	}
	inner := strings.Join(selects, "\n\t\tUNION ALL\n\t\t")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM (\n\t\t%s\n\t) AS unified", inner)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count clawbacks: %w", err)
	}

	query := fmt.Sprintf("SELECT * FROM (\n\t\t%s\n\t) AS unified ORDER BY created_at DESC, id", inner)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clawbacks: %w", err)
	}
	defer rows.Close()

	var clawbacks []allocation.Clawback
	for rows.Next() {
		var c allocation.Clawback
		err := rows.Scan(
			&c.Industry,
			&c.ID, &c.SaleID, &c.UserID, &c.Amount, &c.Reason,
			&c.IsProcessed, &c.ProcessedAt, &c.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan clawback: %w", err)
		}
		clawbacks = append(clawbacks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate clawbacks: %w", err)
	}

	return clawbacks, total, nil
}
