package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/sparkhq/spark-backend-go/internal/domain/batch"
	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
	"github.com/sparkhq/spark-backend-go/internal/pkg/database"
)

type batchRepository struct {
	db *database.DB
}

func NewBatchRepository(db *database.DB) batch.BatchRepository {
	return &batchRepository{db: db}
}

const batchColumns = `id, name, status, period_start, period_end, total_amount, record_count,
		   notes, created_at, created_by, updated_at,
		   submitted_at, submitted_by, approved_at, approved_by,
		   exported_at, exported_by, paid_at, paid_by,
		   cancelled_at, cancelled_by, export_path`

func scanBatch(row pgx.Row) (batch.PayrollBatch, error) {
	var b batch.PayrollBatch
	err := row.Scan(
		&b.ID, &b.Name, &b.Status, &b.PeriodStart, &b.PeriodEnd, &b.TotalAmount, &b.RecordCount,
		&b.Notes, &b.CreatedAt, &b.CreatedBy, &b.UpdatedAt,
		&b.SubmittedAt, &b.SubmittedBy, &b.ApprovedAt, &b.ApprovedBy,
		&b.ExportedAt, &b.ExportedBy, &b.PaidAt, &b.PaidBy,
		&b.CancelledAt, &b.CancelledBy, &b.ExportPath,
	)
	return b, err
}

func (r *batchRepository) Create(ctx context.Context, b batch.PayrollBatch) (batch.PayrollBatch, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO payroll_batches (name, status, period_start, period_end, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s
	`, batchColumns)

	created, err := scanBatch(q.QueryRow(ctx, query,
		b.Name, b.Status, b.PeriodStart, b.PeriodEnd, b.Notes, b.CreatedBy,
	))
	if err != nil {
		return batch.PayrollBatch{}, fmt.Errorf("failed to create payroll batch: %w", err)
	}

	return created, nil
}

func (r *batchRepository) GetByID(ctx context.Context, id int64) (batch.PayrollBatch, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM payroll_batches WHERE id = $1`, batchColumns)

	b, err := scanBatch(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return batch.PayrollBatch{}, batch.ErrBatchNotFound
		}
		return batch.PayrollBatch{}, fmt.Errorf("failed to get payroll batch: %w", err)
	}

	return b, nil
}

func (r *batchRepository) List(ctx context.Context, filter batch.BatchFilter) ([]batch.PayrollBatch, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.PeriodFrom != nil {
		where += fmt.Sprintf(" AND period_end >= $%d", argIdx)
		args = append(args, *filter.PeriodFrom)
		argIdx++
	}
	if filter.PeriodTo != nil {
		where += fmt.Sprintf(" AND period_start <= $%d", argIdx)
		args = append(args, *filter.PeriodTo)
		argIdx++
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM payroll_batches %s`, where)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll batches: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM payroll_batches %s ORDER BY created_at DESC, id`, batchColumns, where)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll batches: %w", err)
	}
	defer rows.Close()

	var batches []batch.PayrollBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll batch: %w", err)
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payroll batches: %w", err)
	}

	return batches, total, nil
}

func (r *batchRepository) ListOpen(ctx context.Context) ([]batch.PayrollBatch, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM payroll_batches
		WHERE status NOT IN ('PAID', 'CANCELLED')
		ORDER BY id
	`, batchColumns)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list open payroll batches: %w", err)
	}
	defer rows.Close()

	var batches []batch.PayrollBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll batch: %w", err)
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll batches: %w", err)
	}

	return batches, nil
}

func (r *batchRepository) Update(ctx context.Context, req batch.UpdateBatchRequest) error {
	q := GetQuerier(ctx, r.db)

	setParts := []string{"updated_at = NOW()"}
	args := []interface{}{}
	argIdx := 1

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *req.Name)
		argIdx++
	}
	if req.PeriodStart != nil {
		setParts = append(setParts, fmt.Sprintf("period_start = $%d", argIdx))
		args = append(args, *req.PeriodStart)
		argIdx++
	}
	if req.PeriodEnd != nil {
		setParts = append(setParts, fmt.Sprintf("period_end = $%d", argIdx))
		args = append(args, *req.PeriodEnd)
		argIdx++
	}
	if req.Notes != nil {
		setParts = append(setParts, fmt.Sprintf("notes = $%d", argIdx))
		args = append(args, *req.Notes)
		argIdx++
	}

	query := fmt.Sprintf(`UPDATE payroll_batches SET %s WHERE id = $%d`,
		strings.Join(setParts, ", "), argIdx)
	args = append(args, req.ID)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update payroll batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return batch.ErrBatchNotFound
	}

	return nil
}

// statusStampColumns maps each target status to the actor/time columns it
// stamps.
var statusStampColumns = map[batch.BatchStatus][2]string{
	batch.BatchStatusSubmitted: {"submitted_at", "submitted_by"},
	batch.BatchStatusApproved:  {"approved_at", "approved_by"},
	batch.BatchStatusExported:  {"exported_at", "exported_by"},
	batch.BatchStatusPaid:      {"paid_at", "paid_by"},
	batch.BatchStatusCancelled: {"cancelled_at", "cancelled_by"},
}

func (r *batchRepository) TransitionStatus(ctx context.Context, id int64, expected, next batch.BatchStatus, actorID int64, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	stamps, ok := statusStampColumns[next]
	if !ok {
		return batch.ErrInvalidStatus
	}

	query := fmt.Sprintf(`
		UPDATE payroll_batches
		SET status = $1, %s = $2, %s = $3, updated_at = NOW()
		WHERE id = $4 AND status = $5
	`, stamps[0], stamps[1])

	tag, err := q.Exec(ctx, query, next, at, actorID, id, expected)
	if err != nil {
		return fmt.Errorf("failed to transition payroll batch status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return batch.ErrConcurrencyConflict
	}

	return nil
}

func (r *batchRepository) SetTotals(ctx context.Context, id int64, total decimal.Decimal, count int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_batches
		SET total_amount = $2, record_count = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, total, count)
	if err != nil {
		return fmt.Errorf("failed to set payroll batch totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return batch.ErrBatchNotFound
	}

	return nil
}

func (r *batchRepository) SetExportPath(ctx context.Context, id int64, path string) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE payroll_batches SET export_path = $2, updated_at = NOW() WHERE id = $1`

	tag, err := q.Exec(ctx, query, id, path)
	if err != nil {
		return fmt.Errorf("failed to set payroll batch export path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return batch.ErrBatchNotFound
	}

	return nil
}

func (r *batchRepository) AggregateTotals(ctx context.Context, id int64) (decimal.Decimal, int, error) {
	q := GetQuerier(ctx, r.db)

	selects := make([]string, 0, len(industry.All())+1)
	for _, ind := range industry.All() {
		selects = append(selects, fmt.Sprintf(
			`SELECT allocated_amount FROM %s WHERE payroll_batch_id = $1`, ind.AllocationTable()))
	}
	selects = append(selects, `SELECT allocated_amount FROM override_allocations WHERE payroll_batch_id = $1`)

	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(allocated_amount), 0), COUNT(*)
		FROM (
			%s
		) AS tagged
	`, strings.Join(selects, "\n\t\t\tUNION ALL\n\t\t\t"))

	var total decimal.Decimal
	var count int
	if err := q.QueryRow(ctx, query, id).Scan(&total, &count); err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to aggregate payroll batch totals: %w", err)
	}

	return total, count, nil
}
