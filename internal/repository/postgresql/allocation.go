package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/sparkhq/spark-backend-go/internal/domain/allocation"
	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
	"github.com/sparkhq/spark-backend-go/internal/pkg/database"
)

type allocationRepository struct {
	db *database.DB
}

func NewAllocationRepository(db *database.DB) allocation.AllocationRepository {
	return &allocationRepository{db: db}
}

const allocationColumns = `id, sale_id, user_id, milestone_number, allocated_amount,
		   is_approved, approved_at, approved_by, is_paid, paid_at,
		   payroll_batch_id, created_at, updated_at`

func scanAllocation(row pgx.Row, ind industry.Industry) (allocation.Allocation, error) {
	var a allocation.Allocation
	err := row.Scan(
		&a.ID, &a.SaleID, &a.UserID, &a.MilestoneNumber, &a.AllocatedAmount,
		&a.IsApproved, &a.ApprovedAt, &a.ApprovedBy, &a.IsPaid, &a.PaidAt,
		&a.PayrollBatchID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return allocation.Allocation{}, err
	}
	a.Industry = ind
	return a, nil
}

// unifiedAllocationQuery selects the common columns from all four industry
// tables with the industry name as a discriminator column.
func unifiedAllocationQuery(where string) string {
	selects := make([]string, 0, len(industry.All()))
	for _, ind := range industry.All() {
		selects = append(selects, fmt.Sprintf(
			`SELECT '%s' AS industry, %s FROM %s %s`,
			ind, allocationColumns, ind.AllocationTable(), where))
	}
	return strings.Join(selects, "\n\t\tUNION ALL\n\t\t")
}

func (r *allocationRepository) GetByID(ctx context.Context, ind industry.Industry, id int64) (allocation.Allocation, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, allocationColumns, ind.AllocationTable())

	a, err := scanAllocation(q.QueryRow(ctx, query, id), ind)
	if err != nil {
		if err == pgx.ErrNoRows {
			return allocation.Allocation{}, allocation.ErrAllocationNotFound
		}
		return allocation.Allocation{}, fmt.Errorf("failed to get allocation: %w", err)
	}

	return a, nil
}

func (r *allocationRepository) GetByKey(ctx context.Context, ind industry.Industry, saleID, userID int64, milestone int) (allocation.Allocation, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE sale_id = $1 AND user_id = $2 AND milestone_number = $3
	`, allocationColumns, ind.AllocationTable())

	a, err := scanAllocation(q.QueryRow(ctx, query, saleID, userID, milestone), ind)
	if err != nil {
		if err == pgx.ErrNoRows {
			return allocation.Allocation{}, allocation.ErrAllocationNotFound
		}
		return allocation.Allocation{}, fmt.Errorf("failed to get allocation: %w", err)
	}

	return a, nil
}

func (r *allocationRepository) Insert(ctx context.Context, a allocation.Allocation) (allocation.Allocation, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO %s (sale_id, user_id, milestone_number, allocated_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING %s
	`, a.Industry.AllocationTable(), allocationColumns)

	created, err := scanAllocation(q.QueryRow(ctx, query,
		a.SaleID, a.UserID, a.MilestoneNumber, a.AllocatedAmount,
	), a.Industry)
	if err != nil {
		return allocation.Allocation{}, fmt.Errorf("failed to insert allocation: %w", err)
	}

	return created, nil
}

func (r *allocationRepository) UpdateAmount(ctx context.Context, ind industry.Industry, id int64, amount decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s SET allocated_amount = $2, updated_at = NOW() WHERE id = $1
	`, ind.AllocationTable())

	tag, err := q.Exec(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("failed to update allocation amount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return allocation.ErrAllocationNotFound
	}

	return nil
}

func (r *allocationRepository) DeleteByKey(ctx context.Context, ind industry.Industry, saleID, userID int64, milestone int) error {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE sale_id = $1 AND user_id = $2 AND milestone_number = $3 AND is_paid = false
	`, ind.AllocationTable())

	if _, err := q.Exec(ctx, query, saleID, userID, milestone); err != nil {
		return fmt.Errorf("failed to delete allocation: %w", err)
	}

	return nil
}

func (r *allocationRepository) Approve(ctx context.Context, ind industry.Industry, id int64, actorID int64) error {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s
		SET is_approved = true, approved_at = NOW(), approved_by = $2, updated_at = NOW()
		WHERE id = $1 AND is_approved = false
	`, ind.AllocationTable())

	tag, err := q.Exec(ctx, query, id, actorID)
	if err != nil {
		return fmt.Errorf("failed to approve allocation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, ind, id); err != nil {
			return err
		}
	}

	return nil
}

func (r *allocationRepository) ListForSale(ctx context.Context, saleID int64) ([]allocation.Allocation, error) {
	q := GetQuerier(ctx, r.db)

	query := unifiedAllocationQuery("WHERE sale_id = $1") + "\n\t\tORDER BY industry, milestone_number, user_id"

	rows, err := q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations for sale: %w", err)
	}
	defer rows.Close()

	return collectUnified(rows)
}

func collectUnified(rows pgx.Rows) ([]allocation.Allocation, error) {
	var allocations []allocation.Allocation
	for rows.Next() {
		var a allocation.Allocation
		err := rows.Scan(
			&a.Industry,
			&a.ID, &a.SaleID, &a.UserID, &a.MilestoneNumber, &a.AllocatedAmount,
			&a.IsApproved, &a.ApprovedAt, &a.ApprovedBy, &a.IsPaid, &a.PaidAt,
			&a.PayrollBatchID, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		allocations = append(allocations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate allocations: %w", err)
	}
	return allocations, nil
}

func (r *allocationRepository) List(ctx context.Context, filter allocation.AllocationFilter) ([]allocation.Allocation, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.SaleID != nil {
		where += fmt.Sprintf(" AND sale_id = $%d", argIdx)
		args = append(args, *filter.SaleID)
		argIdx++
	}
	if filter.UserID != nil {
		where += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if len(filter.UserIDs) > 0 {
		where += fmt.Sprintf(" AND user_id = ANY($%d)", argIdx)
		args = append(args, filter.UserIDs)
		argIdx++
	}
	if filter.IsApproved != nil {
		where += fmt.Sprintf(" AND is_approved = $%d", argIdx)
		args = append(args, *filter.IsApproved)
		argIdx++
	}
	if filter.IsPaid != nil {
		where += fmt.Sprintf(" AND is_paid = $%d", argIdx)
		args = append(args, *filter.IsPaid)
		argIdx++
	}
	if filter.BatchID != nil {
		where += fmt.Sprintf(" AND payroll_batch_id = $%d", argIdx)
		args = append(args, *filter.BatchID)
		argIdx++
	}
	if filter.Unbatched {
		where += " AND payroll_batch_id IS NULL"
	}

	var inner string
	if filter.Industry != nil {
		inner = fmt.Sprintf(`SELECT '%s' AS industry, %s FROM %s %s`,
			*filter.Industry, allocationColumns, filter.Industry.AllocationTable(), where)
	} else {
		inner = unifiedAllocationQuery(where)
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM (\n\t\t%s\n\t) AS unified", inner)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count allocations: %w", err)
	}

	query := fmt.Sprintf("SELECT * FROM (\n\t\t%s\n\t) AS unified ORDER BY created_at DESC, id", inner)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list allocations: %w", err)
	}
	defer rows.Close()

	allocations, err := collectUnified(rows)
	if err != nil {
		return nil, 0, err
	}

	return allocations, total, nil
}

func (r *allocationRepository) ListForBatch(ctx context.Context, batchID int64) ([]allocation.Allocation, error) {
	q := GetQuerier(ctx, r.db)

	query := unifiedAllocationQuery("WHERE payroll_batch_id = $1") + "\n\t\tORDER BY industry, user_id, sale_id"

	rows, err := q.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations for batch: %w", err)
	}
	defer rows.Close()

	return collectUnified(rows)
}

func (r *allocationRepository) SetBatch(ctx context.Context, ind industry.Industry, id int64, batchID *int64) error {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s SET payroll_batch_id = $2, updated_at = NOW() WHERE id = $1
	`, ind.AllocationTable())

	tag, err := q.Exec(ctx, query, id, batchID)
	if err != nil {
		return fmt.Errorf("failed to set allocation batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return allocation.ErrAllocationNotFound
	}

	return nil
}

func (r *allocationRepository) MarkPaidForBatch(ctx context.Context, ind industry.Industry, batchID int64) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s
		SET is_paid = true, paid_at = NOW(), updated_at = NOW()
		WHERE payroll_batch_id = $1 AND is_paid = false
	`, ind.AllocationTable())

	tag, err := q.Exec(ctx, query, batchID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark allocations paid: %w", err)
	}

	return tag.RowsAffected(), nil
}
