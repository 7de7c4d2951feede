package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/sparkhq/spark-backend-go/internal/domain/allocation"
	"github.com/sparkhq/spark-backend-go/internal/pkg/database"
)

type overrideRepository struct {
	db *database.DB
}

func NewOverrideRepository(db *database.DB) allocation.OverrideRepository {
	return &overrideRepository{db: db}
}

const overrideColumns = `id, sale_id, user_id, source_user_id, override_level,
		   milestone_number, allocated_amount, is_approved, approved_at, approved_by,
		   is_paid, paid_at, payroll_batch_id, created_at, updated_at`

func scanOverride(row pgx.Row) (allocation.OverrideAllocation, error) {
	var o allocation.OverrideAllocation
	err := row.Scan(
		&o.ID, &o.SaleID, &o.UserID, &o.SourceUserID, &o.OverrideLevel,
		&o.MilestoneNumber, &o.AllocatedAmount, &o.IsApproved, &o.ApprovedAt, &o.ApprovedBy,
		&o.IsPaid, &o.PaidAt, &o.PayrollBatchID, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

func (r *overrideRepository) GetByID(ctx context.Context, id int64) (allocation.OverrideAllocation, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM override_allocations WHERE id = $1`, overrideColumns)

	o, err := scanOverride(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return allocation.OverrideAllocation{}, allocation.ErrOverrideNotFound
		}
		return allocation.OverrideAllocation{}, fmt.Errorf("failed to get override allocation: %w", err)
	}

	return o, nil
}

func (r *overrideRepository) GetByKey(ctx context.Context, saleID, userID int64, level int) (allocation.OverrideAllocation, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM override_allocations
		WHERE sale_id = $1 AND user_id = $2 AND override_level = $3
	`, overrideColumns)

	o, err := scanOverride(q.QueryRow(ctx, query, saleID, userID, level))
	if err != nil {
		if err == pgx.ErrNoRows {
			return allocation.OverrideAllocation{}, allocation.ErrOverrideNotFound
		}
		return allocation.OverrideAllocation{}, fmt.Errorf("failed to get override allocation: %w", err)
	}

	return o, nil
}

func (r *overrideRepository) Insert(ctx context.Context, o allocation.OverrideAllocation) (allocation.OverrideAllocation, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO override_allocations (
			sale_id, user_id, source_user_id, override_level, milestone_number, allocated_amount
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s
	`, overrideColumns)

	created, err := scanOverride(q.QueryRow(ctx, query,
		o.SaleID, o.UserID, o.SourceUserID, o.OverrideLevel, o.MilestoneNumber, o.AllocatedAmount,
	))
	if err != nil {
		return allocation.OverrideAllocation{}, fmt.Errorf("failed to insert override allocation: %w", err)
	}

	return created, nil
}

func (r *overrideRepository) UpdateAmount(ctx context.Context, id int64, amount decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE override_allocations SET allocated_amount = $2, updated_at = NOW() WHERE id = $1`

	tag, err := q.Exec(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("failed to update override allocation amount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return allocation.ErrOverrideNotFound
	}

	return nil
}

func (r *overrideRepository) DeleteByKey(ctx context.Context, saleID, userID int64, level int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM override_allocations
		WHERE sale_id = $1 AND user_id = $2 AND override_level = $3 AND is_paid = false
	`

	if _, err := q.Exec(ctx, query, saleID, userID, level); err != nil {
		return fmt.Errorf("failed to delete override allocation: %w", err)
	}

	return nil
}

func (r *overrideRepository) Approve(ctx context.Context, id int64, actorID int64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE override_allocations
		SET is_approved = true, approved_at = NOW(), approved_by = $2, updated_at = NOW()
		WHERE id = $1 AND is_approved = false
	`

	tag, err := q.Exec(ctx, query, id, actorID)
	if err != nil {
		return fmt.Errorf("failed to approve override allocation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}

	return nil
}

func (r *overrideRepository) ListForSale(ctx context.Context, saleID int64) ([]allocation.OverrideAllocation, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM override_allocations
		WHERE sale_id = $1
		ORDER BY milestone_number, override_level
	`, overrideColumns)

	return r.listOverrides(ctx, query, saleID)
}

func (r *overrideRepository) ListForUser(ctx context.Context, userID int64) ([]allocation.OverrideAllocation, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM override_allocations
		WHERE user_id = $1
		ORDER BY created_at DESC, id
	`, overrideColumns)

	return r.listOverrides(ctx, query, userID)
}

func (r *overrideRepository) ListForBatch(ctx context.Context, batchID int64) ([]allocation.OverrideAllocation, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM override_allocations
		WHERE payroll_batch_id = $1
		ORDER BY user_id, sale_id, override_level
	`, overrideColumns)

	return r.listOverrides(ctx, query, batchID)
}

func (r *overrideRepository) listOverrides(ctx context.Context, query string, arg interface{}) ([]allocation.OverrideAllocation, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list override allocations: %w", err)
	}
	defer rows.Close()

	var overrides []allocation.OverrideAllocation
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan override allocation: %w", err)
		}
		overrides = append(overrides, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate override allocations: %w", err)
	}

	return overrides, nil
}

func (r *overrideRepository) SetBatch(ctx context.Context, id int64, batchID *int64) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE override_allocations SET payroll_batch_id = $2, updated_at = NOW() WHERE id = $1`

	tag, err := q.Exec(ctx, query, id, batchID)
	if err != nil {
		return fmt.Errorf("failed to set override allocation batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return allocation.ErrOverrideNotFound
	}

	return nil
}

func (r *overrideRepository) MarkPaidForBatch(ctx context.Context, batchID int64) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE override_allocations
		SET is_paid = true, paid_at = NOW(), updated_at = NOW()
		WHERE payroll_batch_id = $1 AND is_paid = false
	`

	tag, err := q.Exec(ctx, query, batchID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark override allocations paid: %w", err)
	}

	return tag.RowsAffected(), nil
}
