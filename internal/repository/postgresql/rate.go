package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
	"github.com/sparkhq/spark-backend-go/internal/domain/rate"
	"github.com/sparkhq/spark-backend-go/internal/pkg/database"
)

type rateRepository struct {
	db *database.DB
}

func NewRateRepository(db *database.DB) rate.RateRepository {
	return &rateRepository{db: db}
}

const rateColumns = `id, user_id, role_id, installer_id, state_code,
		   percent_mp1, flat_mp1, percent_mp2, flat_mp2,
		   is_active, effective_start, effective_end,
		   created_at, created_by, updated_at, updated_by`

func scanRate(row pgx.Row, ind industry.Industry) (rate.CommissionRate, error) {
	var cr rate.CommissionRate
	err := row.Scan(
		&cr.ID, &cr.UserID, &cr.RoleID, &cr.InstallerID, &cr.StateCode,
		&cr.PercentMp1, &cr.FlatMp1, &cr.PercentMp2, &cr.FlatMp2,
		&cr.IsActive, &cr.EffectiveStart, &cr.EffectiveEnd,
		&cr.CreatedAt, &cr.CreatedBy, &cr.UpdatedAt, &cr.UpdatedBy,
	)
	if err != nil {
		return rate.CommissionRate{}, err
	}
	cr.Industry = ind
	return cr, nil
}

func (r *rateRepository) Create(ctx context.Context, cr rate.CommissionRate) (rate.CommissionRate, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO %s (
			user_id, role_id, installer_id, state_code,
			percent_mp1, flat_mp1, percent_mp2, flat_mp2,
			is_active, effective_start, effective_end, created_by, updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		RETURNING %s
	`, cr.Industry.RateTable(), rateColumns)

	created, err := scanRate(q.QueryRow(ctx, query,
		cr.UserID, cr.RoleID, cr.InstallerID, cr.StateCode,
		cr.PercentMp1, cr.FlatMp1, cr.PercentMp2, cr.FlatMp2,
		cr.IsActive, cr.EffectiveStart, cr.EffectiveEnd, cr.CreatedBy,
	), cr.Industry)
	if err != nil {
		return rate.CommissionRate{}, fmt.Errorf("failed to create commission rate: %w", err)
	}

	return created, nil
}

func (r *rateRepository) GetByID(ctx context.Context, ind industry.Industry, id int64) (rate.CommissionRate, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, rateColumns, ind.RateTable())

	cr, err := scanRate(q.QueryRow(ctx, query, id), ind)
	if err != nil {
		if err == pgx.ErrNoRows {
			return rate.CommissionRate{}, rate.ErrRateNotFound
		}
		return rate.CommissionRate{}, fmt.Errorf("failed to get commission rate: %w", err)
	}

	return cr, nil
}

func (r *rateRepository) List(ctx context.Context, ind industry.Industry, filter rate.RateFilter) ([]rate.CommissionRate, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil {
		where += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.RoleID != nil {
		where += fmt.Sprintf(" AND role_id = $%d", argIdx)
		args = append(args, *filter.RoleID)
		argIdx++
	}
	if filter.InstallerID != nil {
		where += fmt.Sprintf(" AND installer_id = $%d", argIdx)
		args = append(args, *filter.InstallerID)
		argIdx++
	}
	if filter.StateCode != nil {
		where += fmt.Sprintf(" AND state_code = $%d", argIdx)
		args = append(args, *filter.StateCode)
		argIdx++
	}
	if filter.ActiveOnly {
		where += " AND is_active = true"
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, ind.RateTable(), where)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count commission rates: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY effective_start DESC, id`, rateColumns, ind.RateTable(), where)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list commission rates: %w", err)
	}
	defer rows.Close()

	var rates []rate.CommissionRate
	for rows.Next() {
		cr, err := scanRate(rows, ind)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan commission rate: %w", err)
		}
		rates = append(rates, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate commission rates: %w", err)
	}

	return rates, total, nil
}

func (r *rateRepository) Update(ctx context.Context, ind industry.Industry, req rate.UpdateRateRequest, actorID int64) error {
	q := GetQuerier(ctx, r.db)

	setParts := []string{"updated_at = NOW()"}
	args := []interface{}{}
	argIdx := 1

	addSet := func(column string, value interface{}) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.RoleID != nil {
		addSet("role_id", *req.RoleID)
	}
	if req.InstallerID != nil {
		addSet("installer_id", *req.InstallerID)
	}
	if req.StateCode != nil {
		addSet("state_code", *req.StateCode)
	}
	if req.PercentMp1 != nil {
		addSet("percent_mp1", *req.PercentMp1)
	}
	if req.FlatMp1 != nil {
		addSet("flat_mp1", *req.FlatMp1)
	}
	if req.PercentMp2 != nil {
		addSet("percent_mp2", *req.PercentMp2)
	}
	if req.FlatMp2 != nil {
		addSet("flat_mp2", *req.FlatMp2)
	}
	if req.IsActive != nil {
		addSet("is_active", *req.IsActive)
	}
	if req.EffectiveStart != nil {
		addSet("effective_start", *req.EffectiveStart)
	}
	if req.EffectiveEnd != nil {
		addSet("effective_end", *req.EffectiveEnd)
	}
	addSet("updated_by", actorID)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`,
		ind.RateTable(), strings.Join(setParts, ", "), argIdx)
	args = append(args, req.ID)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update commission rate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return rate.ErrRateNotFound
	}

	return nil
}

func (r *rateRepository) Deactivate(ctx context.Context, ind industry.Industry, id int64, actorID int64) error {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s
		SET is_active = false, updated_at = NOW(), updated_by = $2
		WHERE id = $1
	`, ind.RateTable())

	tag, err := q.Exec(ctx, query, id, actorID)
	if err != nil {
		return fmt.Errorf("failed to deactivate commission rate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return rate.ErrRateNotFound
	}

	return nil
}

func (r *rateRepository) ActiveForUser(ctx context.Context, ind industry.Industry, userID int64, onDate time.Time) ([]rate.CommissionRate, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1
		  AND is_active = true
		  AND effective_start <= $2
		  AND (effective_end IS NULL OR effective_end >= $2)
		ORDER BY effective_start DESC, id
	`, rateColumns, ind.RateTable())

	rows, err := q.Query(ctx, query, userID, onDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list active commission rates: %w", err)
	}
	defer rows.Close()

	var rates []rate.CommissionRate
	for rows.Next() {
		cr, err := scanRate(rows, ind)
		if err != nil {
			return nil, fmt.Errorf("failed to scan commission rate: %w", err)
		}
		rates = append(rates, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate commission rates: %w", err)
	}

	return rates, nil
}
