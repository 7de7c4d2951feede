package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
	"github.com/sparkhq/spark-backend-go/internal/domain/sale"
	"github.com/sparkhq/spark-backend-go/internal/pkg/database"
)

type saleRepository struct {
	db *database.DB
}

func NewSaleRepository(db *database.DB) sale.SaleRepository {
	return &saleRepository{db: db}
}

const saleColumns = `id, industry, customer_id, customer_name, status, sale_date,
		   contract_amount, is_active, cancelled_at, cancelled_by, cancel_reason,
		   created_at, updated_at`

func scanSale(row pgx.Row) (sale.Sale, error) {
	var s sale.Sale
	err := row.Scan(
		&s.ID, &s.Industry, &s.CustomerID, &s.CustomerName, &s.Status, &s.SaleDate,
		&s.ContractAmount, &s.IsActive, &s.CancelledAt, &s.CancelledBy, &s.CancelReason,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *saleRepository) GetByID(ctx context.Context, id int64) (sale.Sale, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM sales WHERE id = $1`, saleColumns)

	s, err := scanSale(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return sale.Sale{}, sale.ErrSaleNotFound
		}
		return sale.Sale{}, fmt.Errorf("failed to get sale: %w", err)
	}

	if err := r.loadParticipants(ctx, &s); err != nil {
		return sale.Sale{}, err
	}
	if err := r.loadDetail(ctx, &s); err != nil {
		return sale.Sale{}, err
	}

	return s, nil
}

func (r *saleRepository) loadParticipants(ctx context.Context, s *sale.Sale) error {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, sale_id, user_id, role_id, split_percent, is_primary
		FROM sale_participants
		WHERE sale_id = $1
		ORDER BY is_primary DESC, id
	`

	rows, err := q.Query(ctx, query, s.ID)
	if err != nil {
		return fmt.Errorf("failed to list sale participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p sale.Participant
		if err := rows.Scan(&p.ID, &p.SaleID, &p.UserID, &p.RoleID, &p.SplitPercent, &p.IsPrimary); err != nil {
			return fmt.Errorf("failed to scan sale participant: %w", err)
		}
		s.Participants = append(s.Participants, p)
	}
	return rows.Err()
}

func (r *saleRepository) loadDetail(ctx context.Context, s *sale.Sale) error {
	q := GetQuerier(ctx, r.db)

	switch s.Industry {
	case industry.Solar:
		query := `SELECT sale_id, system_sold_value, installer_id, state_code FROM solar_sale_details WHERE sale_id = $1`
		var d sale.SolarDetail
		err := q.QueryRow(ctx, query, s.ID).Scan(&d.SaleID, &d.SystemSoldValue, &d.InstallerID, &d.StateCode)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil
			}
			return fmt.Errorf("failed to get solar sale detail: %w", err)
		}
		s.Solar = &d
	case industry.Pest:
		query := `SELECT sale_id, initial_service_price, contract_total_value, state_code FROM pest_sale_details WHERE sale_id = $1`
		var d sale.PestDetail
		err := q.QueryRow(ctx, query, s.ID).Scan(&d.SaleID, &d.InitialServicePrice, &d.ContractTotalValue, &d.StateCode)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil
			}
			return fmt.Errorf("failed to get pest sale detail: %w", err)
		}
		s.Pest = &d
	case industry.Roofing:
		query := `SELECT sale_id, frontend_received_amount, backend_received_amount, installer_id, state_code FROM roofing_sale_details WHERE sale_id = $1`
		var d sale.RoofingDetail
		err := q.QueryRow(ctx, query, s.ID).Scan(&d.SaleID, &d.FrontendReceivedAmount, &d.BackendReceivedAmount, &d.InstallerID, &d.StateCode)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil
			}
			return fmt.Errorf("failed to get roofing sale detail: %w", err)
		}
		s.Roofing = &d
	case industry.Fiber:
		query := `SELECT sale_id, installer_id, state_code FROM fiber_sale_details WHERE sale_id = $1`
		var d sale.FiberDetail
		err := q.QueryRow(ctx, query, s.ID).Scan(&d.SaleID, &d.InstallerID, &d.StateCode)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil
			}
			return fmt.Errorf("failed to get fiber sale detail: %w", err)
		}
		s.Fiber = &d
	}

	return nil
}

func (r *saleRepository) List(ctx context.Context, filter sale.SaleFilter) ([]sale.Sale, int64, error) {
	return r.list(ctx, nil, filter)
}

func (r *saleRepository) ListForUsers(ctx context.Context, userIDs []int64, filter sale.SaleFilter) ([]sale.Sale, int64, error) {
	return r.list(ctx, userIDs, filter)
}

func (r *saleRepository) list(ctx context.Context, userIDs []int64, filter sale.SaleFilter) ([]sale.Sale, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if userIDs != nil {
		where += fmt.Sprintf(" AND id IN (SELECT sale_id FROM sale_participants WHERE user_id = ANY($%d))", argIdx)
		args = append(args, userIDs)
		argIdx++
	}
	if filter.UserID != nil {
		where += fmt.Sprintf(" AND id IN (SELECT sale_id FROM sale_participants WHERE user_id = $%d)", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.DateFrom != nil {
		where += fmt.Sprintf(" AND sale_date >= $%d", argIdx)
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil {
		where += fmt.Sprintf(" AND sale_date <= $%d", argIdx)
		args = append(args, *filter.DateTo)
		argIdx++
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM sales %s`, where)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sales: %w", err)
	}

	orderBy := "sale_date"
	switch filter.SortBy {
	case "created_at", "contract_amount", "status":
		orderBy = filter.SortBy
	}
	direction := "DESC"
	if filter.SortOrder == "asc" {
		direction = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM sales %s ORDER BY %s %s, id`, saleColumns, where, orderBy, direction)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	var sales []sale.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate sales: %w", err)
	}

	return sales, total, nil
}

func (r *saleRepository) Cancel(ctx context.Context, id int64, reason string, actorID int64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE sales
		SET status = 'CANCELLED', is_active = false,
			cancelled_at = NOW(), cancelled_by = $2, cancel_reason = $3,
			updated_at = NOW()
		WHERE id = $1 AND status <> 'CANCELLED'
	`

	tag, err := q.Exec(ctx, query, id, actorID, reason)
	if err != nil {
		return fmt.Errorf("failed to cancel sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM sales WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to cancel sale: %w", err)
		}
		if !exists {
			return sale.ErrSaleNotFound
		}
		return sale.ErrSaleAlreadyCancelled
	}

	return nil
}
