package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sparkhq/spark-backend-go/internal/domain/employee"
	"github.com/sparkhq/spark-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, user_id, full_name, manager_user_id, role_id, is_active, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.UserID, &e.FullName, &e.ManagerUserID, &e.RoleID,
		&e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *employeeRepository) GetByUserID(ctx context.Context, userID int64) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM employees WHERE user_id = $1`, employeeColumns)

	e, err := scanEmployee(q.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}

func (r *employeeRepository) ManagerOf(ctx context.Context, userID int64) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM employees
		WHERE user_id = (SELECT manager_user_id FROM employees WHERE user_id = $1)
	`, employeeColumns)

	e, err := scanEmployee(q.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get manager: %w", err)
	}

	return e, nil
}

func (r *employeeRepository) DirectReports(ctx context.Context, managerUserID int64) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM employees
		WHERE manager_user_id = $1 AND is_active = true
		ORDER BY full_name
	`, employeeColumns)

	rows, err := q.Query(ctx, query, managerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list direct reports: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

func (r *employeeRepository) SubordinateUserIDs(ctx context.Context, managerUserID int64) ([]int64, error) {
	q := GetQuerier(ctx, r.db)

	// Depth is bounded to keep a corrupted hierarchy from looping forever.
	query := `
		WITH RECURSIVE subordinates AS (
			SELECT user_id, 0 AS depth
			FROM employees
			WHERE user_id = $1
			UNION ALL
			SELECT e.user_id, s.depth + 1
			FROM employees e
			JOIN subordinates s ON e.manager_user_id = s.user_id
			WHERE e.is_active = true AND s.depth < 10
		)
		SELECT DISTINCT user_id FROM subordinates
	`

	rows, err := q.Query(ctx, query, managerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subordinate user ids: %w", err)
	}
	defer rows.Close()

	var userIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan subordinate user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subordinate user ids: %w", err)
	}

	return userIDs, nil
}
