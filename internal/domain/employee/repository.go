package employee

import "context"

type EmployeeRepository interface {
	GetByUserID(ctx context.Context, userID int64) (Employee, error)

	// ManagerOf returns the direct manager's employee record for a user.
	// ErrEmployeeNotFound means the user has no manager.
	ManagerOf(ctx context.Context, userID int64) (Employee, error)

	// DirectReports lists active employees managed by the user.
	DirectReports(ctx context.Context, managerUserID int64) ([]Employee, error)

	// SubordinateUserIDs walks the hierarchy downward from the manager and
	// returns every reachable user id, the manager's own included.
	SubordinateUserIDs(ctx context.Context, managerUserID int64) ([]int64, error)
}
