package employee

import (
	"context"
)

// TeamService exposes hierarchy reads for team views and scoped queries.
type TeamService interface {
	GetTeam(ctx context.Context, managerUserID int64) (TeamResponse, error)

	// AccessibleUserIDs resolves the user ids a manager may read data for.
	AccessibleUserIDs(ctx context.Context, managerUserID int64) ([]int64, error)
}
