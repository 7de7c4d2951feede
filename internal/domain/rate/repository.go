package rate

import (
	"context"
	"time"

	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
)

// RateRepository is one repository over all four industry rate tables, routed
// by the industry tag.
type RateRepository interface {
	Create(ctx context.Context, r CommissionRate) (CommissionRate, error)
	GetByID(ctx context.Context, ind industry.Industry, id int64) (CommissionRate, error)
	List(ctx context.Context, ind industry.Industry, filter RateFilter) ([]CommissionRate, int64, error)
	Update(ctx context.Context, ind industry.Industry, req UpdateRateRequest, actorID int64) error
	Deactivate(ctx context.Context, ind industry.Industry, id int64, actorID int64) error

	// ActiveForUser returns the active rates for a user whose effective
	// window covers the given date. Resolution ranks these in memory.
	ActiveForUser(ctx context.Context, ind industry.Industry, userID int64, onDate time.Time) ([]CommissionRate, error)
}
